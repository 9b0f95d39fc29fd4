package households

import (
	"errors"
	"fmt"

	"github.com/julianstephens/basket/internal/cli"
	apperrors "github.com/julianstephens/basket/internal/errors"
	"github.com/julianstephens/basket/internal/service"
)

type HouseholdCreateCmd struct {
	Name string `arg:"" help:"Household name."`
}

func (c *HouseholdCreateCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Identity()
	if err != nil {
		return err
	}
	if id.Household != nil {
		ok, err := ctx.Confirm(fmt.Sprintf("%s already belongs to %s. Leave it and create %s?", id.User.Name, id.Household.Name, c.Name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	h, err := ctx.Service.CreateHousehold(id, c.Name)
	if err != nil {
		return err
	}
	fmt.Printf("Created household: %s\n", h.Name)
	fmt.Printf("Join code: %s\n", h.JoinCode)
	fmt.Println("Share this code so others can join with 'basket household join <code>'.")
	return nil
}

type HouseholdJoinCmd struct {
	Code string `arg:"" help:"Six-character join code."`
}

func (c *HouseholdJoinCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Identity()
	if err != nil {
		return err
	}
	h, err := ctx.Service.JoinHousehold(id, c.Code)
	if errors.Is(err, service.ErrInvalidJoinCode) {
		return apperrors.WithHint(err, "check the code with whoever created the household ('basket household show')")
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s joined %s\n", id.User.Name, h.Name)
	return nil
}

type HouseholdShowCmd struct{}

func (c *HouseholdShowCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Household()
	if err != nil {
		return err
	}
	members, err := ctx.Service.Members(id)
	if err != nil {
		return fmt.Errorf("failed to get members: %w", err)
	}
	lists, err := ctx.Service.Lists(id)
	if err != nil {
		return fmt.Errorf("failed to get lists: %w", err)
	}

	fmt.Printf("Household: %s\n", id.Household.Name)
	fmt.Printf("Join code: %s\n", id.Household.JoinCode)
	fmt.Printf("Lists:     %d\n", len(lists))
	fmt.Println("Members:")
	for _, m := range members {
		fmt.Printf("  %s %s\n", m.AvatarEmoji, m.Name)
	}
	return nil
}
