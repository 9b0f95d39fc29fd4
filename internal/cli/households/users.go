package households

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/basket/internal/cli"
	"github.com/julianstephens/basket/internal/format"
	"github.com/julianstephens/basket/internal/service"
)

type UserAddCmd struct {
	Name  string `arg:"" help:"Name shown as the author of items."`
	Color string `help:"Avatar color tag."`
	Emoji string `help:"Avatar emoji."`
	Use   bool   `help:"Make the new user the active user." default:"true" negatable:""`
}

func (c *UserAddCmd) Run(ctx *cli.Context) error {
	u, err := ctx.Service.CreateUser(service.UserInput{
		Name:        c.Name,
		AvatarColor: c.Color,
		AvatarEmoji: c.Emoji,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added user: %s (ID: %s)\n", u.Name, u.ID)

	if !c.Use {
		return nil
	}
	if _, err := ctx.Service.ActivateUser(u.ID); err != nil {
		return err
	}
	fmt.Printf("Active user is now %s\n", u.Name)
	return nil
}

type UserListCmd struct {
	ShowIDs bool `help:"Show user IDs." name:"show-ids"`
}

func (c *UserListCmd) Run(ctx *cli.Context) error {
	users, err := ctx.Service.Users()
	if err != nil {
		return fmt.Errorf("failed to get users: %w", err)
	}
	if len(users) == 0 {
		fmt.Println("No users found")
		return nil
	}

	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	now := time.Now()
	fmt.Println("Users:")
	for _, u := range users {
		marker := " "
		if u.ID == settings.ActiveUserID {
			marker = "*"
		}
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", u.ID)
		}
		household := "no household"
		if u.HouseholdID != "" {
			household = "household " + u.HouseholdID
		}
		fmt.Printf(" %s %s %s%s - %s, joined %s\n",
			marker, strings.TrimSpace(u.AvatarEmoji+" "), u.Name, idStr, household, format.Ago(u.CreatedAt, now))
	}
	return nil
}

type UserUseCmd struct {
	User string `arg:"" help:"User name or ID."`
}

func (c *UserUseCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Service.ActivateUser(c.User)
	if err != nil {
		return err
	}
	fmt.Printf("Active user is now %s\n", id.User.Name)
	if id.Household != nil {
		fmt.Printf("Household: %s\n", id.Household.Name)
	}
	return nil
}

type UserSignOutCmd struct{}

func (c *UserSignOutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Service.SignOut(); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

type WhoAmICmd struct{}

func (c *WhoAmICmd) Run(ctx *cli.Context) error {
	id, err := ctx.Identity()
	if err != nil {
		return err
	}
	fmt.Printf("User: %s (ID: %s)\n", id.User.Name, id.User.ID)
	if id.Household == nil {
		fmt.Println("Household: none")
		return nil
	}
	fmt.Printf("Household: %s (code %s)\n", id.Household.Name, id.Household.JoinCode)
	return nil
}
