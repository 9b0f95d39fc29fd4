package system

import (
	"fmt"

	"github.com/julianstephens/basket/internal/cli"
	"github.com/julianstephens/basket/internal/storage"
	"github.com/julianstephens/basket/internal/validation"
)

// ValidateCmd checks stored lists, sessions and items for integrity
// conflicts.
type ValidateCmd struct {
	Household bool `help:"Only check the active household."`
}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	var (
		result validation.Result
		err    error
	)
	if cmd.Household {
		id, herr := ctx.Household()
		if herr != nil {
			return herr
		}
		result, err = validateHousehold(ctx, id.Household.ID)
	} else {
		result, err = validateStore(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Print(result.FormatReport())
	if result.HasConflicts() {
		return fmt.Errorf("validation found %d conflict(s)", len(result.Conflicts))
	}
	return nil
}

func validateStore(ctx *cli.Context) (validation.Result, error) {
	return validateHousehold(ctx, "")
}

func validateHousehold(ctx *cli.Context, householdID string) (validation.Result, error) {
	lists, err := ctx.Store.GetLists(householdID)
	if err != nil {
		return validation.Result{}, fmt.Errorf("failed to get lists: %w", err)
	}
	sessions, err := ctx.Store.QuerySessions(storage.SessionQuery{HouseholdID: householdID, OldestFirst: true})
	if err != nil {
		return validation.Result{}, fmt.Errorf("failed to get sessions: %w", err)
	}
	items, err := ctx.Store.QueryItems(storage.ItemQuery{HouseholdID: householdID})
	if err != nil {
		return validation.Result{}, fmt.Errorf("failed to get items: %w", err)
	}
	return validation.New().ValidateAll(lists, sessions, items), nil
}
