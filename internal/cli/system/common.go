package system

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/basket/internal/models"
	"github.com/julianstephens/basket/internal/storage"
)

func cleanAbs(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}

// loadDirectory reads every household, user and list. Households are found
// through their members and lists, so one without either is not copied.
func loadDirectory(src storage.Provider) ([]*models.Household, []*models.User, []*models.ShoppingList, error) {
	users, err := src.GetUsers()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get users: %w", err)
	}
	lists, err := src.GetLists("")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get lists: %w", err)
	}

	seen := make(map[string]bool)
	var households []*models.Household
	addHousehold := func(id string) error {
		if id == "" || seen[id] {
			return nil
		}
		seen[id] = true
		h, err := src.GetHousehold(id)
		if err != nil {
			return fmt.Errorf("failed to get household %s: %w", id, err)
		}
		households = append(households, h)
		return nil
	}
	for _, u := range users {
		if err := addHousehold(u.HouseholdID); err != nil {
			return nil, nil, nil, err
		}
	}
	for _, l := range lists {
		if err := addHousehold(l.HouseholdID); err != nil {
			return nil, nil, nil, err
		}
	}
	return households, users, lists, nil
}
