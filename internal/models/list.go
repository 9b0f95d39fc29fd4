package models

import "time"

// ShoppingList is a named collection of items belonging to a household.
// Completed only ever moves from false to true.
type ShoppingList struct {
	ID          string    `json:"id"`
	HouseholdID string    `json:"household_id,omitempty"`
	Name        string    `json:"name"`
	ColorName   string    `json:"color_name"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
}
