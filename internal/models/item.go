package models

import (
	"fmt"
	"time"
)

type ItemStatus string

const (
	StatusPending ItemStatus = "pending"
	StatusInCart  ItemStatus = "inCart"
	StatusBought  ItemStatus = "bought"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInCart, StatusBought:
		return true
	}
	return false
}

type Category string

const (
	CategoryBakery   Category = "bakery"
	CategoryProduce  Category = "produce"
	CategoryMeat     Category = "meat"
	CategoryDairy    Category = "dairy"
	CategoryPantry   Category = "pantry"
	CategoryCleaning Category = "cleaning"
	CategoryDrinks   Category = "drinks"
	CategoryOther    Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryBakery,
	CategoryProduce,
	CategoryMeat,
	CategoryDairy,
	CategoryPantry,
	CategoryCleaning,
	CategoryDrinks,
	CategoryOther,
}

var categoryLabels = map[Category]string{
	CategoryBakery:   "Padaria",
	CategoryProduce:  "Hortifruti",
	CategoryMeat:     "Açougue",
	CategoryDairy:    "Laticínios",
	CategoryPantry:   "Despensa",
	CategoryCleaning: "Limpeza",
	CategoryDrinks:   "Bebidas",
	CategoryOther:    "Outros",
}

// Label returns the display name shown on lists and exports.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseCategory accepts either the key ("dairy") or the label ("Laticínios").
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return CategoryOther, nil
	}
	c := Category(s)
	if c.Valid() {
		return c, nil
	}
	for key, label := range categoryLabels {
		if label == s {
			return key, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// GroceryItem is one line on a shopping list. ActualPrice and IsPromo only
// carry meaning once Status is StatusBought.
type GroceryItem struct {
	ID             string     `json:"id"`
	ListID         string     `json:"list_id,omitempty"`
	SessionID      string     `json:"session_id,omitempty"`
	Name           string     `json:"name"`
	Quantity       int        `json:"quantity"`
	Category       Category   `json:"category"`
	AuthorName     string     `json:"author_name"`
	Status         ItemStatus `json:"status"`
	EstimatedPrice *float64   `json:"estimated_price,omitempty"`
	ActualPrice    *float64   `json:"actual_price,omitempty"`
	IsPromo        bool       `json:"is_promo"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (i *GroceryItem) IsBought() bool {
	return i.Status == StatusBought
}

// LineTotal is actualPrice × quantity, with a missing price counted as zero.
func (i *GroceryItem) LineTotal() float64 {
	if i.ActualPrice == nil {
		return 0
	}
	return *i.ActualPrice * float64(i.Quantity)
}
