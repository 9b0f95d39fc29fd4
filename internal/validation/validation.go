package validation

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/julianstephens/basket/internal/constants"
	"github.com/julianstephens/basket/internal/models"
)

const (
	MaxNameLength = 80
	// Totals are compared with a small tolerance to absorb float rounding.
	totalTolerance = 0.005
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictBoughtWithoutPrice   ConflictType = "bought_without_price"
	ConflictQuantityOutOfRange   ConflictType = "quantity_out_of_range"
	ConflictUnknownCategory      ConflictType = "unknown_category"
	ConflictUnknownStatus        ConflictType = "unknown_status"
	ConflictForeignSessionItem   ConflictType = "foreign_session_item"
	ConflictMultipleActive       ConflictType = "multiple_active_sessions"
	ConflictActiveOnCompleted    ConflictType = "active_session_on_completed_list"
	ConflictEndBeforeStart       ConflictType = "end_before_start"
	ConflictTotalMismatch        ConflictType = "total_mismatch"
	ConflictDuplicateItemName    ConflictType = "duplicate_item_name"
	ConflictNegativePrice        ConflictType = "negative_price"
	ConflictMissingList          ConflictType = "missing_list"
	ConflictDuplicateSessionItem ConflictType = "duplicate_session_item"
)

// Conflict is one inconsistency found in stored data.
type Conflict struct {
	Type        ConflictType
	Description string
	ListID      string
	SessionID   string
	ItemIDs     []string
}

// Result contains all detected conflicts
type Result struct {
	Conflicts []Conflict
}

func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

func (r *Result) add(c Conflict) {
	r.Conflicts = append(r.Conflicts, c)
}

// FormatReport returns a human-readable report of all conflicts
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}
	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks lists, items and sessions for states the shopping flow
// never produces on its own.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateItems checks per-item invariants and duplicate names within a list.
func (v *Validator) ValidateItems(items []*models.GroceryItem) Result {
	var r Result
	byList := make(map[string]map[string][]string)

	for _, it := range items {
		if !it.Status.Valid() {
			r.add(Conflict{
				Type:        ConflictUnknownStatus,
				Description: fmt.Sprintf("Item '%s' has unknown status %q", it.Name, it.Status),
				ListID:      it.ListID,
				ItemIDs:     []string{it.ID},
			})
		}
		if it.IsBought() && it.ActualPrice == nil {
			r.add(Conflict{
				Type:        ConflictBoughtWithoutPrice,
				Description: fmt.Sprintf("Item '%s' is bought but has no price", it.Name),
				ListID:      it.ListID,
				ItemIDs:     []string{it.ID},
			})
		}
		if negative(it.ActualPrice) || negative(it.EstimatedPrice) {
			r.add(Conflict{
				Type:        ConflictNegativePrice,
				Description: fmt.Sprintf("Item '%s' has a negative or non-finite price", it.Name),
				ListID:      it.ListID,
				ItemIDs:     []string{it.ID},
			})
		}
		if it.Quantity < constants.MinQuantity || it.Quantity > constants.MaxQuantity {
			r.add(Conflict{
				Type:        ConflictQuantityOutOfRange,
				Description: fmt.Sprintf("Item '%s' has quantity %d (allowed %d-%d)", it.Name, it.Quantity, constants.MinQuantity, constants.MaxQuantity),
				ListID:      it.ListID,
				ItemIDs:     []string{it.ID},
			})
		}
		if !it.Category.Valid() {
			r.add(Conflict{
				Type:        ConflictUnknownCategory,
				Description: fmt.Sprintf("Item '%s' has unknown category %q", it.Name, it.Category),
				ListID:      it.ListID,
				ItemIDs:     []string{it.ID},
			})
		}

		if byList[it.ListID] == nil {
			byList[it.ListID] = make(map[string][]string)
		}
		key := strings.ToLower(strings.TrimSpace(it.Name))
		byList[it.ListID][key] = append(byList[it.ListID][key], it.ID)
	}

	listIDs := make([]string, 0, len(byList))
	for id := range byList {
		listIDs = append(listIDs, id)
	}
	sort.Strings(listIDs)
	for _, listID := range listIDs {
		names := make([]string, 0, len(byList[listID]))
		for n := range byList[listID] {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			ids := byList[listID][n]
			if len(ids) > 1 {
				r.add(Conflict{
					Type:        ConflictDuplicateItemName,
					Description: fmt.Sprintf("Item '%s' appears %d times on the same list", n, len(ids)),
					ListID:      listID,
					ItemIDs:     ids,
				})
			}
		}
	}
	return r
}

// ValidateSessions checks sessions against their lists and picked items.
func (v *Validator) ValidateSessions(lists []*models.ShoppingList, sessions []*models.ShoppingSession, items []*models.GroceryItem) Result {
	var r Result

	listByID := make(map[string]*models.ShoppingList, len(lists))
	for _, l := range lists {
		listByID[l.ID] = l
	}
	picked := make(map[string][]*models.GroceryItem)
	for _, it := range items {
		if it.SessionID != "" {
			picked[it.SessionID] = append(picked[it.SessionID], it)
		}
	}

	active := make(map[string][]string)
	for _, s := range sessions {
		list, ok := listByID[s.ListID]
		if !ok {
			r.add(Conflict{
				Type:        ConflictMissingList,
				Description: fmt.Sprintf("Session %s refers to missing list %s", s.ID, s.ListID),
				ListID:      s.ListID,
				SessionID:   s.ID,
			})
		}

		if s.IsActive() {
			active[s.ListID] = append(active[s.ListID], s.ID)
			if ok && list.IsCompleted {
				r.add(Conflict{
					Type:        ConflictActiveOnCompleted,
					Description: fmt.Sprintf("Session %s is still active on completed list '%s'", s.ID, list.Name),
					ListID:      s.ListID,
					SessionID:   s.ID,
				})
			}
		} else if s.EndTime.Before(s.StartTime) {
			r.add(Conflict{
				Type:        ConflictEndBeforeStart,
				Description: fmt.Sprintf("Session %s ends before it starts", s.ID),
				ListID:      s.ListID,
				SessionID:   s.ID,
			})
		}

		var sum float64
		var seen []string
		for _, it := range picked[s.ID] {
			if it.ListID != s.ListID {
				r.add(Conflict{
					Type:        ConflictForeignSessionItem,
					Description: fmt.Sprintf("Item '%s' was picked in session %s of another list", it.Name, s.ID),
					ListID:      it.ListID,
					SessionID:   s.ID,
					ItemIDs:     []string{it.ID},
				})
			}
			if slices.Contains(seen, it.ID) {
				r.add(Conflict{
					Type:        ConflictDuplicateSessionItem,
					Description: fmt.Sprintf("Item '%s' is linked to session %s more than once", it.Name, s.ID),
					SessionID:   s.ID,
					ItemIDs:     []string{it.ID},
				})
				continue
			}
			seen = append(seen, it.ID)
			if it.IsBought() {
				sum += it.LineTotal()
			}
		}
		if !s.IsActive() && math.Abs(sum-s.TotalCost) > totalTolerance {
			r.add(Conflict{
				Type:        ConflictTotalMismatch,
				Description: fmt.Sprintf("Session %s total %.2f does not match its items (%.2f)", s.ID, s.TotalCost, sum),
				ListID:      s.ListID,
				SessionID:   s.ID,
			})
		}
	}

	listIDs := make([]string, 0, len(active))
	for id := range active {
		listIDs = append(listIDs, id)
	}
	sort.Strings(listIDs)
	for _, id := range listIDs {
		if len(active[id]) > 1 {
			r.add(Conflict{
				Type:        ConflictMultipleActive,
				Description: fmt.Sprintf("List %s has %d active sessions", id, len(active[id])),
				ListID:      id,
			})
		}
	}
	return r
}

// ValidateAll merges item and session results.
func (v *Validator) ValidateAll(lists []*models.ShoppingList, sessions []*models.ShoppingSession, items []*models.GroceryItem) Result {
	r := v.ValidateItems(items)
	s := v.ValidateSessions(lists, sessions, items)
	r.Conflicts = append(r.Conflicts, s.Conflicts...)
	return r
}

func negative(p *float64) bool {
	if p == nil {
		return false
	}
	return *p < 0 || math.IsNaN(*p) || math.IsInf(*p, 0)
}

// ValidateName rejects blank names and names over MaxNameLength characters.
func ValidateName(field, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("%s must be at most %d characters", field, MaxNameLength)
	}
	return nil
}

// ValidateColor accepts one of constants.ListColors, case-insensitively, and
// returns its canonical spelling.
func ValidateColor(color string) (string, error) {
	for _, c := range constants.ListColors {
		if strings.EqualFold(c, strings.TrimSpace(color)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown color %q (choose from %s)", color, strings.Join(constants.ListColors, ", "))
}

// ValidateJoinCode normalizes a household join code to upper case.
func ValidateJoinCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if utf8.RuneCountInString(code) != constants.JoinCodeLength {
		return "", fmt.Errorf("join code must be %d characters", constants.JoinCodeLength)
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", fmt.Errorf("join code may only contain letters and digits")
		}
	}
	return code, nil
}
