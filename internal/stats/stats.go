// Package stats reduces historical sessions and items into spending
// aggregates. Every function is read-only over its inputs and accepts empty
// collections.
package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/basket/internal/models"
)

// MonthlySpend is the summed session cost of one calendar month.
type MonthlySpend struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Total float64    `json:"total"`
}

// Stats is the result of Engine.Compute. Superlatives are nil when there is
// nothing to compare.
type Stats struct {
	MostExpensiveItem *models.GroceryItem     `json:"most_expensive_item,omitempty"`
	LongestSession    *models.ShoppingSession `json:"longest_session,omitempty"`
	CurrentMonthSpend float64                 `json:"current_month_spend"`
	MonthlyHistory    []MonthlySpend          `json:"monthly_history"`
}

// AuthorShare is one author's part of a session total.
type AuthorShare struct {
	Author string  `json:"author"`
	Total  float64 `json:"total"`
	Items  int     `json:"items"`
}

// Engine fixes the reference time zone for month boundaries and the time
// source for "now".
type Engine struct {
	Location *time.Location
	Now      func() time.Time
}

func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{Location: loc, Now: time.Now}
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Engine) location() *time.Location {
	if e.Location == nil {
		return time.Local
	}
	return e.Location
}

// Compute runs every aggregate over sessions and items.
func (e *Engine) Compute(sessions []*models.ShoppingSession, items []*models.GroceryItem) Stats {
	now := e.now()
	history := MonthlyHistory(sessions, e.location())
	return Stats{
		MostExpensiveItem: MostExpensive(items),
		LongestSession:    Longest(sessions, now),
		CurrentMonthSpend: CurrentMonth(history, now, e.location()),
		MonthlyHistory:    history,
	}
}

// MostExpensive returns the bought item with the highest actual price. A
// missing price counts as zero and ties keep the earliest item.
func MostExpensive(items []*models.GroceryItem) *models.GroceryItem {
	var best *models.GroceryItem
	var bestPrice float64
	for _, it := range items {
		if !it.IsBought() {
			continue
		}
		p := unitPrice(it)
		if best == nil || p > bestPrice {
			best, bestPrice = it, p
		}
	}
	return best
}

// Longest returns the session with the greatest duration. Active sessions are
// measured up to now; ties keep the earliest session.
func Longest(sessions []*models.ShoppingSession, now time.Time) *models.ShoppingSession {
	var best *models.ShoppingSession
	var bestDur time.Duration
	for _, s := range sessions {
		d := s.Duration(now)
		if best == nil || d > bestDur {
			best, bestDur = s, d
		}
	}
	return best
}

type monthKey struct {
	year  int
	month time.Month
}

// MonthlyHistory buckets sessions by the calendar month of their start time
// in loc and sums their totals, most recent month first.
func MonthlyHistory(sessions []*models.ShoppingSession, loc *time.Location) []MonthlySpend {
	if loc == nil {
		loc = time.Local
	}
	sums := make(map[monthKey]float64)
	for _, s := range sessions {
		start := s.StartTime.In(loc)
		sums[monthKey{start.Year(), start.Month()}] += s.TotalCost
	}

	history := make([]MonthlySpend, 0, len(sums))
	for k, total := range sums {
		history = append(history, MonthlySpend{Year: k.year, Month: k.month, Total: total})
	}
	sort.Slice(history, func(i, j int) bool {
		if history[i].Year != history[j].Year {
			return history[i].Year > history[j].Year
		}
		return history[i].Month > history[j].Month
	})
	return history
}

// CurrentMonth picks now's bucket out of history, or 0.
func CurrentMonth(history []MonthlySpend, now time.Time, loc *time.Location) float64 {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	for _, m := range history {
		if m.Year == now.Year() && m.Month == now.Month() {
			return m.Total
		}
	}
	return 0
}

// SplitByAuthor groups one session's items by exact author name and sums
// their line totals. Names are compared as-is, so "Ana" and "ana" are two
// shares. The result is sorted by author.
func SplitByAuthor(items []*models.GroceryItem) []AuthorShare {
	idx := make(map[string]int)
	var shares []AuthorShare
	for _, it := range items {
		i, ok := idx[it.AuthorName]
		if !ok {
			i = len(shares)
			idx[it.AuthorName] = i
			shares = append(shares, AuthorShare{Author: it.AuthorName})
		}
		shares[i].Total += it.LineTotal()
		shares[i].Items++
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Author < shares[j].Author
	})
	return shares
}

func unitPrice(it *models.GroceryItem) float64 {
	if it.ActualPrice == nil {
		return 0
	}
	return *it.ActualPrice
}
