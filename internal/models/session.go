package models

import "time"

// ShoppingSession is one trip to the store against a single list. EndTime is
// nil while the session is active; TotalCost is only authoritative once it
// has ended.
type ShoppingSession struct {
	ID        string     `json:"id"`
	ListID    string     `json:"list_id,omitempty"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	TotalCost float64    `json:"total_cost"`

	// Items picked during this trip. Loaded by the service layer; stores
	// persist the relationship through GroceryItem.SessionID.
	Items []*GroceryItem `json:"-"`
}

func (s *ShoppingSession) IsActive() bool {
	return s.EndTime == nil
}

// Duration is end − start for a finished session, now − start otherwise.
func (s *ShoppingSession) Duration(now time.Time) time.Duration {
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return now.Sub(s.StartTime)
}

// HasItem reports whether the item is already linked to this session.
func (s *ShoppingSession) HasItem(id string) bool {
	for _, it := range s.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}
