package service

import (
	"fmt"
	"time"

	"github.com/julianstephens/basket/internal/events"
	"github.com/julianstephens/basket/internal/logger"
	"github.com/julianstephens/basket/internal/models"
	"github.com/julianstephens/basket/internal/shopping"
	"github.com/julianstephens/basket/internal/stats"
	"github.com/julianstephens/basket/internal/storage"
)

func (s *Service) newController() *shopping.Controller {
	return shopping.NewController(
		shopping.WithNow(s.now),
		shopping.WithIDGenerator(s.newID),
	)
}

func (s *Service) activeSession(listID string) (*models.ShoppingSession, error) {
	active, err := s.store.QuerySessions(storage.SessionQuery{ListID: listID, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}
	return active[0], nil
}

// StartSession opens a new session on the list. At most one session per
// list may be active.
func (s *Service) StartSession(listID string) (*shopping.Controller, error) {
	list, err := s.store.GetList(listID)
	if err != nil {
		return nil, notFound(err, ErrListNotFound)
	}
	existing, err := s.activeSession(listID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSessionInProgress
	}

	ctrl := s.newController()
	if err := ctrl.Start(list); err != nil {
		return nil, err
	}
	if err := s.store.AddSession(ctrl.Session()); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	logger.Info("Session started", "list", list.ID, "session", ctrl.Session().ID)

	ev := events.New(events.SessionStarted, list.ID)
	ev.SessionID = ctrl.Session().ID
	return ctrl, s.publish(ev)
}

// ResumeSession re-attaches a controller to the list's active session and
// reloads the items already picked in it.
func (s *Service) ResumeSession(listID string) (*shopping.Controller, error) {
	list, err := s.store.GetList(listID)
	if err != nil {
		return nil, notFound(err, ErrListNotFound)
	}
	session, err := s.activeSession(listID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveSession
	}
	session.Items, err = s.store.QueryItems(storage.ItemQuery{SessionID: session.ID})
	if err != nil {
		return nil, err
	}

	ctrl := s.newController()
	if err := ctrl.Attach(list, session); err != nil {
		return nil, err
	}
	logger.Info("Session resumed", "list", list.ID, "session", session.ID, "elapsed", ctrl.Elapsed())
	return ctrl, nil
}

// OpenSession resumes the list's active session or starts a new one.
func (s *Service) OpenSession(listID string) (*shopping.Controller, bool, error) {
	existing, err := s.activeSession(listID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		ctrl, err := s.ResumeSession(listID)
		return ctrl, true, err
	}
	ctrl, err := s.StartSession(listID)
	return ctrl, false, err
}

// PickInput is the text a shopper typed for one item.
type PickInput struct {
	PriceText string
	Quantity  int
	Promo     bool
}

// Pick runs the picking protocol for one item and persists the result. On a
// validation error nothing is stored and the controller's staging is kept.
func (s *Service) Pick(ctrl *shopping.Controller, itemID string, in PickInput) (*models.GroceryItem, error) {
	session := ctrl.Session()
	if session == nil || ctrl.State() != shopping.Active {
		return nil, shopping.ErrSessionNotActive
	}

	// Re-picks must update the instance the session already holds.
	var item *models.GroceryItem
	for _, it := range session.Items {
		if it.ID == itemID {
			item = it
			break
		}
	}
	if item == nil {
		loaded, err := s.store.GetItem(itemID)
		if err != nil {
			return nil, notFound(err, ErrItemNotFound)
		}
		item = loaded
	}

	if err := ctrl.Select(item); err != nil {
		return nil, err
	}
	p := ctrl.Picker()
	p.SetPrice(in.PriceText)
	p.SetQuantity(in.Quantity)
	p.SetPromo(in.Promo)
	return s.Confirm(ctrl)
}

// Confirm commits whatever the controller's picker has staged and persists
// the item. Interactive callers stage through ctrl.Picker() themselves.
func (s *Service) Confirm(ctrl *shopping.Controller) (*models.GroceryItem, error) {
	item, err := ctrl.Confirm()
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateItem(item); err != nil {
		return nil, fmt.Errorf("failed to save picked item: %w", err)
	}
	logger.Debug("Item picked", "session", ctrl.Session().ID, "item", item.ID, "price", *item.ActualPrice, "quantity", item.Quantity)

	ev := events.New(events.ItemPicked, item.ListID)
	ev.SessionID = ctrl.Session().ID
	ev.ItemID = item.ID
	return item, s.publish(ev)
}

// EndSession ends the controller's session and persists the end time, the
// frozen total and the picked items in one transaction. Observers of
// events.SessionEnded then complete the list.
func (s *Service) EndSession(ctrl *shopping.Controller) (*models.ShoppingSession, error) {
	ended, err := ctrl.Ending()
	if err != nil {
		return nil, err
	}

	err = s.store.WithTx(func(tx storage.Provider) error {
		if err := tx.UpdateSession(ended); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		for _, it := range ended.Items {
			if err := tx.UpdateItem(it); err != nil {
				return fmt.Errorf("failed to save item %s: %w", it.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := ctrl.Finish(ended); err != nil {
		return nil, err
	}
	session := ctrl.Session()
	logger.Info("Session ended", "session", session.ID, "total", session.TotalCost, "items", len(session.Items))

	ev := events.New(events.SessionEnded, session.ListID)
	ev.SessionID = session.ID
	return session, s.publish(ev)
}

// Summary is the recap of one session.
type Summary struct {
	Session  *models.ShoppingSession
	List     *models.ShoppingList
	Items    []*models.GroceryItem
	Total    float64
	Duration time.Duration
	Split    []stats.AuthorShare
}

// SessionSummary loads a session with its items. An active session reports
// its running total and its duration so far.
func (s *Service) SessionSummary(sessionID string) (*Summary, error) {
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, notFound(err, ErrSessionNotFound)
	}
	items, err := s.store.QueryItems(storage.ItemQuery{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	session.Items = items

	sum := &Summary{
		Session:  session,
		Items:    items,
		Total:    session.TotalCost,
		Duration: session.Duration(s.now()),
		Split:    stats.SplitByAuthor(items),
	}
	if session.IsActive() {
		sum.Total = shopping.Total(items)
	}
	if l, err := s.store.GetList(session.ListID); err == nil {
		sum.List = l
	}
	return sum, nil
}

// HistoryEntry is one line of the household's trip history.
type HistoryEntry struct {
	Session  *models.ShoppingSession
	ListName string
}

// History returns the household's sessions, newest first.
func (s *Service) History(id *Identity) ([]HistoryEntry, error) {
	if err := id.requireHousehold(); err != nil {
		return nil, err
	}
	sessions, err := s.store.QuerySessions(storage.SessionQuery{HouseholdID: id.Household.ID})
	if err != nil {
		return nil, err
	}
	lists, err := s.store.GetLists(id.Household.ID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(lists))
	for _, l := range lists {
		names[l.ID] = l.Name
	}

	out := make([]HistoryEntry, 0, len(sessions))
	for _, ss := range sessions {
		out = append(out, HistoryEntry{Session: ss, ListName: names[ss.ListID]})
	}
	return out, nil
}

// DeleteSession removes a session; its items stay on the list.
func (s *Service) DeleteSession(sessionID string) error {
	return notFound(s.store.DeleteSession(sessionID), ErrSessionNotFound)
}

// Stats runs the aggregation engine over the household's sessions and
// bought items. Months are bucketed in the configured timezone.
func (s *Service) Stats(id *Identity) (stats.Stats, error) {
	if err := id.requireHousehold(); err != nil {
		return stats.Stats{}, err
	}
	settings, err := s.store.GetSettings()
	if err != nil {
		return stats.Stats{}, err
	}
	loc, err := settings.Location()
	if err != nil {
		return stats.Stats{}, err
	}

	sessions, err := s.store.QuerySessions(storage.SessionQuery{HouseholdID: id.Household.ID, OldestFirst: true})
	if err != nil {
		return stats.Stats{}, err
	}
	items, err := s.store.QueryItems(storage.ItemQuery{HouseholdID: id.Household.ID, Status: models.StatusBought})
	if err != nil {
		return stats.Stats{}, err
	}

	engine := stats.NewEngine(loc)
	engine.Now = s.now
	return engine.Compute(sessions, items), nil
}
