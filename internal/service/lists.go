package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/basket/internal/constants"
	"github.com/julianstephens/basket/internal/events"
	"github.com/julianstephens/basket/internal/logger"
	"github.com/julianstephens/basket/internal/models"
	"github.com/julianstephens/basket/internal/shopping"
	"github.com/julianstephens/basket/internal/storage"
	"github.com/julianstephens/basket/internal/validation"
)

// CreateList adds a list to the identity's household. An empty color uses
// the default_list_color setting.
func (s *Service) CreateList(id *Identity, name, color string) (*models.ShoppingList, error) {
	if err := id.requireHousehold(); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validation.ValidateName("list name", name); err != nil {
		return nil, err
	}
	if color == "" {
		settings, err := s.store.GetSettings()
		if err != nil {
			return nil, err
		}
		color = settings.DefaultListColor
	}
	color, err := validation.ValidateColor(color)
	if err != nil {
		return nil, err
	}

	l := &models.ShoppingList{
		ID:          s.newID(),
		HouseholdID: id.Household.ID,
		Name:        name,
		ColorName:   color,
		CreatedAt:   s.now(),
	}
	if err := s.store.AddList(l); err != nil {
		return nil, fmt.Errorf("failed to add list: %w", err)
	}
	logger.Info("List created", "list", l.ID, "name", l.Name)
	return l, nil
}

// Lists returns the household's lists, newest first.
func (s *Service) Lists(id *Identity) ([]*models.ShoppingList, error) {
	if err := id.requireHousehold(); err != nil {
		return nil, err
	}
	return s.store.GetLists(id.Household.ID)
}

// SelectDefaultList returns the newest list, creating the default list when
// the household has none.
func (s *Service) SelectDefaultList(id *Identity) (*models.ShoppingList, error) {
	lists, err := s.Lists(id)
	if err != nil {
		return nil, err
	}
	if len(lists) > 0 {
		return lists[0], nil
	}
	return s.CreateList(id, constants.DefaultListName, "")
}

// FindList resolves ref as a list ID or, failing that, a case-insensitive
// list name within the household. An empty ref selects the default list.
func (s *Service) FindList(id *Identity, ref string) (*models.ShoppingList, error) {
	if err := id.requireHousehold(); err != nil {
		return nil, err
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return s.SelectDefaultList(id)
	}

	l, err := s.store.GetList(ref)
	if err == nil {
		if l.HouseholdID != id.Household.ID {
			return nil, ErrNotMember
		}
		return l, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	lists, err := s.store.GetLists(id.Household.ID)
	if err != nil {
		return nil, err
	}
	for _, l := range lists {
		if strings.EqualFold(l.Name, ref) {
			return l, nil
		}
	}
	return nil, ErrListNotFound
}

// ListItems returns a list's items, oldest first.
func (s *Service) ListItems(listID string) ([]*models.GroceryItem, error) {
	return s.store.QueryItems(storage.ItemQuery{ListID: listID})
}

// DeleteList removes a list with its items and sessions.
func (s *Service) DeleteList(listID string) error {
	if err := s.store.DeleteList(listID); err != nil {
		return notFound(err, ErrListNotFound)
	}
	logger.Info("List deleted", "list", listID)
	return s.publish(events.New(events.ListDeleted, listID))
}

// ItemInput describes a new item. A zero Quantity means 1; an empty Author
// means the identity's user.
type ItemInput struct {
	Name           string
	Quantity       int
	Category       models.Category
	Author         string
	EstimatedPrice *float64
}

// AddItem appends a pending item to a list that is not completed.
func (s *Service) AddItem(id *Identity, listID string, in ItemInput) (*models.GroceryItem, error) {
	if id == nil || id.User == nil {
		return nil, ErrNoActiveUser
	}
	list, err := s.store.GetList(listID)
	if err != nil {
		return nil, notFound(err, ErrListNotFound)
	}
	if list.IsCompleted {
		return nil, shopping.ErrListCompleted
	}

	name := strings.TrimSpace(in.Name)
	if err := validation.ValidateName("item name", name); err != nil {
		return nil, err
	}
	qty := in.Quantity
	if qty == 0 {
		qty = constants.MinQuantity
	}
	if err := shopping.ValidateQuantity(qty); err != nil {
		return nil, err
	}
	cat := in.Category
	if cat == "" {
		cat = models.CategoryOther
	}
	if !cat.Valid() {
		return nil, fmt.Errorf("unknown category %q", cat)
	}
	if in.EstimatedPrice != nil && *in.EstimatedPrice < 0 {
		return nil, &shopping.ValidationError{Field: "estimated price", Err: shopping.ErrInvalidPrice}
	}
	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = id.User.Name
	}

	item := &models.GroceryItem{
		ID:             s.newID(),
		ListID:         list.ID,
		Name:           name,
		Quantity:       qty,
		Category:       cat,
		AuthorName:     author,
		Status:         models.StatusPending,
		EstimatedPrice: in.EstimatedPrice,
		CreatedAt:      s.now(),
	}
	if err := s.store.AddItem(item); err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	logger.Debug("Item added", "list", list.ID, "item", item.ID, "name", item.Name)

	ev := events.New(events.ItemAdded, list.ID)
	ev.ItemID = item.ID
	return item, s.publish(ev)
}

// FindItem resolves ref as an item ID or a case-insensitive item name on
// the list.
func (s *Service) FindItem(listID, ref string) (*models.GroceryItem, error) {
	it, err := s.store.GetItem(ref)
	if err == nil {
		if it.ListID != listID {
			return nil, ErrItemNotFound
		}
		return it, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	items, err := s.ListItems(listID)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if strings.EqualFold(it.Name, strings.TrimSpace(ref)) {
			return it, nil
		}
	}
	return nil, ErrItemNotFound
}

func (s *Service) DeleteItem(itemID string) error {
	it, err := s.store.GetItem(itemID)
	if err != nil {
		return notFound(err, ErrItemNotFound)
	}
	if err := s.store.DeleteItem(itemID); err != nil {
		return notFound(err, ErrItemNotFound)
	}
	ev := events.New(events.ItemDeleted, it.ListID)
	ev.ItemID = it.ID
	return s.publish(ev)
}

// ToggleItem flips a planning item between pending and in-cart. Bought items
// only change through picking and are returned unchanged.
func (s *Service) ToggleItem(itemID string) (*models.GroceryItem, error) {
	it, err := s.store.GetItem(itemID)
	if err != nil {
		return nil, notFound(err, ErrItemNotFound)
	}
	switch it.Status {
	case models.StatusPending:
		it.Status = models.StatusInCart
	case models.StatusInCart:
		it.Status = models.StatusPending
	default:
		return it, nil
	}
	if err := s.store.UpdateItem(it); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return it, nil
}

// ListWithItems loads a list and its items for export or sharing.
func (s *Service) ListWithItems(listID string) (*models.ShoppingList, []*models.GroceryItem, error) {
	l, err := s.store.GetList(listID)
	if err != nil {
		return nil, nil, notFound(err, ErrListNotFound)
	}
	items, err := s.ListItems(listID)
	if err != nil {
		return nil, nil, err
	}
	return l, items, nil
}

// completeList handles events.SessionEnded.
func (s *Service) completeList(ev events.Event) error {
	l, err := s.store.GetList(ev.ListID)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Warn("Ended session refers to a missing list", "list", ev.ListID, "session", ev.SessionID)
		return nil
	}
	if err != nil {
		return err
	}
	if l.IsCompleted {
		return nil
	}
	l.IsCompleted = true
	if err := s.store.UpdateList(l); err != nil {
		return fmt.Errorf("failed to complete list: %w", err)
	}
	logger.Info("List completed", "list", l.ID)
	return s.bus.Publish(events.New(events.ListCompleted, l.ID))
}
