package memstore

import (
	"fmt"
	"strings"

	"github.com/julianstephens/basket/internal/models"
	"github.com/julianstephens/basket/internal/storage"
)

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func cloneHousehold(h *models.Household) *models.Household {
	c := *h
	return &c
}

func cloneList(l *models.ShoppingList) *models.ShoppingList {
	c := *l
	return &c
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneItem(it *models.GroceryItem) *models.GroceryItem {
	c := *it
	c.EstimatedPrice = cloneFloat(it.EstimatedPrice)
	c.ActualPrice = cloneFloat(it.ActualPrice)
	return &c
}

func cloneSession(ss *models.ShoppingSession) *models.ShoppingSession {
	c := *ss
	if ss.EndTime != nil {
		end := *ss.EndTime
		c.EndTime = &end
	}
	c.Items = nil
	return &c
}

func duplicate(kind, id string) error {
	return fmt.Errorf("%s %s already exists", kind, id)
}

// Users

func (s *Store) AddUser(u *models.User) error {
	return s.write(func(d *snapshot) error {
		if _, ok := d.Users[u.ID]; ok {
			return duplicate("user", u.ID)
		}
		d.Users[u.ID] = cloneUser(u)
		return nil
	})
}

func (s *Store) GetUser(id string) (*models.User, error) {
	var out *models.User
	err := s.read(func(d *snapshot) error {
		u, ok := d.Users[id]
		if !ok {
			return storage.ErrNotFound
		}
		out = cloneUser(u)
		return nil
	})
	return out, err
}

func (s *Store) GetUserByName(name string) (*models.User, error) {
	users, err := s.GetUsers()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) GetUsers() ([]*models.User, error) {
	var out []*models.User
	err := s.read(func(d *snapshot) error {
		for _, u := range d.Users {
			out = append(out, cloneUser(u))
		}
		return nil
	})
	sortByCreated(out, func(u *models.User) (int64, string) { return u.CreatedAt.UnixNano(), u.ID }, false)
	return out, err
}

func (s *Store) UpdateUser(u *models.User) error {
	return s.write(func(d *snapshot) error {
		if _, ok := d.Users[u.ID]; !ok {
			return storage.ErrNotFound
		}
		d.Users[u.ID] = cloneUser(u)
		return nil
	})
}

// Households

func (s *Store) AddHousehold(h *models.Household) error {
	return s.write(func(d *snapshot) error {
		if _, ok := d.Households[h.ID]; ok {
			return duplicate("household", h.ID)
		}
		code := strings.ToUpper(h.JoinCode)
		for _, other := range d.Households {
			if other.JoinCode == code {
				return fmt.Errorf("join code %s already in use", code)
			}
		}
		c := cloneHousehold(h)
		c.JoinCode = code
		d.Households[h.ID] = c
		return nil
	})
}

func (s *Store) GetHousehold(id string) (*models.Household, error) {
	var out *models.Household
	err := s.read(func(d *snapshot) error {
		h, ok := d.Households[id]
		if !ok {
			return storage.ErrNotFound
		}
		out = cloneHousehold(h)
		return nil
	})
	return out, err
}

func (s *Store) GetHouseholdByJoinCode(code string) (*models.Household, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	var out *models.Household
	err := s.read(func(d *snapshot) error {
		for _, h := range d.Households {
			if h.JoinCode == code {
				out = cloneHousehold(h)
				return nil
			}
		}
		return storage.ErrNotFound
	})
	return out, err
}

func (s *Store) DeleteHousehold(id string) error {
	return s.write(func(d *snapshot) error {
		if _, ok := d.Households[id]; !ok {
			return storage.ErrNotFound
		}
		for listID, l := range d.Lists {
			if l.HouseholdID == id {
				deleteListCascade(d, listID)
			}
		}
		for _, u := range d.Users {
			if u.HouseholdID == id {
				u.HouseholdID = ""
			}
		}
		delete(d.Households, id)
		return nil
	})
}

// Lists

func (s *Store) AddList(l *models.ShoppingList) error {
	return s.write(func(d *snapshot) error {
		if _, ok := d.Lists[l.ID]; ok {
			return duplicate("list", l.ID)
		}
		d.Lists[l.ID] = cloneList(l)
		return nil
	})
}

func (s *Store) GetList(id string) (*models.ShoppingList, error) {
	var out *models.ShoppingList
	err := s.read(func(d *snapshot) error {
		l, ok := d.Lists[id]
		if !ok {
			return storage.ErrNotFound
		}
		out = cloneList(l)
		return nil
	})
	return out, err
}

func (s *Store) GetLists(householdID string) ([]*models.ShoppingList, error) {
	var out []*models.ShoppingList
	err := s.read(func(d *snapshot) error {
		for _, l := range d.Lists {
			if householdID == "" || l.HouseholdID == householdID {
				out = append(out, cloneList(l))
			}
		}
		return nil
	})
	sortByCreated(out, func(l *models.ShoppingList) (int64, string) { return l.CreatedAt.UnixNano(), l.ID }, true)
	return out, err
}

func (s *Store) UpdateList(l *models.ShoppingList) error {
	return s.write(func(d *snapshot) error {
		if _, ok := d.Lists[l.ID]; !ok {
			return storage.ErrNotFound
		}
		d.Lists[l.ID] = cloneList(l)
		return nil
	})
}

func (s *Store) DeleteList(id string) error {
	return s.write(func(d *snapshot) error {
		if _, ok := d.Lists[id]; !ok {
			return storage.ErrNotFound
		}
		deleteListCascade(d, id)
		return nil
	})
}

func deleteListCascade(d *snapshot, listID string) {
	for id, it := range d.Items {
		if it.ListID == listID {
			delete(d.Items, id)
		}
	}
	for id, ss := range d.Sessions {
		if ss.ListID == listID {
			delete(d.Sessions, id)
		}
	}
	delete(d.Lists, listID)
}

// Items

func (s *Store) AddItem(it *models.GroceryItem) error {
	return s.write(func(d *snapshot) error {
		if _, ok := d.Items[it.ID]; ok {
			return duplicate("item", it.ID)
		}
		d.Items[it.ID] = cloneItem(it)
		return nil
	})
}

func (s *Store) GetItem(id string) (*models.GroceryItem, error) {
	var out *models.GroceryItem
	err := s.read(func(d *snapshot) error {
		it, ok := d.Items[id]
		if !ok {
			return storage.ErrNotFound
		}
		out = cloneItem(it)
		return nil
	})
	return out, err
}

func (s *Store) QueryItems(q storage.ItemQuery) ([]*models.GroceryItem, error) {
	var out []*models.GroceryItem
	err := s.read(func(d *snapshot) error {
		for _, it := range d.Items {
			if q.ListID != "" && it.ListID != q.ListID {
				continue
			}
			if q.SessionID != "" && it.SessionID != q.SessionID {
				continue
			}
			if q.Status != "" && it.Status != q.Status {
				continue
			}
			if q.HouseholdID != "" {
				l, ok := d.Lists[it.ListID]
				if !ok || l.HouseholdID != q.HouseholdID {
					continue
				}
			}
			out = append(out, cloneItem(it))
		}
		return nil
	})
	sortByCreated(out, func(it *models.GroceryItem) (int64, string) { return it.CreatedAt.UnixNano(), it.ID }, false)
	return out, err
}

func (s *Store) UpdateItem(it *models.GroceryItem) error {
	return s.write(func(d *snapshot) error {
		if _, ok := d.Items[it.ID]; !ok {
			return storage.ErrNotFound
		}
		d.Items[it.ID] = cloneItem(it)
		return nil
	})
}

func (s *Store) DeleteItem(id string) error {
	return s.write(func(d *snapshot) error {
		if _, ok := d.Items[id]; !ok {
			return storage.ErrNotFound
		}
		delete(d.Items, id)
		return nil
	})
}

// Sessions

func (s *Store) AddSession(ss *models.ShoppingSession) error {
	return s.write(func(d *snapshot) error {
		if _, ok := d.Sessions[ss.ID]; ok {
			return duplicate("session", ss.ID)
		}
		d.Sessions[ss.ID] = cloneSession(ss)
		return nil
	})
}

func (s *Store) GetSession(id string) (*models.ShoppingSession, error) {
	var out *models.ShoppingSession
	err := s.read(func(d *snapshot) error {
		ss, ok := d.Sessions[id]
		if !ok {
			return storage.ErrNotFound
		}
		out = cloneSession(ss)
		return nil
	})
	return out, err
}

func (s *Store) QuerySessions(q storage.SessionQuery) ([]*models.ShoppingSession, error) {
	var out []*models.ShoppingSession
	err := s.read(func(d *snapshot) error {
		for _, ss := range d.Sessions {
			if q.ListID != "" && ss.ListID != q.ListID {
				continue
			}
			if q.ActiveOnly && !ss.IsActive() {
				continue
			}
			if q.HouseholdID != "" {
				l, ok := d.Lists[ss.ListID]
				if !ok || l.HouseholdID != q.HouseholdID {
					continue
				}
			}
			out = append(out, cloneSession(ss))
		}
		return nil
	})
	sortByCreated(out, func(ss *models.ShoppingSession) (int64, string) { return ss.StartTime.UnixNano(), ss.ID }, !q.OldestFirst)
	return out, err
}

func (s *Store) UpdateSession(ss *models.ShoppingSession) error {
	return s.write(func(d *snapshot) error {
		if _, ok := d.Sessions[ss.ID]; !ok {
			return storage.ErrNotFound
		}
		d.Sessions[ss.ID] = cloneSession(ss)
		return nil
	})
}

func (s *Store) DeleteSession(id string) error {
	return s.write(func(d *snapshot) error {
		if _, ok := d.Sessions[id]; !ok {
			return storage.ErrNotFound
		}
		for _, it := range d.Items {
			if it.SessionID == id {
				it.SessionID = ""
			}
		}
		delete(d.Sessions, id)
		return nil
	})
}
