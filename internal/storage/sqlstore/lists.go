package sqlstore

import (
	"database/sql"

	"github.com/julianstephens/basket/internal/models"
	"github.com/julianstephens/basket/internal/storage"
)

var listCols = []string{"id", "household_id", "name", "color_name", "is_completed", "created_at"}

func scanList(row scanner) (*models.ShoppingList, error) {
	var l models.ShoppingList
	var householdID sql.NullString
	var createdAt string
	if err := row.Scan(&l.ID, &householdID, &l.Name, &l.ColorName, &l.IsCompleted, &createdAt); err != nil {
		return nil, err
	}
	l.HouseholdID = householdID.String
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	l.CreatedAt = t
	return &l, nil
}

func (s *Store) AddList(l *models.ShoppingList) error {
	_, err := s.exec(`INSERT INTO shopping_lists (`+prefixed("", listCols)+`) VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID, nullString(l.HouseholdID), l.Name, l.ColorName, l.IsCompleted, formatTime(l.CreatedAt))
	return err
}

func (s *Store) GetList(id string) (*models.ShoppingList, error) {
	l, err := scanList(s.queryRow(`SELECT `+prefixed("", listCols)+` FROM shopping_lists WHERE id = ?`, id))
	return l, notFound(err)
}

// GetLists returns the household's lists, newest first. An empty householdID
// returns every list.
func (s *Store) GetLists(householdID string) ([]*models.ShoppingList, error) {
	q := `SELECT ` + prefixed("", listCols) + ` FROM shopping_lists`
	var args []any
	if householdID != "" {
		q += ` WHERE household_id = ?`
		args = append(args, householdID)
	}
	q += ` ORDER BY created_at DESC, id`

	rows, err := s.query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []*models.ShoppingList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

func (s *Store) UpdateList(l *models.ShoppingList) error {
	return s.execOne(`UPDATE shopping_lists SET household_id = ?, name = ?, color_name = ?, is_completed = ? WHERE id = ?`,
		nullString(l.HouseholdID), l.Name, l.ColorName, l.IsCompleted, l.ID)
}

// DeleteList removes the list together with its items and sessions.
func (s *Store) DeleteList(id string) error {
	return s.WithTx(func(p storage.Provider) error {
		return p.(*Store).deleteListCascade(id)
	})
}

func (s *Store) deleteListCascade(id string) error {
	if _, err := s.exec(`DELETE FROM grocery_items WHERE list_id = ?`, id); err != nil {
		return err
	}
	if _, err := s.exec(`DELETE FROM shopping_sessions WHERE list_id = ?`, id); err != nil {
		return err
	}
	return s.execOne(`DELETE FROM shopping_lists WHERE id = ?`, id)
}
