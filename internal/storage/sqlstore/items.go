package sqlstore

import (
	"database/sql"
	"strings"

	"github.com/julianstephens/basket/internal/models"
	"github.com/julianstephens/basket/internal/storage"
)

var itemCols = []string{
	"id", "list_id", "session_id", "name", "quantity", "category", "author_name",
	"status", "estimated_price", "actual_price", "is_promo", "created_at",
}

func scanItem(row scanner) (*models.GroceryItem, error) {
	var it models.GroceryItem
	var listID, sessionID sql.NullString
	var category, status, createdAt string
	var estimated, actual sql.NullFloat64
	err := row.Scan(&it.ID, &listID, &sessionID, &it.Name, &it.Quantity, &category, &it.AuthorName,
		&status, &estimated, &actual, &it.IsPromo, &createdAt)
	if err != nil {
		return nil, err
	}
	it.ListID = listID.String
	it.SessionID = sessionID.String
	it.Category = models.Category(category)
	it.Status = models.ItemStatus(status)
	it.EstimatedPrice = floatPtr(estimated)
	it.ActualPrice = floatPtr(actual)
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	it.CreatedAt = t
	return &it, nil
}

func (s *Store) AddItem(it *models.GroceryItem) error {
	_, err := s.exec(`INSERT INTO grocery_items (`+prefixed("", itemCols)+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, nullString(it.ListID), nullString(it.SessionID), it.Name, it.Quantity, string(it.Category), it.AuthorName,
		string(it.Status), nullFloat(it.EstimatedPrice), nullFloat(it.ActualPrice), it.IsPromo, formatTime(it.CreatedAt))
	return err
}

func (s *Store) GetItem(id string) (*models.GroceryItem, error) {
	it, err := scanItem(s.queryRow(`SELECT `+prefixed("", itemCols)+` FROM grocery_items WHERE id = ?`, id))
	return it, notFound(err)
}

// QueryItems returns matching items in creation order.
func (s *Store) QueryItems(q storage.ItemQuery) ([]*models.GroceryItem, error) {
	var where []string
	var args []any
	from := `grocery_items i`
	if q.HouseholdID != "" {
		from += ` JOIN shopping_lists l ON l.id = i.list_id`
		where = append(where, `l.household_id = ?`)
		args = append(args, q.HouseholdID)
	}
	if q.ListID != "" {
		where = append(where, `i.list_id = ?`)
		args = append(args, q.ListID)
	}
	if q.SessionID != "" {
		where = append(where, `i.session_id = ?`)
		args = append(args, q.SessionID)
	}
	if q.Status != "" {
		where = append(where, `i.status = ?`)
		args = append(args, string(q.Status))
	}

	query := `SELECT ` + prefixed("i", itemCols) + ` FROM ` + from
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY i.created_at, i.id`

	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.GroceryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) UpdateItem(it *models.GroceryItem) error {
	return s.execOne(`UPDATE grocery_items SET list_id = ?, session_id = ?, name = ?, quantity = ?, category = ?,
		author_name = ?, status = ?, estimated_price = ?, actual_price = ?, is_promo = ? WHERE id = ?`,
		nullString(it.ListID), nullString(it.SessionID), it.Name, it.Quantity, string(it.Category),
		it.AuthorName, string(it.Status), nullFloat(it.EstimatedPrice), nullFloat(it.ActualPrice), it.IsPromo, it.ID)
}

func (s *Store) DeleteItem(id string) error {
	return s.execOne(`DELETE FROM grocery_items WHERE id = ?`, id)
}
