package sqlstore

import (
	"database/sql"
	"strings"

	"github.com/julianstephens/basket/internal/models"
	"github.com/julianstephens/basket/internal/storage"
)

var sessionCols = []string{"id", "list_id", "start_time", "end_time", "total_cost"}

func scanSession(row scanner) (*models.ShoppingSession, error) {
	var ss models.ShoppingSession
	var listID, endTime sql.NullString
	var startTime string
	if err := row.Scan(&ss.ID, &listID, &startTime, &endTime, &ss.TotalCost); err != nil {
		return nil, err
	}
	ss.ListID = listID.String
	t, err := parseTime(startTime)
	if err != nil {
		return nil, err
	}
	ss.StartTime = t
	if endTime.Valid {
		end, err := parseTime(endTime.String)
		if err != nil {
			return nil, err
		}
		ss.EndTime = &end
	}
	return &ss, nil
}

func endTimeArg(ss *models.ShoppingSession) any {
	if ss.EndTime == nil {
		return nil
	}
	return formatTime(*ss.EndTime)
}

func (s *Store) AddSession(ss *models.ShoppingSession) error {
	_, err := s.exec(`INSERT INTO shopping_sessions (`+prefixed("", sessionCols)+`) VALUES (?, ?, ?, ?, ?)`,
		ss.ID, nullString(ss.ListID), formatTime(ss.StartTime), endTimeArg(ss), ss.TotalCost)
	return err
}

func (s *Store) GetSession(id string) (*models.ShoppingSession, error) {
	ss, err := scanSession(s.queryRow(`SELECT `+prefixed("", sessionCols)+` FROM shopping_sessions WHERE id = ?`, id))
	return ss, notFound(err)
}

func (s *Store) QuerySessions(q storage.SessionQuery) ([]*models.ShoppingSession, error) {
	var where []string
	var args []any
	from := `shopping_sessions s`
	if q.HouseholdID != "" {
		from += ` JOIN shopping_lists l ON l.id = s.list_id`
		where = append(where, `l.household_id = ?`)
		args = append(args, q.HouseholdID)
	}
	if q.ListID != "" {
		where = append(where, `s.list_id = ?`)
		args = append(args, q.ListID)
	}
	if q.ActiveOnly {
		where = append(where, `s.end_time IS NULL`)
	}

	query := `SELECT ` + prefixed("s", sessionCols) + ` FROM ` + from
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	if q.OldestFirst {
		query += ` ORDER BY s.start_time, s.id`
	} else {
		query += ` ORDER BY s.start_time DESC, s.id`
	}

	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.ShoppingSession
	for rows.Next() {
		ss, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, ss)
	}
	return sessions, rows.Err()
}

func (s *Store) UpdateSession(ss *models.ShoppingSession) error {
	return s.execOne(`UPDATE shopping_sessions SET list_id = ?, start_time = ?, end_time = ?, total_cost = ? WHERE id = ?`,
		nullString(ss.ListID), formatTime(ss.StartTime), endTimeArg(ss), ss.TotalCost, ss.ID)
}

// DeleteSession removes the session and clears the session reference on the
// items picked during it. The items stay on their list.
func (s *Store) DeleteSession(id string) error {
	return s.WithTx(func(p storage.Provider) error {
		tx := p.(*Store)
		if _, err := tx.exec(`UPDATE grocery_items SET session_id = NULL WHERE session_id = ?`, id); err != nil {
			return err
		}
		return tx.execOne(`DELETE FROM shopping_sessions WHERE id = ?`, id)
	})
}
