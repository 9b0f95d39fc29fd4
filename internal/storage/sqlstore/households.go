package sqlstore

import (
	"database/sql"
	"strings"

	"github.com/julianstephens/basket/internal/models"
	"github.com/julianstephens/basket/internal/storage"
)

var (
	userCols      = []string{"id", "name", "avatar_color", "avatar_emoji", "household_id", "created_at"}
	householdCols = []string{"id", "name", "join_code", "created_at"}
)

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	var householdID sql.NullString
	var createdAt string
	if err := row.Scan(&u.ID, &u.Name, &u.AvatarColor, &u.AvatarEmoji, &householdID, &createdAt); err != nil {
		return nil, err
	}
	u.HouseholdID = householdID.String
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = t
	return &u, nil
}

func (s *Store) AddUser(u *models.User) error {
	_, err := s.exec(`INSERT INTO users (`+prefixed("", userCols)+`) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.AvatarColor, u.AvatarEmoji, nullString(u.HouseholdID), formatTime(u.CreatedAt))
	return err
}

func (s *Store) GetUser(id string) (*models.User, error) {
	u, err := scanUser(s.queryRow(`SELECT `+prefixed("", userCols)+` FROM users WHERE id = ?`, id))
	return u, notFound(err)
}

// GetUserByName returns the oldest user with exactly this name.
func (s *Store) GetUserByName(name string) (*models.User, error) {
	u, err := scanUser(s.queryRow(`SELECT `+prefixed("", userCols)+` FROM users WHERE name = ? ORDER BY created_at LIMIT 1`, name))
	return u, notFound(err)
}

func (s *Store) GetUsers() ([]*models.User, error) {
	rows, err := s.query(`SELECT ` + prefixed("", userCols) + ` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUser(u *models.User) error {
	return s.execOne(`UPDATE users SET name = ?, avatar_color = ?, avatar_emoji = ?, household_id = ? WHERE id = ?`,
		u.Name, u.AvatarColor, u.AvatarEmoji, nullString(u.HouseholdID), u.ID)
}

func scanHousehold(row scanner) (*models.Household, error) {
	var h models.Household
	var createdAt string
	if err := row.Scan(&h.ID, &h.Name, &h.JoinCode, &createdAt); err != nil {
		return nil, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	h.CreatedAt = t
	return &h, nil
}

func (s *Store) AddHousehold(h *models.Household) error {
	_, err := s.exec(`INSERT INTO households (`+prefixed("", householdCols)+`) VALUES (?, ?, ?, ?)`,
		h.ID, h.Name, strings.ToUpper(h.JoinCode), formatTime(h.CreatedAt))
	return err
}

func (s *Store) GetHousehold(id string) (*models.Household, error) {
	h, err := scanHousehold(s.queryRow(`SELECT `+prefixed("", householdCols)+` FROM households WHERE id = ?`, id))
	return h, notFound(err)
}

// GetHouseholdByJoinCode matches join codes case-insensitively.
func (s *Store) GetHouseholdByJoinCode(code string) (*models.Household, error) {
	h, err := scanHousehold(s.queryRow(`SELECT `+prefixed("", householdCols)+` FROM households WHERE join_code = ?`,
		strings.ToUpper(strings.TrimSpace(code))))
	return h, notFound(err)
}

// DeleteHousehold removes the household and its lists, and detaches members.
func (s *Store) DeleteHousehold(id string) error {
	return s.WithTx(func(p storage.Provider) error {
		tx := p.(*Store)
		lists, err := tx.GetLists(id)
		if err != nil {
			return err
		}
		for _, l := range lists {
			if err := tx.deleteListCascade(l.ID); err != nil {
				return err
			}
		}
		if _, err := tx.exec(`UPDATE users SET household_id = NULL WHERE household_id = ?`, id); err != nil {
			return err
		}
		return tx.execOne(`DELETE FROM households WHERE id = ?`, id)
	})
}
