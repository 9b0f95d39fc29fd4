package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/basket/internal/constants"
	"github.com/julianstephens/basket/internal/logger"
	"github.com/julianstephens/basket/internal/models"
	"github.com/julianstephens/basket/internal/storage"
	"github.com/julianstephens/basket/internal/validation"
)

// Identity is the operating user and, once they have joined one, their
// household.
type Identity struct {
	User      *models.User
	Household *models.Household
}

// HouseholdID returns "" when the user has no household.
func (id *Identity) HouseholdID() string {
	if id == nil || id.Household == nil {
		return ""
	}
	return id.Household.ID
}

func (id *Identity) requireHousehold() error {
	if id == nil || id.User == nil {
		return ErrNoActiveUser
	}
	if id.Household == nil {
		return ErrNoHousehold
	}
	return nil
}

// UserInput describes a new user.
type UserInput struct {
	Name        string
	AvatarColor string
	AvatarEmoji string
}

// CreateUser adds a user. Names are unique.
func (s *Service) CreateUser(in UserInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	if err := validation.ValidateName("user name", name); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUserByName(name); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	color := in.AvatarColor
	if color == "" {
		color = constants.ListColors[0]
	}
	u := &models.User{
		ID:          s.newID(),
		Name:        name,
		AvatarColor: color,
		AvatarEmoji: in.AvatarEmoji,
		CreatedAt:   s.now(),
	}
	if err := s.store.AddUser(u); err != nil {
		return nil, fmt.Errorf("failed to add user: %w", err)
	}
	logger.Info("User created", "user", u.ID, "name", u.Name)
	return u, nil
}

// ActivateUser makes the user named ref (or with ID ref) the operating user.
func (s *Service) ActivateUser(ref string) (*Identity, error) {
	u, err := s.findUser(ref)
	if err != nil {
		return nil, err
	}
	settings, err := s.store.GetSettings()
	if err != nil {
		return nil, err
	}
	settings.ActiveUserID = u.ID
	if err := s.store.SaveSettings(settings); err != nil {
		return nil, fmt.Errorf("failed to save active user: %w", err)
	}
	logger.Info("Active user changed", "user", u.ID)
	return s.identityFor(u)
}

func (s *Service) findUser(ref string) (*models.User, error) {
	u, err := s.store.GetUser(ref)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	u, err = s.store.GetUserByName(strings.TrimSpace(ref))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("user %q not found", ref)
	}
	return u, err
}

// Users lists every user, oldest first.
func (s *Service) Users() ([]*models.User, error) {
	return s.store.GetUsers()
}

// Identity resolves the active user recorded in settings.
func (s *Service) Identity() (*Identity, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return nil, err
	}
	if settings.ActiveUserID == "" {
		return nil, ErrNoActiveUser
	}
	u, err := s.store.GetUser(settings.ActiveUserID)
	if err != nil {
		return nil, notFound(err, ErrNoActiveUser)
	}
	return s.identityFor(u)
}

func (s *Service) identityFor(u *models.User) (*Identity, error) {
	id := &Identity{User: u}
	if u.HouseholdID == "" {
		return id, nil
	}
	h, err := s.store.GetHousehold(u.HouseholdID)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Warn("User refers to a missing household", "user", u.ID, "household", u.HouseholdID)
		return id, nil
	}
	if err != nil {
		return nil, err
	}
	id.Household = h
	return id, nil
}

// SignOut clears the active user.
func (s *Service) SignOut() error {
	settings, err := s.store.GetSettings()
	if err != nil {
		return err
	}
	settings.ActiveUserID = ""
	return s.store.SaveSettings(settings)
}

// CreateHousehold creates a household with a fresh join code and moves the
// identity's user into it.
func (s *Service) CreateHousehold(id *Identity, name string) (*models.Household, error) {
	if id == nil || id.User == nil {
		return nil, ErrNoActiveUser
	}
	name = strings.TrimSpace(name)
	if err := validation.ValidateName("household name", name); err != nil {
		return nil, err
	}

	code, err := s.newJoinCode()
	if err != nil {
		return nil, err
	}
	h := &models.Household{
		ID:        s.newID(),
		Name:      name,
		JoinCode:  code,
		CreatedAt: s.now(),
	}

	err = s.store.WithTx(func(tx storage.Provider) error {
		if err := tx.AddHousehold(h); err != nil {
			return fmt.Errorf("failed to add household: %w", err)
		}
		u := *id.User
		u.HouseholdID = h.ID
		return tx.UpdateUser(&u)
	})
	if err != nil {
		return nil, err
	}

	id.User.HouseholdID = h.ID
	id.Household = h
	logger.Info("Household created", "household", h.ID, "code", h.JoinCode)
	return h, nil
}

// newJoinCode takes the first characters of a fresh ID, upper-cased, and
// retries on the rare collision.
func (s *Service) newJoinCode() (string, error) {
	for i := 0; i < 5; i++ {
		raw := strings.ReplaceAll(s.newID(), "-", "")
		if len(raw) < constants.JoinCodeLength {
			continue
		}
		code := strings.ToUpper(raw[:constants.JoinCodeLength])
		_, err := s.store.GetHouseholdByJoinCode(code)
		if errors.Is(err, storage.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("failed to generate a unique join code")
}

// JoinHousehold moves the identity's user into the household with code.
// Codes are matched case-insensitively.
func (s *Service) JoinHousehold(id *Identity, code string) (*models.Household, error) {
	if id == nil || id.User == nil {
		return nil, ErrNoActiveUser
	}
	code, err := validation.ValidateJoinCode(code)
	if err != nil {
		return nil, err
	}
	h, err := s.store.GetHouseholdByJoinCode(code)
	if err != nil {
		return nil, notFound(err, ErrInvalidJoinCode)
	}

	u := *id.User
	u.HouseholdID = h.ID
	if err := s.store.UpdateUser(&u); err != nil {
		return nil, fmt.Errorf("failed to join household: %w", err)
	}
	id.User.HouseholdID = h.ID
	id.Household = h
	logger.Info("Joined household", "user", u.ID, "household", h.ID)
	return h, nil
}

// Members lists the users of the identity's household.
func (s *Service) Members(id *Identity) ([]*models.User, error) {
	if err := id.requireHousehold(); err != nil {
		return nil, err
	}
	users, err := s.store.GetUsers()
	if err != nil {
		return nil, err
	}
	var members []*models.User
	for _, u := range users {
		if u.HouseholdID == id.Household.ID {
			members = append(members, u)
		}
	}
	return members, nil
}
