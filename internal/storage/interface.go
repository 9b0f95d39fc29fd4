package storage

import (
	"errors"

	"github.com/julianstephens/basket/internal/models"
)

// ErrNotFound is returned by getters when no record matches.
var ErrNotFound = errors.New("record not found")

// ItemQuery filters grocery items. Zero fields do not filter.
type ItemQuery struct {
	ListID      string
	SessionID   string
	HouseholdID string
	Status      models.ItemStatus
}

// SessionQuery filters shopping sessions. Results are newest first unless
// OldestFirst is set.
type SessionQuery struct {
	ListID      string
	HouseholdID string
	ActiveOnly  bool
	OldestFirst bool
}

// Provider is the entity store. Deletes cascade explicitly: a household takes
// its lists with it, a list takes its items and sessions, and a session only
// detaches its items.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// WithTx runs fn against a store whose writes commit together when fn
	// returns nil and are discarded otherwise.
	WithTx(fn func(Provider) error) error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Users
	AddUser(*models.User) error
	GetUser(id string) (*models.User, error)
	GetUserByName(name string) (*models.User, error)
	GetUsers() ([]*models.User, error)
	UpdateUser(*models.User) error

	// Households
	AddHousehold(*models.Household) error
	GetHousehold(id string) (*models.Household, error)
	GetHouseholdByJoinCode(code string) (*models.Household, error)
	DeleteHousehold(id string) error

	// Lists
	AddList(*models.ShoppingList) error
	GetList(id string) (*models.ShoppingList, error)
	GetLists(householdID string) ([]*models.ShoppingList, error)
	UpdateList(*models.ShoppingList) error
	DeleteList(id string) error

	// Items
	AddItem(*models.GroceryItem) error
	GetItem(id string) (*models.GroceryItem, error)
	QueryItems(ItemQuery) ([]*models.GroceryItem, error)
	UpdateItem(*models.GroceryItem) error
	DeleteItem(id string) error

	// Sessions
	AddSession(*models.ShoppingSession) error
	GetSession(id string) (*models.ShoppingSession, error)
	QuerySessions(SessionQuery) ([]*models.ShoppingSession, error)
	UpdateSession(*models.ShoppingSession) error
	DeleteSession(id string) error

	// Utils
	GetConfigPath() string
}
