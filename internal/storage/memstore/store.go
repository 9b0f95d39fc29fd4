// Package memstore is an in-process entity store. With a path it persists to
// a JSON file after every committed write; without one it lives only as long
// as the process.
package memstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/julianstephens/basket/internal/constants"
	"github.com/julianstephens/basket/internal/models"
	"github.com/julianstephens/basket/internal/storage"
)

const fileVersion = 1

type snapshot struct {
	Version    int                                `json:"version"`
	Settings   models.Settings                    `json:"settings"`
	Users      map[string]*models.User            `json:"users"`
	Households map[string]*models.Household       `json:"households"`
	Lists      map[string]*models.ShoppingList    `json:"lists"`
	Items      map[string]*models.GroceryItem     `json:"items"`
	Sessions   map[string]*models.ShoppingSession `json:"sessions"`
}

func newSnapshot() *snapshot {
	return &snapshot{
		Version:    fileVersion,
		Settings:   models.DefaultSettings(),
		Users:      make(map[string]*models.User),
		Households: make(map[string]*models.Household),
		Lists:      make(map[string]*models.ShoppingList),
		Items:      make(map[string]*models.GroceryItem),
		Sessions:   make(map[string]*models.ShoppingSession),
	}
}

func (d *snapshot) ensureMaps() {
	if d.Users == nil {
		d.Users = make(map[string]*models.User)
	}
	if d.Households == nil {
		d.Households = make(map[string]*models.Household)
	}
	if d.Lists == nil {
		d.Lists = make(map[string]*models.ShoppingList)
	}
	if d.Items == nil {
		d.Items = make(map[string]*models.GroceryItem)
	}
	if d.Sessions == nil {
		d.Sessions = make(map[string]*models.ShoppingSession)
	}
}

func (d *snapshot) clone() (*snapshot, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	c := &snapshot{}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, err
	}
	c.ensureMaps()
	return c, nil
}

// Store implements storage.Provider in memory.
type Store struct {
	mu   sync.Mutex
	path string
	data *snapshot
	inTx bool
}

var _ storage.Provider = (*Store)(nil)

// New returns a store that is never written to disk.
func New() *Store {
	return &Store{}
}

// NewJSON returns a store persisted to the JSON file at path.
func NewJSON(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		if s.data == nil {
			s.data = newSnapshot()
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return s.loadLocked()
	}
	d := newSnapshot()
	if err := s.saveLocked(d); err != nil {
		return err
	}
	s.data = d
	return nil
}

func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data != nil {
		return nil
	}
	if s.path == "" {
		s.data = newSnapshot()
		return nil
	}
	return s.loadLocked()
}

func (s *Store) loadLocked() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}
	d := &snapshot{}
	if err := json.Unmarshal(raw, d); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if d.Version > fileVersion {
		return fmt.Errorf("storage file version %d is newer than supported version %d - please upgrade the application", d.Version, fileVersion)
	}
	d.ensureMaps()
	models.ApplyDefaultSettings(&d.Settings)
	s.data = d
	return nil
}

// saveLocked writes d to the JSON file. Callers swap d in only on success.
func (s *Store) saveLocked(d *snapshot) error {
	if s.path == "" || s.inTx {
		return nil
	}
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) GetConfigPath() string {
	if s.path == "" {
		return "memory"
	}
	return s.path
}

// write runs fn under the lock. A file-backed store applies fn to a copy and
// keeps it only once the file is written.
func (s *Store) write(fn func(d *snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return fmt.Errorf("storage not loaded")
	}
	if s.path == "" || s.inTx {
		return fn(s.data)
	}

	work, err := s.data.clone()
	if err != nil {
		return fmt.Errorf("failed to copy storage: %w", err)
	}
	if err := fn(work); err != nil {
		return err
	}
	if err := s.saveLocked(work); err != nil {
		return err
	}
	s.data = work
	return nil
}

func (s *Store) read(fn func(d *snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return fmt.Errorf("storage not loaded")
	}
	return fn(s.data)
}

// WithTx runs fn against a private copy of the data and swaps it in only if
// fn succeeds. Use the Provider passed to fn, not s, inside the callback.
func (s *Store) WithTx(fn func(storage.Provider) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return fmt.Errorf("storage not loaded")
	}

	work, err := s.data.clone()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	tx := &Store{data: work, inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	if err := s.saveLocked(tx.data); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

func (s *Store) GetSettings() (models.Settings, error) {
	var out models.Settings
	err := s.read(func(d *snapshot) error {
		out = d.Settings
		return nil
	})
	return out, err
}

func (s *Store) SaveSettings(settings models.Settings) error {
	return s.write(func(d *snapshot) error {
		d.Settings = settings
		return nil
	})
}

func sortByCreated[T any](items []T, key func(T) (int64, string), desc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti != tj {
			if desc {
				return ti > tj
			}
			return ti < tj
		}
		return strings.Compare(idi, idj) < 0
	})
}
