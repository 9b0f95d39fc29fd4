package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/julianstephens/basket/internal/errors"
	"github.com/julianstephens/basket/internal/keyring"
	"github.com/julianstephens/basket/internal/storage"
	"github.com/julianstephens/basket/internal/storage/memstore"
	"github.com/julianstephens/basket/internal/storage/sqlstore"
)

const (
	MemoryConfig  = "memory"
	KeyringPrefix = "keyring:"
)

// OpenStore picks a storage backend from the --config value:
//
//	memory                  in-process store, nothing persisted
//	*.json                  JSON file store
//	postgres://, host=...   PostgreSQL
//	mysql://                MySQL
//	keyring:<backend>       connection string read from the OS keyring
//	anything else           SQLite file
//
// A non-empty connection (from BASKET_DB_CONNECTION) overrides config.
// Connection strings typed on the command line must not carry a password.
func OpenStore(config, connection string) (storage.Provider, error) {
	source, trusted := config, false
	switch {
	case connection != "":
		source, trusted = connection, true
	case strings.HasPrefix(config, KeyringPrefix):
		backend := strings.TrimPrefix(config, KeyringPrefix)
		connStr, err := keyring.GetConnectionString(backend)
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, apperrors.WithHint(fmt.Errorf("no %s connection string in keyring", backend),
				fmt.Sprintf("store one with 'basket keyring set %s <connection-string>'", backend))
		}
		if err != nil {
			return nil, err
		}
		source, trusted = connStr, true
	}

	switch {
	case source == MemoryConfig:
		return memstore.New(), nil
	case sqlstore.IsMySQL(source):
		if err := checkConnString(source, trusted); err != nil {
			return nil, err
		}
		return sqlstore.NewMySQL(source)
	case sqlstore.IsPostgres(source) || strings.Contains(source, "host="):
		if err := checkConnString(source, trusted); err != nil {
			return nil, err
		}
		return sqlstore.NewPostgres(source), nil
	}

	path, err := ExpandPath(source)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return memstore.NewJSON(path), nil
	}
	return sqlstore.NewSQLite(path), nil
}

func checkConnString(connStr string, trusted bool) error {
	err := sqlstore.ValidateConnString(connStr)
	if trusted && errors.Is(err, sqlstore.ErrEmbeddedCredentials) {
		return nil
	}
	if errors.Is(err, sqlstore.ErrEmbeddedCredentials) {
		return apperrors.WithHint(err, "store the connection string with 'basket keyring set' and use --config keyring:<backend>, or export BASKET_DB_CONNECTION")
	}
	return err
}

// ExpandPath resolves a leading "~/" against the home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// SQLitePath returns the database file of a SQLite-backed store.
func SQLitePath(store storage.Provider) (string, bool) {
	s, ok := store.(*sqlstore.Store)
	if !ok || s.Dialect().Name() != "sqlite" {
		return "", false
	}
	return s.GetConfigPath(), true
}

// ConfigDir is where logs and backups live for a store. Remote databases
// fall back to the default config directory.
func ConfigDir(store storage.Provider, fallback string) string {
	if path, ok := SQLitePath(store); ok {
		return filepath.Dir(path)
	}
	if s, ok := store.(*memstore.Store); ok && s.GetConfigPath() != MemoryConfig {
		return filepath.Dir(s.GetConfigPath())
	}
	return fallback
}
