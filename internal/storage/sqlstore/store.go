package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/basket/internal/logger"
	"github.com/julianstephens/basket/internal/migration"
	"github.com/julianstephens/basket/internal/models"
	"github.com/julianstephens/basket/internal/storage"
	"github.com/julianstephens/basket/migrations"
)

type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store implements storage.Provider over database/sql for every Dialect.
type Store struct {
	dialect Dialect
	path    string
	dsn     string
	db      *sql.DB
	q       querier
	inTx    bool
}

var _ storage.Provider = (*Store)(nil)

// NewSQLite returns a store backed by the SQLite file at path.
func NewSQLite(path string) *Store {
	return &Store{dialect: sqliteDialect{}, path: path, dsn: path}
}

// NewPostgres returns a store for a PostgreSQL connection string. The
// connection is pinned to the application schema.
func NewPostgres(connStr string) *Store {
	return &Store{dialect: postgresDialect{}, path: Redact(connStr), dsn: withSearchPath(connStr)}
}

// NewMySQL returns a store for a "mysql://" URL or bare driver DSN.
func NewMySQL(connStr string) (*Store, error) {
	dsn, err := mysqlDSN(connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	return &Store{dialect: mysqlDialect{}, path: Redact(connStr), dsn: dsn}, nil
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

func (s *Store) isSQLite() bool {
	return s.dialect.Name() == "sqlite"
}

func (s *Store) open() error {
	db, err := sql.Open(s.dialect.DriverName(), s.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := s.dialect.ConfigureConnection(db); err != nil {
		db.Close()
		if !s.isSQLite() && strings.Contains(err.Error(), "SSL is not enabled on the server") {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	s.q = db
	return nil
}

// Init creates the database if needed, applies migrations and writes default
// settings for anything not yet set.
func (s *Store) Init() error {
	if s.isSQLite() {
		if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if _, err := s.Migrate(func(msg string) { logger.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	settings, err := s.GetSettings()
	if err != nil {
		return err
	}
	if err := s.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save default settings: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if s.isSQLite() {
		if _, err := os.Stat(s.path); os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'basket init' first")
		}
	}
	if err := s.open(); err != nil {
		return err
	}
	r, err := s.runner()
	if err != nil {
		return err
	}
	return r.ValidateVersion()
}

func (s *Store) Close() error {
	if s.db != nil && !s.inTx {
		err := s.db.Close()
		s.db = nil
		s.q = nil
		return err
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying connection pool, or nil before Init/Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

func (s *Store) runner() (*migration.Runner, error) {
	sub, err := fs.Sub(migrations.FS, s.dialect.MigrationsSubdir())
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", s.dialect.Name(), err)
	}
	return migration.NewRunner(s.db, sub, s.dialect.GooseDialect()), nil
}

// Migrate applies pending schema migrations and returns how many ran.
func (s *Store) Migrate(logFn func(string)) (int, error) {
	if s.db == nil {
		if err := s.open(); err != nil {
			return 0, err
		}
	}
	r, err := s.runner()
	if err != nil {
		return 0, err
	}
	return r.ApplyMigrations(logFn)
}

// SchemaVersion returns the applied and the latest available schema versions.
func (s *Store) SchemaVersion() (current, latest int64, err error) {
	r, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = r.GetCurrentVersion(); err != nil {
		return 0, 0, err
	}
	if latest, err = r.GetLatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

// WithTx runs fn inside a database transaction. Nested calls join the
// enclosing transaction.
func (s *Store) WithTx(fn func(storage.Provider) error) error {
	if s.inTx {
		return fn(s)
	}
	if s.db == nil {
		return errors.New("storage not loaded")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	txStore := &Store{dialect: s.dialect, path: s.path, dsn: s.dsn, db: s.db, q: tx, inTx: true}
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) exec(query string, args ...any) (sql.Result, error) {
	return s.q.Exec(s.dialect.RewriteQuery(query), args...)
}

func (s *Store) query(query string, args ...any) (*sql.Rows, error) {
	return s.q.Query(s.dialect.RewriteQuery(query), args...)
}

func (s *Store) queryRow(query string, args ...any) *sql.Row {
	return s.q.QueryRow(s.dialect.RewriteQuery(query), args...)
}

// execOne runs a single-row write and reports storage.ErrNotFound when no
// row matched.
func (s *Store) execOne(query string, args ...any) error {
	res, err := s.exec(query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Timestamps are stored as fixed-width UTC text so they sort correctly on
// every backend.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func prefixed(alias string, cols []string) string {
	if alias == "" {
		return strings.Join(cols, ", ")
	}
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return strings.Join(out, ", ")
}

// GetSettings reads the settings table; missing keys take their defaults.
func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.query("SELECT name, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return models.Settings{}, err
		}
		data[name] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	for k, v := range models.SettingsToMap(models.DefaultSettings()) {
		if _, ok := data[k]; !ok {
			data[k] = v
		}
	}
	settings, err := models.MapToSettings(data)
	if err != nil {
		return models.Settings{}, err
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	return s.WithTx(func(p storage.Provider) error {
		tx := p.(*Store)
		for name, value := range models.SettingsToMap(settings) {
			if _, err := tx.exec(tx.dialect.UpsertSettingQuery(), name, value); err != nil {
				return fmt.Errorf("saving setting %s: %w", name, err)
			}
		}
		return nil
	})
}
