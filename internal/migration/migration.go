package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
)

// goose keeps its base FS, dialect and logger in package globals.
var gooseMu sync.Mutex

// Runner applies the goose migrations found at the root of an FS.
type Runner struct {
	db      *sql.DB
	fs      fs.FS
	dialect string
}

// NewRunner creates a runner for db. dialect is the goose dialect name
// ("sqlite3", "postgres", "mysql").
func NewRunner(db *sql.DB, migrationFS fs.FS, dialect string) *Runner {
	return &Runner{
		db:      db,
		fs:      migrationFS,
		dialect: dialect,
	}
}

type gooseLogger struct {
	logFn func(string)
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logFn(fmt.Sprintf(format, v...))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logFn("FATAL: " + fmt.Sprintf(format, v...))
}

func (r *Runner) with(logFn func(string), fn func() error) error {
	if logFn == nil {
		logFn = func(string) {}
	}
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(r.fs)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(gooseLogger{logFn: logFn})
	if err := goose.SetDialect(r.dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	return fn()
}

func (r *Runner) collect(current, target int64) (goose.Migrations, error) {
	ms, err := goose.CollectMigrations(".", current, target)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	return ms, nil
}

// GetCurrentVersion returns the applied schema version, 0 for a fresh database.
func (r *Runner) GetCurrentVersion() (int64, error) {
	var version int64
	err := r.with(nil, func() error {
		v, err := goose.GetDBVersion(r.db)
		if err != nil {
			return fmt.Errorf("failed to get current version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

// GetLatestVersion returns the highest migration version available.
func (r *Runner) GetLatestVersion() (int64, error) {
	var latest int64
	err := r.with(nil, func() error {
		ms, err := r.collect(0, goose.MaxVersion)
		if err != nil {
			return err
		}
		if len(ms) > 0 {
			latest = ms[len(ms)-1].Version
		}
		return nil
	})
	return latest, err
}

// ApplyMigrations applies all pending migrations and returns how many ran.
func (r *Runner) ApplyMigrations(logFn func(string)) (int, error) {
	applied := 0
	err := r.with(logFn, func() error {
		current, err := goose.GetDBVersion(r.db)
		if err != nil {
			return fmt.Errorf("failed to get current version: %w", err)
		}
		all, err := r.collect(0, goose.MaxVersion)
		if err != nil {
			return err
		}
		if len(all) == 0 {
			return nil
		}
		latest := all[len(all)-1].Version
		if current > latest {
			return newerSchemaError(current, latest)
		}

		start := time.Now()
		if err := goose.Up(r.db, "."); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}

		after, err := goose.GetDBVersion(r.db)
		if err != nil {
			return fmt.Errorf("failed to get current version: %w", err)
		}
		for _, m := range all {
			if m.Version > current && m.Version <= after {
				applied++
			}
		}
		if applied > 0 && logFn != nil {
			logFn(fmt.Sprintf("Applied %d migration(s) in %v", applied, time.Since(start).Round(time.Millisecond)))
		}
		return nil
	})
	return applied, err
}

// ErrSchemaTooNew is returned when the database was migrated by a newer build.
var ErrSchemaTooNew = errors.New("database schema is newer than this build supports")

func newerSchemaError(current, latest int64) error {
	return fmt.Errorf("%w: database version %d, supported version %d - please upgrade the application", ErrSchemaTooNew, current, latest)
}

// ValidateVersion checks if the database version is compatible with the application
func (r *Runner) ValidateVersion() error {
	current, err := r.GetCurrentVersion()
	if err != nil {
		return err
	}
	latest, err := r.GetLatestVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return newerSchemaError(current, latest)
	}
	return nil
}
