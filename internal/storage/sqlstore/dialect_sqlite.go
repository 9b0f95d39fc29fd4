package sqlstore

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

type sqliteDialect struct{}

func (sqliteDialect) Name() string                     { return "sqlite" }
func (sqliteDialect) DriverName() string               { return "sqlite" }
func (sqliteDialect) GooseDialect() string             { return "sqlite3" }
func (sqliteDialect) MigrationsSubdir() string         { return "sqlite" }
func (sqliteDialect) RewriteQuery(query string) string { return query }

func (sqliteDialect) ConfigureConnection(db *sql.DB) error {
	// A single connection keeps transactions and plain statements from
	// fighting over the database lock.
	db.SetMaxOpenConns(1)

	_, err := db.Exec("PRAGMA busy_timeout = 5000;")
	return err
}

func (sqliteDialect) UpsertSettingQuery() string {
	return "INSERT INTO settings (name, value) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET value = excluded.value"
}
