package sqlstore

import (
	"database/sql"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/julianstephens/basket/internal/constants"
	"github.com/julianstephens/basket/internal/logger"
)

type postgresDialect struct{}

func (postgresDialect) Name() string             { return "postgres" }
func (postgresDialect) DriverName() string       { return "postgres" }
func (postgresDialect) GooseDialect() string     { return "postgres" }
func (postgresDialect) MigrationsSubdir() string { return "postgres" }

func (postgresDialect) RewriteQuery(query string) string {
	return rewritePlaceholdersToNumbered(query)
}

func (postgresDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	_, err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName)
	return err
}

func (postgresDialect) UpsertSettingQuery() string {
	return "INSERT INTO settings (name, value) VALUES (?, ?) ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value"
}

// withSearchPath pins the connection to the application schema unless the
// caller already chose one.
func withSearchPath(connStr string) string {
	if isPostgresURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return connStr
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}
	if dsnHasKey(connStr, "search_path") {
		return connStr
	}
	return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
}

func isPostgresURL(connStr string) bool {
	return strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://")
}

// dsnHasKey reports whether a key=value style DSN sets key (case-insensitive).
func dsnHasKey(connStr, key string) bool {
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(strings.TrimSpace(kv[0]), key) {
			return true
		}
	}
	return false
}
