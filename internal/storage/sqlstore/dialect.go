package sqlstore

import (
	"database/sql"
	"strconv"
	"strings"
)

// Dialect captures what differs between the supported SQL backends.
type Dialect interface {
	// Name is the backend name shown to users ("sqlite", "postgres", "mysql").
	Name() string

	// DriverName returns the driver name for sql.Open
	DriverName() string

	// GooseDialect is the dialect name understood by the migration runner.
	GooseDialect() string

	// MigrationsSubdir returns the embedded migrations directory for this backend.
	MigrationsSubdir() string

	// RewriteQuery converts ? placeholders where the driver needs another syntax.
	RewriteQuery(query string) string

	// ConfigureConnection applies pool limits and per-connection settings.
	ConfigureConnection(db *sql.DB) error

	// UpsertSettingQuery inserts or replaces one settings row (name, value).
	UpsertSettingQuery() string
}

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
// Question marks inside single-quoted literals are left alone.
func rewritePlaceholdersToNumbered(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
