package sqlstore

import (
	"database/sql"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

type mysqlDialect struct{}

func (mysqlDialect) Name() string                     { return "mysql" }
func (mysqlDialect) DriverName() string               { return "mysql" }
func (mysqlDialect) GooseDialect() string             { return "mysql" }
func (mysqlDialect) MigrationsSubdir() string         { return "mysql" }
func (mysqlDialect) RewriteQuery(query string) string { return query }

func (mysqlDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return nil
}

func (mysqlDialect) UpsertSettingQuery() string {
	return "INSERT INTO settings (name, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)"
}

// mysqlConfig parses a "mysql://" URL or a bare driver DSN.
func mysqlConfig(connStr string) (*mysql.Config, error) {
	return mysql.ParseDSN(strings.TrimPrefix(connStr, "mysql://"))
}

// mysqlDSN normalises connStr into the driver's DSN. Timestamps are stored as
// text, and updates report matched rather than changed rows so that
// RowsAffected can detect missing records.
func mysqlDSN(connStr string) (string, error) {
	cfg, err := mysqlConfig(connStr)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = false
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}
