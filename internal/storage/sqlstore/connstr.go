package sqlstore

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	pq "github.com/lib/pq"
)

var (
	ErrInvalidConnectionString = errors.New("invalid connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// IsMySQL reports whether connStr names a MySQL database.
func IsMySQL(connStr string) bool {
	return strings.HasPrefix(connStr, "mysql://")
}

// IsPostgres reports whether connStr names a PostgreSQL database.
func IsPostgres(connStr string) bool {
	return isPostgresURL(connStr)
}

// ValidateConnString checks that a PostgreSQL or MySQL connection string
// parses and carries no password. Passwords belong in the OS keyring or the
// environment, never on the command line.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if IsMySQL(connStr) {
		return validateMySQL(connStr)
	}
	return validatePostgres(connStr)
}

func validatePostgres(connStr string) error {
	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}

	if isPostgresURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := u.User.Password(); isSet {
			return ErrEmbeddedCredentials
		}
		if u.Host == "" && u.User == nil && (u.Path == "" || u.Path == "/") {
			return fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return nil
	}

	if dsnHasKey(connStr, "password") {
		return ErrEmbeddedCredentials
	}
	return nil
}

func validateMySQL(connStr string) error {
	cfg, err := mysqlConfig(connStr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	if cfg.Passwd != "" {
		return ErrEmbeddedCredentials
	}
	if cfg.DBName == "" {
		return fmt.Errorf("%w: database name is required", ErrInvalidConnectionString)
	}
	return nil
}

// Redact hides any password in connStr for display.
func Redact(connStr string) string {
	if IsMySQL(connStr) {
		cfg, err := mysqlConfig(connStr)
		if err != nil || cfg.Passwd == "" {
			return connStr
		}
		cfg.Passwd = "xxxxx"
		return "mysql://" + cfg.FormatDSN()
	}
	if isPostgresURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return connStr
		}
		return u.Redacted()
	}
	fields := strings.Fields(connStr)
	for i, f := range fields {
		if kv := strings.SplitN(f, "=", 2); len(kv) == 2 && strings.EqualFold(kv[0], "password") {
			fields[i] = kv[0] + "=xxxxx"
		}
	}
	return strings.Join(fields, " ")
}
