package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/basket/internal/cli"
	"github.com/julianstephens/basket/internal/keyring"
	"github.com/julianstephens/basket/internal/storage/sqlstore"
)

var backends = []string{"postgres", "mysql"}

func checkBackend(backend string) error {
	for _, b := range backends {
		if backend == b {
			return nil
		}
	}
	return fmt.Errorf("unknown backend %q (expected %s)", backend, strings.Join(backends, " or "))
}

// KeyringSetCmd stores a database connection string in the OS keyring
type KeyringSetCmd struct {
	Backend          string `arg:"" enum:"postgres,mysql" help:"Database backend: postgres or mysql"`
	ConnectionString string `arg:"" help:"Connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	switch cmd.Backend {
	case "postgres":
		if !sqlstore.IsPostgres(cmd.ConnectionString) && !strings.Contains(cmd.ConnectionString, "host=") {
			return errors.New("connection string must be a valid PostgreSQL connection string")
		}
	case "mysql":
		if !sqlstore.IsMySQL(cmd.ConnectionString) {
			return errors.New("connection string must start with mysql://")
		}
	default:
		return checkBackend(cmd.Backend)
	}

	if err := sqlstore.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, sqlstore.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// The keyring is encrypted, so a password is acceptable here
		fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
		fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.Backend, cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Printf("✓ %s connection string stored in OS keyring\n", cmd.Backend)
	fmt.Printf("  Use it with --config %s%s\n", cli.KeyringPrefix, cmd.Backend)
	return nil
}

// KeyringGetCmd shows a stored connection string with its password masked
type KeyringGetCmd struct {
	Backend string `arg:"" enum:"postgres,mysql" help:"Database backend: postgres or mysql"`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString(cmd.Backend)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s connection string found in keyring. Use 'basket keyring set %s' to store one", cmd.Backend, cmd.Backend)
		}
		return fmt.Errorf("failed to retrieve connection string from keyring: %w", err)
	}

	fmt.Println("Connection string retrieved from keyring:")
	fmt.Println(sqlstore.Redact(connStr))
	return nil
}

type KeyringDeleteCmd struct {
	Backend string `arg:"" enum:"postgres,mysql" help:"Database backend: postgres or mysql"`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(cmd.Backend); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s connection string found in keyring", cmd.Backend)
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	fmt.Printf("✓ %s connection string deleted from OS keyring\n", cmd.Backend)
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}

	fmt.Println("✓ OS keyring is available")
	for _, backend := range backends {
		_, err := keyring.GetConnectionString(backend)
		switch {
		case err == nil:
			fmt.Printf("✓ %s connection string is stored\n", backend)
		case errors.Is(err, keyring.ErrNotFound):
			fmt.Printf("ℹ No %s connection string stored\n", backend)
		default:
			fmt.Printf("⚠ %s: %v\n", backend, err)
		}
	}
	return nil
}
