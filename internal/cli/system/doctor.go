package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/basket/internal/backup"
	"github.com/julianstephens/basket/internal/cli"
	"github.com/julianstephens/basket/internal/storage/sqlstore"
)

type DoctorCmd struct{}

type check struct {
	name     string
	fn       func(*cli.Context) error
	needsDB  bool
	warnOnly bool
}

var checks = []check{
	{name: "Schema version", fn: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", fn: checkMigrationsComplete, needsDB: true},
	{name: "Backups present", fn: checkBackupsPresent, warnOnly: true},
	{name: "Data validation", fn: checkValidation, needsDB: true},
	{name: "Settings", fn: checkSettings, needsDB: true},
	{name: "Clock/timezone", fn: func(*cli.Context) error { return checkClock(time.Now()) }},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.fn(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if store, ok := ctx.Store.(*sqlstore.Store); ok {
		db := store.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	store, ok := ctx.Store.(*sqlstore.Store)
	if !ok {
		// File and memory stores have no schema
		return nil
	}
	current, latest, err := store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	store, ok := ctx.Store.(*sqlstore.Store)
	if !ok {
		return nil
	}
	current, latest, err := store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path, ok := cli.SQLitePath(ctx.Store)
	if !ok {
		return fmt.Errorf("backups are only managed for SQLite databases")
	}
	backups, err := backup.NewManager(path).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'basket backup create'")
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	result, err := validateStore(ctx)
	if err != nil {
		return err
	}
	if result.HasConflicts() {
		return fmt.Errorf("found %d conflict(s); run 'basket validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	if _, err := settings.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	if settings.ActiveUserID != "" {
		if _, err := ctx.Store.GetUser(settings.ActiveUserID); err != nil {
			return fmt.Errorf("active user %s cannot be loaded: %w", settings.ActiveUserID, err)
		}
	}
	return nil
}

func checkClock(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
