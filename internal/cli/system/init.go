package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/basket/internal/cli"
	"github.com/julianstephens/basket/internal/storage"
	"github.com/julianstephens/basket/internal/storage/memstore"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing database file before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized basket storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}
	return nil
}

// reset removes a local database file. Remote databases are never dropped.
func (c *InitCmd) reset(ctx *cli.Context) error {
	path, ok := cli.SQLitePath(ctx.Store)
	if !ok {
		if js, isJSON := ctx.Store.(*memstore.Store); isJSON && js.GetConfigPath() != cli.MemoryConfig {
			path = js.GetConfigPath()
		} else {
			return fmt.Errorf("--force only applies to local database files")
		}
	}
	if c.Source != "" && samePath(path, c.Source) {
		return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
	}

	if _, err := os.Stat(path); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func samePath(a, b string) bool {
	b, err := cli.ExpandPath(b)
	if err != nil {
		return false
	}
	return cleanAbs(a) == cleanAbs(b)
}

func (c *InitCmd) copyData(ctx *cli.Context) error {
	source, err := cli.OpenStore(c.Source, "")
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	counts, err := CopyAll(source, ctx.Store)
	if err != nil {
		return err
	}
	for _, line := range counts {
		fmt.Printf("  %s\n", line)
	}
	return nil
}

// CopyAll copies settings and every entity from src into dst in one
// transaction, parents before children.
func CopyAll(src, dst storage.Provider) ([]string, error) {
	settings, err := src.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings from source: %w", err)
	}
	households, users, lists, err := loadDirectory(src)
	if err != nil {
		return nil, err
	}
	items, err := src.QueryItems(storage.ItemQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to get items from source: %w", err)
	}
	sessions, err := src.QuerySessions(storage.SessionQuery{OldestFirst: true})
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions from source: %w", err)
	}

	err = dst.WithTx(func(tx storage.Provider) error {
		if err := tx.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		for _, h := range households {
			if err := tx.AddHousehold(h); err != nil {
				return fmt.Errorf("failed to add household %s: %w", h.ID, err)
			}
		}
		for _, u := range users {
			if err := tx.AddUser(u); err != nil {
				return fmt.Errorf("failed to add user %s: %w", u.ID, err)
			}
		}
		for _, l := range lists {
			if err := tx.AddList(l); err != nil {
				return fmt.Errorf("failed to add list %s: %w", l.ID, err)
			}
		}
		for _, s := range sessions {
			if err := tx.AddSession(s); err != nil {
				return fmt.Errorf("failed to add session %s: %w", s.ID, err)
			}
		}
		for _, it := range items {
			if err := tx.AddItem(it); err != nil {
				return fmt.Errorf("failed to add item %s: %w", it.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return []string{
		fmt.Sprintf("Migrated %d households", len(households)),
		fmt.Sprintf("Migrated %d users", len(users)),
		fmt.Sprintf("Migrated %d lists", len(lists)),
		fmt.Sprintf("Migrated %d sessions", len(sessions)),
		fmt.Sprintf("Migrated %d items", len(items)),
	}, nil
}
