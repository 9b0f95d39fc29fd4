package system

import (
	"fmt"

	"github.com/julianstephens/basket/internal/cli"
	"github.com/julianstephens/basket/internal/storage/sqlstore"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	store, ok := ctx.Store.(*sqlstore.Store)
	if !ok {
		return fmt.Errorf("migrate command only supports SQL databases")
	}
	defer store.Close()

	count, err := store.Migrate(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
