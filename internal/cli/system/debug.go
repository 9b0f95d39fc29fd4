package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/basket/internal/cli"
	"github.com/julianstephens/basket/internal/logger"
	"github.com/julianstephens/basket/internal/storage"
	"github.com/julianstephens/basket/internal/storage/sqlstore"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpList     *DebugDumpListCmd     `cmd:"" help:"Dump a list and its items as JSON."`
	DumpSession  *DebugDumpSessionCmd  `cmd:"" help:"Dump a session and its items as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings as JSON."`
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{
		"path": sqlstore.Redact(ctx.Store.GetConfigPath()),
		"log":  logger.File(),
	})
}

type DebugDumpListCmd struct {
	ID string `arg:"" help:"List ID."`
}

func (cmd *DebugDumpListCmd) Run(ctx *cli.Context) error {
	list, err := ctx.Store.GetList(cmd.ID)
	if err != nil {
		return fmt.Errorf("failed to get list %s: %w", cmd.ID, err)
	}
	items, err := ctx.Store.QueryItems(storage.ItemQuery{ListID: cmd.ID})
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	return printJSON(map[string]any{
		"list":  list,
		"items": items,
	})
}

type DebugDumpSessionCmd struct {
	ID string `arg:"" help:"Session ID."`
}

func (cmd *DebugDumpSessionCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Store.GetSession(cmd.ID)
	if err != nil {
		return fmt.Errorf("failed to get session %s: %w", cmd.ID, err)
	}
	items, err := ctx.Store.QueryItems(storage.ItemQuery{SessionID: cmd.ID})
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	return printJSON(map[string]any{
		"session": session,
		"items":   items,
	})
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	return printJSON(settings)
}
