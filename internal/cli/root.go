package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/basket/internal/backup"
	apperrors "github.com/julianstephens/basket/internal/errors"
	"github.com/julianstephens/basket/internal/format"
	"github.com/julianstephens/basket/internal/logger"
	"github.com/julianstephens/basket/internal/models"
	"github.com/julianstephens/basket/internal/service"
	"github.com/julianstephens/basket/internal/storage"
)

type Context struct {
	Store   storage.Provider
	Service *service.Service

	// In is where confirmation prompts read from.
	In io.Reader
}

// NewContext wires a Service over store with automatic backups after each
// ended session.
func NewContext(store storage.Provider) *Context {
	c := &Context{Store: store, In: os.Stdin}
	c.Service = service.New(store, service.WithAutoBackup(c.PerformAutomaticBackup))
	return c
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	path, ok := SQLitePath(c.Store)
	if !ok {
		logger.Debug("Skipping automatic backup for non-SQLite store", "config", c.Store.GetConfigPath())
		return
	}
	mgr := backup.NewManager(path)
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Identity resolves the active user, with a hint when there is none.
func (c *Context) Identity() (*service.Identity, error) {
	id, err := c.Service.Identity()
	if errors.Is(err, service.ErrNoActiveUser) {
		return nil, apperrors.WithHint(err, "create a user with 'basket user add <name>' or pick one with 'basket user use <name>'")
	}
	return id, err
}

// Household resolves the active user and requires a household.
func (c *Context) Household() (*service.Identity, error) {
	id, err := c.Identity()
	if err != nil {
		return nil, err
	}
	if id.Household == nil {
		return nil, apperrors.WithHint(service.ErrNoHousehold, "run 'basket household create <name>' or 'basket household join <code>'")
	}
	return id, nil
}

func (c *Context) Settings() (models.Settings, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// Money formats amount with the configured currency symbol.
func (c *Context) Money(amount float64) string {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return format.Currency("", amount)
	}
	return format.Currency(settings.CurrencySymbol, amount)
}

// Confirm asks a yes/no question on stdout and reads the answer from c.In.
// Anything but "y" or "yes" is a no.
func (c *Context) Confirm(prompt string) (bool, error) {
	fmt.Printf("%s [y/N]: ", prompt)
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
