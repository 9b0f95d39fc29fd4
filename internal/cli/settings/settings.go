package settings

import (
	"fmt"
	"time"

	"github.com/julianstephens/basket/internal/cli"
	"github.com/julianstephens/basket/internal/format"
	"github.com/julianstephens/basket/internal/validation"
)

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	active := "(none)"
	if id, err := ctx.Service.Identity(); err == nil {
		active = id.User.Name
	}
	now := time.Now()

	fmt.Println("Current Settings:")
	fmt.Printf("  Currency Symbol:    %s (e.g. %s)\n", settings.CurrencySymbol, ctx.Money(12.5))
	fmt.Printf("  Timezone:           %s\n", settings.Timezone)
	fmt.Printf("  Month Locale:       %s (e.g. %s)\n", settings.MonthLocale, format.MonthName(now.Year(), now.Month(), settings.MonthLocale))
	fmt.Printf("  Default List Color: %s\n", settings.DefaultListColor)
	fmt.Printf("  Auto Backup:        %v\n", settings.AutoBackup)
	fmt.Printf("  Active User:        %s\n", active)
	return nil
}

type SettingsSetCmd struct {
	CurrencySymbol   *string `help:"Prefix shown before amounts, e.g. R$."`
	Timezone         *string `help:"IANA timezone for month boundaries, or Local."`
	MonthLocale      *string `help:"Language tag for month names, e.g. pt-BR or en-US."`
	DefaultListColor *string `help:"Color tag given to new lists."`
	AutoBackup       *bool   `help:"Back up the database after each shopping trip." negatable:""`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	updated := false
	if c.CurrencySymbol != nil {
		settings.CurrencySymbol = *c.CurrencySymbol
		updated = true
	}
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		if _, err := settings.Location(); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", *c.Timezone, err)
		}
		updated = true
	}
	if c.MonthLocale != nil {
		settings.MonthLocale = *c.MonthLocale
		updated = true
	}
	if c.DefaultListColor != nil {
		color, err := validation.ValidateColor(*c.DefaultListColor)
		if err != nil {
			return err
		}
		settings.DefaultListColor = color
		updated = true
	}
	if c.AutoBackup != nil {
		settings.AutoBackup = *c.AutoBackup
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use 'basket settings show' to view settings or flags to update them.")
		return nil
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	return nil
}
