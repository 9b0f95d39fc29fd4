package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/julianstephens/basket/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingCurrencySymbol:
			settings.CurrencySymbol = value
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingMonthLocale:
			settings.MonthLocale = value
		case constants.SettingDefaultListColor:
			settings.DefaultListColor = value
		case constants.SettingAutoBackup:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing auto_backup: %w", err)
			}
			settings.AutoBackup = b
		case constants.SettingActiveUserID:
			settings.ActiveUserID = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingCurrencySymbol:   settings.CurrencySymbol,
		constants.SettingTimezone:         settings.Timezone,
		constants.SettingMonthLocale:      settings.MonthLocale,
		constants.SettingDefaultListColor: settings.DefaultListColor,
		constants.SettingAutoBackup:       strconv.FormatBool(settings.AutoBackup),
		constants.SettingActiveUserID:     settings.ActiveUserID,
	}
}

// DefaultSettings returns a fresh installation's settings.
func DefaultSettings() Settings {
	return Settings{
		CurrencySymbol:   constants.DefaultCurrencySymbol,
		Timezone:         constants.DefaultTimezone,
		MonthLocale:      constants.DefaultMonthLocale,
		DefaultListColor: constants.DefaultListColor,
		AutoBackup:       constants.DefaultAutoBackup,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.CurrencySymbol == "" {
		settings.CurrencySymbol = constants.DefaultCurrencySymbol
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.MonthLocale == "" {
		settings.MonthLocale = constants.DefaultMonthLocale
	}
	if settings.DefaultListColor == "" {
		settings.DefaultListColor = constants.DefaultListColor
	}
}

// Location resolves the configured timezone. "Local" and "" map to time.Local.
func (s Settings) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}
