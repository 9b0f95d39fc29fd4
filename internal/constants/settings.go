package constants

const (
	// Setting keys
	SettingCurrencySymbol   = "currency_symbol"
	SettingTimezone         = "timezone"
	SettingMonthLocale      = "month_locale"
	SettingDefaultListColor = "default_list_color"
	SettingAutoBackup       = "auto_backup"
	SettingActiveUserID     = "active_user_id"

	// Default Settings Values
	DefaultCurrencySymbol = "R$"
	DefaultTimezone       = "Local" // Use system local timezone by default
	DefaultMonthLocale    = "pt-BR"
	DefaultListColor      = "PastelBlue"
	DefaultAutoBackup     = true
)

// ListColors are the color tags a shopping list may carry.
var ListColors = []string{
	"PastelBlue",
	"PastelGreen",
	"PastelYellow",
	"PastelRed",
	"PastelOrange",
	"PastelPurple",
	"PastelCyan",
	"PastelGray",
}
