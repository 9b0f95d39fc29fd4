package models

// Settings represents application-wide settings
type Settings struct {
	CurrencySymbol   string `json:"currency_symbol"`    // prefix for amounts, e.g. "R$"
	Timezone         string `json:"timezone"`           // IANA timezone name used for month boundaries, or "Local"
	MonthLocale      string `json:"month_locale"`       // BCP 47 tag for month names, e.g. "pt-BR"
	DefaultListColor string `json:"default_list_color"` // color tag given to new lists
	AutoBackup       bool   `json:"auto_backup"`        // back up the database after each session
	ActiveUserID     string `json:"active_user_id"`     // the user operating this installation
}
