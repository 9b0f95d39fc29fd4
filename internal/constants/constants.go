package constants

import "time"

const (
	AppName            = "basket"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/basket/basket.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DateTimeFormat is used when listing sessions
	DateTimeFormat = "2006-01-02 15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "basket-"
	BackupFileSuffix = ".db"

	// Item constraints
	MinQuantity = 1
	MaxQuantity = 100

	// Household join codes are the first characters of a UUID, upper-cased
	JoinCodeLength = 6

	DefaultListName = "Minha Lista"

	// Session clock resolution
	ClockInterval = time.Second
)
