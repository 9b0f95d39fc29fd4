package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/basket/internal/cli"
	"github.com/julianstephens/basket/internal/cli/backups"
	"github.com/julianstephens/basket/internal/cli/households"
	"github.com/julianstephens/basket/internal/cli/lists"
	"github.com/julianstephens/basket/internal/cli/sessions"
	"github.com/julianstephens/basket/internal/cli/settings"
	"github.com/julianstephens/basket/internal/cli/system"
	"github.com/julianstephens/basket/internal/constants"
	"github.com/julianstephens/basket/internal/errors"
	"github.com/julianstephens/basket/internal/logger"
)

var CLI struct {
	Version    kong.VersionFlag
	Config     string `help:"Database path, JSON file, 'memory', or keyring:<backend>. Connection strings must NOT embed passwords; use the keyring or BASKET_DB_CONNECTION." env:"BASKET_CONFIG" default:"${default_config}"`
	Connection string `help:"Database connection string; overrides --config." env:"BASKET_DB_CONNECTION" hidden:""`
	Debug      bool   `help:"Log debug output to stderr." env:"BASKET_DEBUG"`
	LogLevel   string `help:"Log file level." env:"BASKET_LOG_LEVEL" enum:"debug,info,warn,error" default:"info"`

	Init     system.InitCmd     `cmd:"" help:"Initialize basket storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check lists and sessions for inconsistencies."`
	DebugCmd system.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a database connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show a stored connection string with the password redacted."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show which backends have stored credentials."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`

	User struct {
		Add     households.UserAddCmd     `cmd:"" help:"Create a user and sign in as them."`
		List    households.UserListCmd    `cmd:"" help:"List users."`
		Use     households.UserUseCmd     `cmd:"" help:"Sign in as an existing user."`
		Signout households.UserSignOutCmd `cmd:"" help:"Sign out."`
	} `cmd:"" help:"Manage users."`
	Whoami    households.WhoAmICmd `cmd:"" help:"Show the active user and household."`
	Household struct {
		Create households.HouseholdCreateCmd `cmd:"" help:"Create a household and join it."`
		Join   households.HouseholdJoinCmd   `cmd:"" help:"Join a household with its code."`
		Show   households.HouseholdShowCmd   `cmd:"" help:"Show the household, its code and members." default:"1"`
	} `cmd:"" help:"Manage your household."`

	List struct {
		Create lists.ListCreateCmd `cmd:"" help:"Create a shopping list."`
		Ls     lists.ListListCmd   `cmd:"" help:"List shopping lists." default:"1"`
		Show   lists.ListShowCmd   `cmd:"" help:"Show a list and its items."`
		Delete lists.ListDeleteCmd `cmd:"" help:"Delete a list and its items."`
		Export lists.ListExportCmd `cmd:"" help:"Export a list as a priced text table."`
		Share  lists.ListShareCmd  `cmd:"" help:"Render a list as plain text for sharing."`
	} `cmd:"" help:"Manage shopping lists."`
	Item struct {
		Add    lists.ItemAddCmd    `cmd:"" help:"Add an item to a list."`
		Rm     lists.ItemRemoveCmd `cmd:"" help:"Remove an item from a list."`
		Toggle lists.ItemToggleCmd `cmd:"" help:"Move a pending item into the cart or back."`
	} `cmd:"" help:"Manage list items."`

	Shop    sessions.ShopCmd `cmd:"" help:"Go shopping with the interactive picker."`
	Session struct {
		Start  sessions.SessionStartCmd  `cmd:"" help:"Start a shopping session; fails if one is already open."`
		Pick   sessions.SessionPickCmd   `cmd:"" help:"Record the price of an item."`
		End    sessions.SessionEndCmd    `cmd:"" help:"Finish the active session."`
		Ls     sessions.SessionListCmd   `cmd:"" help:"List sessions." default:"1"`
		Show   sessions.SessionShowCmd   `cmd:"" help:"Show a session summary."`
		Delete sessions.SessionDeleteCmd `cmd:"" help:"Delete a session."`
	} `cmd:"" help:"Manage shopping sessions."`
	Stats   sessions.StatsCmd   `cmd:"" help:"Show spending statistics."`
	History sessions.HistoryCmd `cmd:"" help:"Show past sessions by month."`

	Settings struct {
		Show settings.SettingsShowCmd `cmd:"" help:"Show settings." default:"1"`
		Set  settings.SettingsSetCmd  `cmd:"" help:"Update settings."`
	} `cmd:"" help:"Manage application settings."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
}

func options() []kong.Option {
	return []kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Household grocery lists with a timed, priced shopping mode"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	}
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI, options()...)

	store, err := cli.OpenStore(CLI.Config, CLI.Connection)
	if err != nil {
		errors.Fatal(err)
	}

	configDir, err := cli.ExpandPath(cli.ConfigDir(store, filepath.Dir(constants.DefaultConfigPath)))
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, Level: CLI.LogLevel, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	// Init loads the store itself.
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}
	defer store.Close()

	appCtx := cli.NewContext(store)
	defer appCtx.Service.Close()

	if err := ctx.Run(appCtx); err != nil {
		appCtx.Service.Close()
		store.Close()
		errors.Fatal(err)
	}
}
