package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/kjstillabower/deskmate/internal/config"
	"github.com/kjstillabower/deskmate/internal/inventory"
	"github.com/kjstillabower/deskmate/internal/observability"
	"github.com/kjstillabower/deskmate/internal/render"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	outputFormat string
	outputFile   string
	noColor      bool
	backendFlag  string
	dsnFlag      string
	userFlag     string
)

var rootCmd = &cobra.Command{
	Use:   "deskmate-inventory",
	Short: "Track inventory items, locations, and stock movements.",
	Long: `deskmate-inventory keeps items, categories, storage locations, and a
transaction ledger in a SQL database. SQLite is the default and needs no
setup; point --backend/--dsn (or the config file) at MySQL or PostgreSQL for
shared use.

Every command except setup, migrate, and version authenticates the acting
user. Pass --user or set DESKMATE_INVENTORY_USER; the password is read from
DESKMATE_INVENTORY_PASSWORD or prompted. Viewers can read everything,
managers can also change items and record movements, admins can additionally
manage the catalog and user accounts.

First run:
  deskmate-inventory setup`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json, or csv")
	rootCmd.PersistentFlags().StringVar(&outputFile, "output-file", "", "Write output to a file instead of stdout")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Database backend: sqlite, mysql, or postgres (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "dsn", "", "Database connection string (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Acting username (or DESKMATE_INVENTORY_USER)")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(locationCmd)
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(txnCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
}

func setup(_ *cobra.Command, _ []string) error {
	var err error
	logger, err = observability.NewLogger()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if noColor {
		render.DisableColors()
	}
	if _, err := render.ParseFormat(outputFormat); err != nil {
		return err
	}
	return nil
}

func format() render.Format {
	f, _ := render.ParseFormat(outputFormat)
	return f
}

// openStore connects to the configured database. The caller closes it.
func openStore() (*inventory.Store, error) {
	name := backendFlag
	if name == "" {
		name = cfg.InventoryBackend
	}
	backend, err := inventory.ParseBackend(name)
	if err != nil {
		return nil, err
	}
	dsn := dsnFlag
	if dsn == "" {
		dsn = cfg.InventoryConnStr
	}

	store, err := inventory.Open(backend, dsn)
	if err != nil {
		return nil, err
	}
	logger.Debug("inventory store opened", zap.String("backend", string(backend)))
	return store, nil
}

func closeStore(store *inventory.Store) {
	if err := store.Close(); err != nil {
		logger.Warn("close inventory store", zap.Error(err))
	}
}

// authenticate resolves the acting user and verifies their password. The
// password comes from DESKMATE_INVENTORY_PASSWORD or a hidden prompt.
func authenticate(ctx context.Context, store *inventory.Store) (inventory.User, error) {
	username := userFlag
	if username == "" {
		username = os.Getenv("DESKMATE_INVENTORY_USER")
	}
	if username == "" {
		return inventory.User{}, fmt.Errorf("no acting user: pass --user or set DESKMATE_INVENTORY_USER")
	}

	password := os.Getenv("DESKMATE_INVENTORY_PASSWORD")
	if password == "" {
		var err error
		password, err = promptPassword(fmt.Sprintf("Password for %s: ", username))
		if err != nil {
			return inventory.User{}, err
		}
	}

	user, err := store.Authenticate(ctx, username, password)
	if err != nil {
		return inventory.User{}, err
	}
	logger.Debug("authenticated", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	return user, nil
}

// promptPassword reads a password without echoing it. Prompts go to stderr
// so piped stdout stays clean.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(password)), nil
}
