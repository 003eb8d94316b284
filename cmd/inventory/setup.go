package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// setupCmd migrates the schema and creates the first admin.
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Initialize the database and create the first admin",
	Long: `Run the schema migrations and create the first admin account. The
admin username and password are prompted; the password is never echoed.
Setup refuses to run once any user exists.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		from, to, err := store.Migrate(-1)
		if err != nil {
			return err
		}
		if from == to {
			fmt.Println("Schema already up to date.")
		} else {
			fmt.Printf("Migrated schema from version %d to %d.\n", from, to)
		}

		fmt.Fprint(os.Stderr, "Admin username [admin]: ")
		reader := bufio.NewReader(os.Stdin)
		username, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read username: %w", err)
		}
		username = strings.TrimSpace(username)
		if username == "" {
			username = "admin"
		}

		password, err := promptPassword("Admin password (min 8 characters): ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}

		admin, err := store.Bootstrap(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		fmt.Printf("Created admin account %q. You are ready to go:\n", admin.Username)
		fmt.Printf("  deskmate-inventory --user %s status\n", admin.Username)
		return nil
	},
}

var migrateTarget int

// migrateCmd moves the schema to a target version.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations",
	Long: `Bring the database schema to the target version. The default -1 means
latest; 0 rolls every migration back and deletes all data.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		from, to, err := store.Migrate(migrateTarget)
		if err != nil {
			return err
		}
		if from == to {
			fmt.Printf("No migration needed. Schema is at version %d.\n", to)
			return nil
		}
		fmt.Printf("Migrated schema from version %d to %d.\n", from, to)
		return nil
	},
}

func init() {
	migrateCmd.Flags().IntVar(&migrateTarget, "target-version", -1, "Target version (-1 latest, 0 rollback everything)")
}
