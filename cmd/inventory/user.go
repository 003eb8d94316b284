package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kjstillabower/deskmate/internal/inventory"
	"github.com/kjstillabower/deskmate/internal/render"
)

// userCmd groups account administration. Every subcommand authenticates and
// the store enforces that only admins get through.
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userAddRole string

var userAddCmd = &cobra.Command{
	Use:   "add USERNAME",
	Short: "Create an account",
	Long: `Create an account with the given role. The new password is prompted
twice and never echoed.

Examples:
  deskmate-inventory --user admin user add alice --role manager
  deskmate-inventory --user admin user add bob`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := inventory.ParseRole(userAddRole)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		actor, err := authenticate(cmd.Context(), store)
		if err != nil {
			return err
		}

		password, err := promptPassword(fmt.Sprintf("Password for %s (min 8 characters): ", args[0]))
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

		user, err := store.CreateUser(cmd.Context(), actor, args[0], password, role)
		if err != nil {
			return err
		}
		fmt.Printf("Created %s account %q.\n", user.Role, user.Username)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		actor, err := authenticate(cmd.Context(), store)
		if err != nil {
			return err
		}

		users, err := store.ListUsers(cmd.Context(), actor)
		if err != nil {
			return err
		}
		return render.WriteOutput(outputFile, func(w io.Writer) error {
			return render.WriteUsers(w, users, format())
		}, "Wrote accounts")
	},
}

var userRoleCmd = &cobra.Command{
	Use:   "role USERNAME ROLE",
	Short: "Change an account's role",
	Long: `Change an account's role to admin, manager, or viewer. The last
remaining admin cannot be demoted.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := inventory.ParseRole(args[1])
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		actor, err := authenticate(cmd.Context(), store)
		if err != nil {
			return err
		}

		if err := store.SetUserRole(cmd.Context(), actor, args[0], role); err != nil {
			return err
		}
		fmt.Printf("Set role of %q to %s.\n", args[0], role)
		return nil
	},
}

var userRemoveCmd = &cobra.Command{
	Use:   "rm USERNAME",
	Short: "Delete an account",
	Long: `Delete an account. Accounts that recorded transactions cannot be
deleted, and neither can the last remaining admin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		actor, err := authenticate(cmd.Context(), store)
		if err != nil {
			return err
		}

		if err := store.DeleteUser(cmd.Context(), actor, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted account %q.\n", args[0])
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVar(&userAddRole, "role", string(inventory.RoleViewer), "Role for the new account (admin, manager, viewer)")
	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userRoleCmd)
	userCmd.AddCommand(userRemoveCmd)
}
