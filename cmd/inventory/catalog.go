package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kjstillabower/deskmate/internal/inventory"
	"github.com/kjstillabower/deskmate/internal/render"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage item categories",
}

var categoryAddDescription string

var categoryAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
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

		category, err := store.CreateCategory(cmd.Context(), actor, inventory.Category{
			Name:        args[0],
			Description: categoryAddDescription,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created category %q.\n", category.Name)
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		if _, err := authenticate(cmd.Context(), store); err != nil {
			return err
		}

		categories, err := store.ListCategories(cmd.Context())
		if err != nil {
			return err
		}
		return render.WriteOutput(outputFile, func(w io.Writer) error {
			return render.WriteCategories(w, categories, format())
		}, "Wrote categories")
	},
}

var locationCmd = &cobra.Command{
	Use:   "location",
	Short: "Manage storage locations",
}

var locationAddAddress string

var locationAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a location",
	Args:  cobra.ExactArgs(1),
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

		location, err := store.CreateLocation(cmd.Context(), actor, inventory.Location{
			Name:    args[0],
			Address: locationAddAddress,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created location %q.\n", location.Name)
		return nil
	},
}

var locationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List locations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		if _, err := authenticate(cmd.Context(), store); err != nil {
			return err
		}

		locations, err := store.ListLocations(cmd.Context())
		if err != nil {
			return err
		}
		return render.WriteOutput(outputFile, func(w io.Writer) error {
			return render.WriteLocations(w, locations, format())
		}, "Wrote locations")
	},
}

func init() {
	categoryAddCmd.Flags().StringVar(&categoryAddDescription, "description", "", "Optional description")
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryListCmd)

	locationAddCmd.Flags().StringVar(&locationAddAddress, "address", "", "Optional address")
	locationCmd.AddCommand(locationAddCmd)
	locationCmd.AddCommand(locationListCmd)
}
