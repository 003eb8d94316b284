package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kjstillabower/deskmate/internal/inventory"
	"github.com/kjstillabower/deskmate/internal/render"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage inventory items",
}

// itemFlags holds the add/update flag values. Categories and locations are
// given by name and resolved to ids before the write.
type itemFlags struct {
	name        string
	description string
	category    string
	location    string
	quantity    int
	minQuantity int
	price       float64
	serial      string
	purchased   string
}

var addFlags itemFlags

var itemAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add an item",
	Long: `Add an item to the inventory. The category and location must already
exist; create them with the category and location commands first.

Examples:
  deskmate-inventory --user admin item add "Dell Monitor" --category Electronics --location "Main Office" --quantity 12 --price 219.99
  deskmate-inventory --user admin item add Stapler --category Supplies --location Warehouse`,
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

		category, err := store.GetCategory(cmd.Context(), addFlags.category)
		if err != nil {
			return err
		}
		location, err := store.GetLocation(cmd.Context(), addFlags.location)
		if err != nil {
			return err
		}

		item, err := store.CreateItem(cmd.Context(), actor, inventory.Item{
			Name:         args[0],
			Description:  addFlags.description,
			CategoryID:   category.ID,
			LocationID:   location.ID,
			Quantity:     addFlags.quantity,
			MinQuantity:  addFlags.minQuantity,
			Price:        addFlags.price,
			SerialNumber: addFlags.serial,
			PurchaseDate: addFlags.purchased,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added item %q with id %d.\n", item.Name, item.ID)
		return nil
	},
}

var (
	listSearch   string
	listCategory string
	listLocation string
	listLowStock bool
)

var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items",
	Long: `List inventory items, optionally filtered. Low-stock quantities are
highlighted in the table output.

Examples:
  deskmate-inventory --user alice item list
  deskmate-inventory --user alice item list --search monitor --low
  deskmate-inventory --user alice item list --category Electronics -o csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		if _, err := authenticate(cmd.Context(), store); err != nil {
			return err
		}

		filter := inventory.ItemFilter{Search: listSearch, LowStock: listLowStock}
		if listCategory != "" {
			category, err := store.GetCategory(cmd.Context(), listCategory)
			if err != nil {
				return err
			}
			filter.CategoryID = category.ID
		}
		if listLocation != "" {
			location, err := store.GetLocation(cmd.Context(), listLocation)
			if err != nil {
				return err
			}
			filter.LocationID = location.ID
		}

		items, err := store.ListItems(cmd.Context(), filter)
		if err != nil {
			return err
		}
		return render.WriteOutput(outputFile, func(w io.Writer) error {
			return render.WriteItems(w, items, format())
		}, "Wrote items")
	},
}

var itemShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one item in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		if _, err := authenticate(cmd.Context(), store); err != nil {
			return err
		}

		item, err := store.GetItem(cmd.Context(), id)
		if err != nil {
			return err
		}
		return render.WriteOutput(outputFile, func(w io.Writer) error {
			return render.WriteItemDetail(w, item, format())
		}, "Wrote item")
	},
}

var updateFlags itemFlags

var itemUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update an item",
	Long: `Update an item. Only the flags you pass change; everything else keeps
its current value.

Examples:
  deskmate-inventory --user admin item update 3 --price 189.99
  deskmate-inventory --user admin item update 3 --location Warehouse --min 10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
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

		item, err := store.GetItem(cmd.Context(), id)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("name") {
			item.Name = updateFlags.name
		}
		if flags.Changed("description") {
			item.Description = updateFlags.description
		}
		if flags.Changed("category") {
			category, err := store.GetCategory(cmd.Context(), updateFlags.category)
			if err != nil {
				return err
			}
			item.CategoryID = category.ID
		}
		if flags.Changed("location") {
			location, err := store.GetLocation(cmd.Context(), updateFlags.location)
			if err != nil {
				return err
			}
			item.LocationID = location.ID
		}
		if flags.Changed("quantity") {
			item.Quantity = updateFlags.quantity
		}
		if flags.Changed("min") {
			item.MinQuantity = updateFlags.minQuantity
		}
		if flags.Changed("price") {
			item.Price = updateFlags.price
		}
		if flags.Changed("serial") {
			item.SerialNumber = updateFlags.serial
		}
		if flags.Changed("purchased") {
			item.PurchaseDate = updateFlags.purchased
		}

		updated, err := store.UpdateItem(cmd.Context(), actor, item)
		if err != nil {
			return err
		}
		fmt.Printf("Updated item %q.\n", updated.Name)
		return nil
	},
}

var itemRemoveCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete an item and its transaction history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
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

		if err := store.DeleteItem(cmd.Context(), actor, id); err != nil {
			return err
		}
		fmt.Printf("Deleted item %d.\n", id)
		return nil
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func init() {
	itemAddCmd.Flags().StringVar(&addFlags.description, "description", "", "Optional description")
	itemAddCmd.Flags().StringVar(&addFlags.category, "category", "", "Category name (required)")
	itemAddCmd.Flags().StringVar(&addFlags.location, "location", "", "Location name (required)")
	itemAddCmd.Flags().IntVar(&addFlags.quantity, "quantity", 0, "Starting stock")
	itemAddCmd.Flags().IntVar(&addFlags.minQuantity, "min", 5, "Low-stock threshold")
	itemAddCmd.Flags().Float64Var(&addFlags.price, "price", 0, "Unit price")
	itemAddCmd.Flags().StringVar(&addFlags.serial, "serial", "", "Serial number")
	itemAddCmd.Flags().StringVar(&addFlags.purchased, "purchased", "", "Purchase date (YYYY-MM-DD)")
	_ = itemAddCmd.MarkFlagRequired("category")
	_ = itemAddCmd.MarkFlagRequired("location")

	itemListCmd.Flags().StringVar(&listSearch, "search", "", "Match name or description")
	itemListCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category name")
	itemListCmd.Flags().StringVar(&listLocation, "location", "", "Filter by location name")
	itemListCmd.Flags().BoolVar(&listLowStock, "low", false, "Only items at or below their minimum quantity")

	itemUpdateCmd.Flags().StringVar(&updateFlags.name, "name", "", "New name")
	itemUpdateCmd.Flags().StringVar(&updateFlags.description, "description", "", "New description")
	itemUpdateCmd.Flags().StringVar(&updateFlags.category, "category", "", "New category name")
	itemUpdateCmd.Flags().StringVar(&updateFlags.location, "location", "", "New location name")
	itemUpdateCmd.Flags().IntVar(&updateFlags.quantity, "quantity", 0, "New stock count")
	itemUpdateCmd.Flags().IntVar(&updateFlags.minQuantity, "min", 0, "New low-stock threshold")
	itemUpdateCmd.Flags().Float64Var(&updateFlags.price, "price", 0, "New unit price")
	itemUpdateCmd.Flags().StringVar(&updateFlags.serial, "serial", "", "New serial number")
	itemUpdateCmd.Flags().StringVar(&updateFlags.purchased, "purchased", "", "New purchase date (YYYY-MM-DD)")

	itemCmd.AddCommand(itemAddCmd)
	itemCmd.AddCommand(itemListCmd)
	itemCmd.AddCommand(itemShowCmd)
	itemCmd.AddCommand(itemUpdateCmd)
	itemCmd.AddCommand(itemRemoveCmd)
}
