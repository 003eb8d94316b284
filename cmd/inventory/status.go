package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kjstillabower/deskmate/internal/inventory"
	"github.com/kjstillabower/deskmate/internal/render"
)

// statusCmd is the dashboard: overall counts, low-stock items, and the
// latest movements in one screen.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show inventory counts, low stock, and recent activity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		if _, err := authenticate(cmd.Context(), store); err != nil {
			return err
		}

		counts, err := store.CountAll(cmd.Context())
		if err != nil {
			return err
		}
		lowStock, err := store.LowStockItems(cmd.Context())
		if err != nil {
			return err
		}
		recent, err := store.RecentTransactions(cmd.Context(), 5)
		if err != nil {
			return err
		}

		if format() == render.FormatJSON {
			return render.WriteOutput(outputFile, func(w io.Writer) error {
				return render.WriteJSON(w, struct {
					Counts   inventory.Counts        `json:"counts"`
					LowStock []inventory.Item        `json:"lowStock"`
					Recent   []inventory.Transaction `json:"recentTransactions"`
				}{counts, lowStock, recent})
			}, "Wrote status")
		}

		return render.WriteOutput(outputFile, func(w io.Writer) error {
			if err := render.WriteCounts(w, counts, format()); err != nil {
				return err
			}
			if len(lowStock) > 0 {
				fmt.Fprintf(w, "\n%s\n", render.Yellow("Low stock:"))
				if err := render.WriteItems(w, lowStock, format()); err != nil {
					return err
				}
			}
			if len(recent) > 0 {
				fmt.Fprintf(w, "\nRecent activity:\n")
				if err := render.WriteTransactions(w, recent, format()); err != nil {
					return err
				}
			}
			return nil
		}, "Wrote status")
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Inventory reports",
}

var reportValueCmd = &cobra.Command{
	Use:   "value",
	Short: "Stock value per location",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		if _, err := authenticate(cmd.Context(), store); err != nil {
			return err
		}

		values, err := store.ValueByLocation(cmd.Context())
		if err != nil {
			return err
		}
		return render.WriteOutput(outputFile, func(w io.Writer) error {
			return render.WriteLocationValues(w, values, format())
		}, "Wrote value report")
	},
}

var reportLowStockCmd = &cobra.Command{
	Use:   "low-stock",
	Short: "Items at or below their minimum quantity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		if _, err := authenticate(cmd.Context(), store); err != nil {
			return err
		}

		items, err := store.LowStockItems(cmd.Context())
		if err != nil {
			return err
		}
		if len(items) == 0 && format() == render.FormatTable {
			fmt.Println("No items are low on stock.")
			return nil
		}
		return render.WriteOutput(outputFile, func(w io.Writer) error {
			return render.WriteItems(w, items, format())
		}, "Wrote low-stock report")
	},
}

func init() {
	reportCmd.AddCommand(reportValueCmd)
	reportCmd.AddCommand(reportLowStockCmd)
}
