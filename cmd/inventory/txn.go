package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kjstillabower/deskmate/internal/inventory"
	"github.com/kjstillabower/deskmate/internal/render"
)

var txnCmd = &cobra.Command{
	Use:   "txn",
	Short: "Record and review stock movements",
}

var txnNotes string

var txnRecordCmd = &cobra.Command{
	Use:   "record ITEM_ID TYPE QUANTITY",
	Short: "Record a stock movement",
	Long: `Record a stock movement against an item. Check-outs and transfers
remove stock, returns and adjustments add it. A movement that would
leave negative stock is rejected.

Types: check-out, return, transfer, adjust

Examples:
  deskmate-inventory --user alice txn record 3 check-out 2 --notes "loaned to QA"
  deskmate-inventory --user alice txn record 3 return 2`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := parseID(args[0])
		if err != nil {
			return err
		}
		txnType, err := inventory.ParseTransactionType(args[1])
		if err != nil {
			return err
		}
		quantity, err := parseQuantity(args[2])
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

		txn, err := store.RecordTransaction(cmd.Context(), actor, inventory.Transaction{
			ItemID:   itemID,
			Type:     txnType,
			Quantity: quantity,
			Notes:    txnNotes,
		})
		if err != nil {
			return err
		}

		item, err := store.GetItem(cmd.Context(), itemID)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded %s of %d x %s. Stock is now %d.\n",
			txn.Type, txn.Quantity, item.Name, item.Quantity)
		if item.LowStock() {
			fmt.Printf("%s %s is at or below its minimum quantity (%d).\n",
				render.Yellow("Low stock:"), item.Name, item.MinQuantity)
		}
		return nil
	},
}

var (
	txnItemID int64
	txnLimit  int
)

var txnListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stock movements, newest first",
	Long: `List stock movements, newest first. With --item only that item's
history is shown; otherwise the most recent movements across the whole
inventory.

Examples:
  deskmate-inventory --user alice txn list
  deskmate-inventory --user alice txn list --item 3
  deskmate-inventory --user alice txn list --limit 50 -o csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		if _, err := authenticate(cmd.Context(), store); err != nil {
			return err
		}

		var txns []inventory.Transaction
		if txnItemID > 0 {
			txns, err = store.ItemTransactions(cmd.Context(), txnItemID)
		} else {
			txns, err = store.RecentTransactions(cmd.Context(), txnLimit)
		}
		if err != nil {
			return err
		}
		return render.WriteOutput(outputFile, func(w io.Writer) error {
			return render.WriteTransactions(w, txns, format())
		}, "Wrote transactions")
	},
}

func parseQuantity(s string) (int, error) {
	quantity, err := strconv.Atoi(s)
	if err != nil || quantity <= 0 {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return quantity, nil
}

func init() {
	txnRecordCmd.Flags().StringVar(&txnNotes, "notes", "", "Optional note on the movement")
	txnListCmd.Flags().Int64Var(&txnItemID, "item", 0, "Only movements for this item id")
	txnListCmd.Flags().IntVar(&txnLimit, "limit", 10, "Maximum movements to show")

	txnCmd.AddCommand(txnRecordCmd)
	txnCmd.AddCommand(txnListCmd)
}
