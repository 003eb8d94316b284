package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// deleteCmd removes one row by the number list prints.
var deleteCmd = &cobra.Command{
	Use:   "delete N",
	Short: "Delete an expense by its list number",
	Long: `Remove the numbered expense (run list first to see numbers) and
rewrite the ledger atomically, so a crash mid-delete never corrupts it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("expense number must be an integer, got %q", args[0])
		}
		if err := newLedger().Delete(n); err != nil {
			return err
		}
		fmt.Printf("Deleted expense %d\n", n)
		return nil
	},
}
