package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/kjstillabower/deskmate/internal/expense"
	"github.com/kjstillabower/deskmate/internal/render"
)

var (
	listCategory string
	listDate     string
)

// listCmd shows ledger rows, optionally filtered.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses",
	Long: `List every expense, or narrow by category or date. The printed row
numbers are what delete takes.

Examples:
  deskmate-expenses list
  deskmate-expenses list --category food
  deskmate-expenses list --date 2026-08-25 -o json`,
	RunE: func(_ *cobra.Command, _ []string) error {
		ledger := newLedger()

		var (
			expenses []expense.Expense
			err      error
		)
		switch {
		case listCategory != "":
			expenses, err = ledger.ByCategory(listCategory)
		case listDate != "":
			expenses, err = ledger.ByDate(listDate)
		default:
			expenses, err = ledger.List()
		}
		if err != nil {
			return err
		}

		return render.WriteOutput(outputFile, func(w io.Writer) error {
			return render.WriteExpenses(w, expenses, format())
		}, "Wrote expenses")
	},
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "Only this category (case-insensitive)")
	listCmd.Flags().StringVar(&listDate, "date", "", "Only this date (YYYY-MM-DD)")
	listCmd.MarkFlagsMutuallyExclusive("category", "date")
}
