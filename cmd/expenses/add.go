package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kjstillabower/deskmate/internal/expense"
	"github.com/kjstillabower/deskmate/internal/validation"
)

var (
	addDate        string
	addCategory    string
	addDescription string
	addAmount      string
)

// addCmd appends one expense row to the ledger.
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense",
	Long: `Append one expense to the ledger. The date defaults to today and the
category is capitalized so "food" and "FOOD" total together.

Examples:
  deskmate-expenses add -c food -m "lunch with team" -a 24.50
  deskmate-expenses add --date 2026-08-01 -c transport -m "monthly pass" -a 90`,
	RunE: func(_ *cobra.Command, _ []string) error {
		date := addDate
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		amount, err := validation.ValidateAmount(addAmount)
		if err != nil {
			return err
		}

		e := expense.Expense{
			Date:        date,
			Category:    addCategory,
			Description: addDescription,
			Amount:      amount,
		}
		if err := newLedger().Add(e); err != nil {
			return err
		}
		fmt.Printf("Recorded $%.2f for %s on %s\n", amount, addCategory, date)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addDate, "date", "", "Expense date as YYYY-MM-DD (default today)")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "Expense category")
	addCmd.Flags().StringVarP(&addDescription, "description", "m", "", "What the money went to")
	addCmd.Flags().StringVarP(&addAmount, "amount", "a", "", "Amount spent, must be positive")
	_ = addCmd.MarkFlagRequired("category")
	_ = addCmd.MarkFlagRequired("description")
	_ = addCmd.MarkFlagRequired("amount")
}
