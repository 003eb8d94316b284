package main

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kjstillabower/deskmate/internal/render"
)

// reportCmd aggregates one month of spending.
var reportCmd = &cobra.Command{
	Use:   "report [month]",
	Short: "Show a monthly spending report",
	Long: `Total one calendar month's spending with a per-category breakdown.
The month is YYYY-MM and defaults to the current month.

Examples:
  deskmate-expenses report
  deskmate-expenses report 2026-07`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		month := time.Now().Format("2006-01")
		if len(args) > 0 {
			month = args[0]
		}

		report, err := newLedger().Monthly(month)
		if err != nil {
			return err
		}
		return render.WriteOutput(outputFile, func(w io.Writer) error {
			return render.WriteMonthlyReport(w, report, format())
		}, "Wrote report")
	},
}

// summaryCmd totals every category across the whole ledger.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show per-category totals for the whole ledger",
	RunE: func(_ *cobra.Command, _ []string) error {
		summary, err := newLedger().CategorySummary()
		if err != nil {
			return err
		}
		return render.WriteOutput(outputFile, func(w io.Writer) error {
			return render.WriteCategorySummary(w, summary, format())
		}, "Wrote summary")
	},
}
