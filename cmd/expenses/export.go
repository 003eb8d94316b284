package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// exportCmd writes the plain-text expense report.
var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export a readable expense report",
	Long: `Write every expense to a plain-text report with a grand total,
for printing or sharing outside spreadsheets.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		path := "expense_report.txt"
		if len(args) > 0 {
			path = args[0]
		}
		count, err := newLedger().ExportText(path)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d expenses to %s\n", count, path)
		return nil
	},
}
