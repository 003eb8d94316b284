package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kjstillabower/deskmate/internal/config"
	"github.com/kjstillabower/deskmate/internal/expense"
	"github.com/kjstillabower/deskmate/internal/observability"
	"github.com/kjstillabower/deskmate/internal/render"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	outputFormat string
	outputFile   string
	noColor      bool
	ledgerPath   string
)

var rootCmd = &cobra.Command{
	Use:   "deskmate-expenses",
	Short: "Track personal expenses in a CSV ledger.",
	Long: `deskmate-expenses keeps spending in one CSV file
(~/.deskmate/expenses.csv by default) with columns
Date,Category,Description,Amount. The file stays readable by spreadsheets;
adds append a single row and deletes rewrite the file atomically.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json, or csv")
	rootCmd.PersistentFlags().StringVar(&outputFile, "output-file", "", "Write output to a file instead of stdout")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&ledgerPath, "file", "", "Ledger CSV path (overrides config)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}

func setup(_ *cobra.Command, _ []string) error {
	var err error
	logger, err = observability.NewLogger()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if noColor {
		render.DisableColors()
	}
	if _, err := render.ParseFormat(outputFormat); err != nil {
		return err
	}
	return nil
}

func format() render.Format {
	f, _ := render.ParseFormat(outputFormat)
	return f
}

func newLedger() *expense.Ledger {
	path := ledgerPath
	if path == "" {
		path = cfg.ExpensesPath
	}
	logger.Debug("using ledger", zap.String("path", path))
	return expense.NewLedger(path)
}
