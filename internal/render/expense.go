package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/kjstillabower/deskmate/internal/expense"
)

// WriteExpenses renders a list of expenses with a total line.
func WriteExpenses(w io.Writer, expenses []expense.Expense, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, expenses)
	case FormatCSV:
		return WriteCSV(w, []string{"Date", "Category", "Description", "Amount"},
			func(cw *csv.Writer) error {
				for _, e := range expenses {
					if err := cw.Write([]string{e.Date, e.Category, e.Description, formatAmount(e.Amount)}); err != nil {
						return err
					}
				}
				return nil
			})
	default:
		return writeExpensesTable(w, expenses)
	}
}

func writeExpensesTable(w io.Writer, expenses []expense.Expense) error {
	if len(expenses) == 0 {
		fmt.Fprintln(w, "No expenses recorded.")
		return nil
	}
	table := NewTable(w, []string{"#", "Date", "Category", "Description", "Amount"})
	descWidth := freeTextWidth(46) // #, Date, Category, Amount plus borders
	var total float64
	var rows [][]string
	for i, e := range expenses {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Date,
			e.Category,
			truncate(e.Description, descWidth),
			fmt.Sprintf("$%.2f", e.Amount),
		})
		total += e.Amount
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Total: %s across %d expenses\n", Cyan(fmt.Sprintf("$%.2f", total)), len(expenses))
	return nil
}

// WriteMonthlyReport renders one month's aggregation.
func WriteMonthlyReport(w io.Writer, report expense.MonthlyReport, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, report)
	case FormatCSV:
		return WriteCSV(w, []string{"Category", "Total"},
			func(cw *csv.Writer) error {
				for _, cat := range expense.SortedCategories(report.ByCategory) {
					if err := cw.Write([]string{cat, formatAmount(report.ByCategory[cat])}); err != nil {
						return err
					}
				}
				return nil
			})
	default:
		return writeMonthlyReportTable(w, report)
	}
}

func writeMonthlyReportTable(w io.Writer, report expense.MonthlyReport) error {
	if report.Count == 0 {
		fmt.Fprintf(w, "No expenses recorded for %s.\n", report.Month)
		return nil
	}
	fmt.Fprintf(w, "Expenses for %s\n", report.Month)
	table := NewTable(w, []string{"Category", "Total"})
	var rows [][]string
	for _, cat := range expense.SortedCategories(report.ByCategory) {
		rows = append(rows, []string{cat, fmt.Sprintf("$%.2f", report.ByCategory[cat])})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Total: %s across %d expenses\n", Cyan(fmt.Sprintf("$%.2f", report.Total)), report.Count)
	return nil
}

// WriteCategorySummary renders whole-ledger totals per category.
func WriteCategorySummary(w io.Writer, summary map[string]float64, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, summary)
	case FormatCSV:
		return WriteCSV(w, []string{"Category", "Total"},
			func(cw *csv.Writer) error {
				for _, cat := range expense.SortedCategories(summary) {
					if err := cw.Write([]string{cat, formatAmount(summary[cat])}); err != nil {
						return err
					}
				}
				return nil
			})
	default:
		if len(summary) == 0 {
			fmt.Fprintln(w, "No expenses recorded.")
			return nil
		}
		table := NewTable(w, []string{"Category", "Total"})
		var rows [][]string
		var total float64
		for _, cat := range expense.SortedCategories(summary) {
			rows = append(rows, []string{cat, fmt.Sprintf("$%.2f", summary[cat])})
			total += summary[cat]
		}
		if err := table.Bulk(rows); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintf(w, "Total: %s\n", Cyan(fmt.Sprintf("$%.2f", total)))
		return nil
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
