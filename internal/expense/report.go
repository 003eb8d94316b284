package expense

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kjstillabower/deskmate/internal/atomicfile"
	"github.com/kjstillabower/deskmate/internal/validation"
)

// MonthlyReport aggregates one calendar month of spending.
type MonthlyReport struct {
	Month      string             `json:"month"`
	Total      float64            `json:"total"`
	ByCategory map[string]float64 `json:"byCategory"`
	Count      int                `json:"count"`
}

// Monthly builds the report for a YYYY-MM month. A month with no expenses
// yields a report with Count zero, not an error.
func (l *Ledger) Monthly(month string) (MonthlyReport, error) {
	month, err := validation.ValidateMonth(month)
	if err != nil {
		return MonthlyReport{}, err
	}
	all, err := l.List()
	if err != nil {
		return MonthlyReport{}, err
	}

	report := MonthlyReport{Month: month, ByCategory: make(map[string]float64)}
	prefix := month + "-"
	for _, e := range all {
		if !strings.HasPrefix(e.Date, prefix) {
			continue
		}
		report.Total += e.Amount
		report.ByCategory[e.Category] += e.Amount
		report.Count++
	}
	return report, nil
}

// CategorySummary totals every category across the whole ledger.
func (l *Ledger) CategorySummary() (map[string]float64, error) {
	all, err := l.List()
	if err != nil {
		return nil, err
	}
	summary := make(map[string]float64)
	for _, e := range all {
		summary[e.Category] += e.Amount
	}
	return summary, nil
}

// Total sums every expense in the ledger.
func (l *Ledger) Total() (float64, error) {
	all, err := l.List()
	if err != nil {
		return 0, err
	}
	var total float64
	for _, e := range all {
		total += e.Amount
	}
	return total, nil
}

// ExportText writes a plain-text report of the whole ledger to path and
// returns how many expenses it covered.
func (l *Ledger) ExportText(path string) (int, error) {
	all, err := l.List()
	if err != nil {
		return 0, err
	}

	var b strings.Builder
	b.WriteString("EXPENSE REPORT\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	for _, e := range all {
		fmt.Fprintf(&b, "Date: %s\n", e.Date)
		fmt.Fprintf(&b, "Category: %s\n", e.Category)
		fmt.Fprintf(&b, "Description: %s\n", e.Description)
		fmt.Fprintf(&b, "Amount: $%.2f\n", e.Amount)
		b.WriteString(strings.Repeat("-", 60) + "\n")
	}
	fmt.Fprintf(&b, "\nTotal Expenses: $%.2f\n", sum(all))

	if err := atomicfile.WriteFile(path, []byte(b.String()), filePerm); err != nil {
		return 0, fmt.Errorf("export report: %w", err)
	}
	return len(all), nil
}

// SortedCategories returns the summary's categories in alphabetical order,
// for stable display.
func SortedCategories(summary map[string]float64) []string {
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sum(expenses []Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}
