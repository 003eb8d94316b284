// Package expense is the CSV-backed expense ledger. The file contract is a
// header row Date,Category,Description,Amount; adds append one row, deletes
// rewrite the file atomically.
package expense

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/kjstillabower/deskmate/internal/atomicfile"
	"github.com/kjstillabower/deskmate/internal/validation"
)

// Expense is one ledger row. Date stays a YYYY-MM-DD string because that is
// the file contract; validation happens on Add.
type Expense struct {
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

var header = []string{"Date", "Category", "Description", "Amount"}

const filePerm = 0o644

// Ledger reads and writes one expenses CSV file. Not safe for concurrent
// use; there is a single writer by contract.
type Ledger struct {
	path string
}

// NewLedger creates a Ledger over the CSV file at path. The file is created
// with its header on first use.
func NewLedger(path string) *Ledger {
	return &Ledger{path: path}
}

// Path returns the backing file path.
func (l *Ledger) Path() string {
	return l.path
}

// Add validates the expense and appends it as one CSV row. The category is
// capitalized so "food" and "FOOD" aggregate together.
func (l *Ledger) Add(e Expense) error {
	date, err := validation.ValidateDate(e.Date)
	if err != nil {
		return err
	}
	if strings.TrimSpace(e.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if e.Amount <= 0 {
		return fmt.Errorf("%w: got %v", validation.ErrInvalidAmount, e.Amount)
	}

	if err := l.ensureFile(); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{date, capitalizeCategory(e.Category), strings.TrimSpace(e.Description), formatAmount(e.Amount)}); err != nil {
		return fmt.Errorf("append expense: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("append expense: %w", err)
	}
	return nil
}

// List returns every expense in file order. A missing file is an empty
// ledger; a malformed row is an error, not a silent skip.
func (l *Ledger) List() ([]Expense, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if !isHeader(records[0]) {
		return nil, fmt.Errorf("ledger %s: missing header row", l.path)
	}

	expenses := make([]Expense, 0, len(records)-1)
	for i, rec := range records[1:] {
		amount, err := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("ledger row %d: bad amount %q", i+2, rec[3])
		}
		expenses = append(expenses, Expense{
			Date:        rec[0],
			Category:    rec[1],
			Description: rec[2],
			Amount:      amount,
		})
	}
	return expenses, nil
}

// ByCategory returns expenses matching the category, ignoring case.
func (l *Ledger) ByCategory(category string) ([]Expense, error) {
	all, err := l.List()
	if err != nil {
		return nil, err
	}
	var out []Expense
	for _, e := range all {
		if strings.EqualFold(e.Category, strings.TrimSpace(category)) {
			out = append(out, e)
		}
	}
	return out, nil
}

// ByDate returns expenses recorded on the given YYYY-MM-DD date.
func (l *Ledger) ByDate(date string) ([]Expense, error) {
	date, err := validation.ValidateDate(date)
	if err != nil {
		return nil, err
	}
	all, err := l.List()
	if err != nil {
		return nil, err
	}
	var out []Expense
	for _, e := range all {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out, nil
}

// Delete removes the nth expense (1-based, as displayed by list) and rewrites
// the file atomically.
func (l *Ledger) Delete(n int) error {
	all, err := l.List()
	if err != nil {
		return err
	}
	if n < 1 || n > len(all) {
		return fmt.Errorf("expense %d does not exist (ledger has %d)", n, len(all))
	}
	kept := append(all[:n-1:n-1], all[n:]...)
	return l.rewrite(kept)
}

// rewrite replaces the whole file, header included, in one atomic write.
func (l *Ledger) rewrite(expenses []Expense) error {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range expenses {
		if err := w.Write([]string{e.Date, e.Category, e.Description, formatAmount(e.Amount)}); err != nil {
			return fmt.Errorf("write expense: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}
	if err := atomicfile.WriteFile(l.path, []byte(b.String()), filePerm); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

// ensureFile creates the CSV with its header row if it does not exist yet.
func (l *Ledger) ensureFile() error {
	if _, err := os.Stat(l.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat ledger: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}
	return l.rewrite(nil)
}

func isHeader(rec []string) bool {
	if len(rec) != len(header) {
		return false
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(rec[i]), h) {
			return false
		}
	}
	return true
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// capitalizeCategory uppercases the first letter and lowercases the rest, so
// category totals never split on casing.
func capitalizeCategory(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "Other"
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
