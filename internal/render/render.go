// Package render writes results as tables, JSON, or CSV. Tables go through
// tablewriter with color accents; JSON and CSV are for piping into other
// tools.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"
)

// Format selects the output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// ParseFormat validates an output format name. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, json, or csv)", s)
}

// WriteOutput runs the writer against outputFile, or stdout when the path is
// empty. When writing to a file it confirms on stderr so the data stream
// stays clean.
func WriteOutput(outputFile string, writer func(io.Writer) error, successMsg string) error {
	if outputFile == "" {
		return writer(os.Stdout)
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := writer(f); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s to %s\n", successMsg, outputFile)
	return nil
}

// WriteJSON encodes data with two-space indentation.
func WriteJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// WriteCSV writes a header row then hands the writer to writeRows.
func WriteCSV(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}
	return csvWriter.Error()
}

// NewTable builds a table with right-aligned rows, which reads better for
// the mostly numeric columns here.
func NewTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	return table
}

// TerminalWidth reports the stdout width, falling back to 80 for pipes and
// CI.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// freeTextWidth returns how many runes of a free-text column fit beside
// fixed columns of the given width, clamped to [20, 60].
func freeTextWidth(fixed int) int {
	avail := TerminalWidth() - fixed
	if avail < 20 {
		return 20
	}
	if avail > 60 {
		return 60
	}
	return avail
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// DisableColors turns off all color output, for --no-color flags.
func DisableColors() {
	color.NoColor = true
}

// Color accents shared by the table writers.
var (
	Red    = color.New(color.FgRed).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
)
