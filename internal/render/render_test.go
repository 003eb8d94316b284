package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kjstillabower/deskmate/internal/expense"
	"github.com/kjstillabower/deskmate/internal/inventory"
	"github.com/kjstillabower/deskmate/internal/weather"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{"empty defaults to table", "", FormatTable, false},
		{"table", "table", FormatTable, false},
		{"json", "json", FormatJSON, false},
		{"csv", "csv", FormatCSV, false},
		{"unknown", "yaml", "", true},
		{"case sensitive", "JSON", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseFormat(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseFormat(%q) expected error, got %q", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) error = %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := WriteJSON(&buf, map[string]int{"answer": 42})
	if err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	want := "{\n  \"answer\": 42\n}\n"
	if buf.String() != want {
		t.Errorf("WriteJSON() = %q, want %q", buf.String(), want)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"Name", "Qty"}, func(cw *csv.Writer) error {
		if err := cw.Write([]string{"bolt", "3"}); err != nil {
			return err
		}
		return cw.Write([]string{"nut, large", "7"})
	})
	if err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	want := "Name,Qty\nbolt,3\n\"nut, large\",7\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() = %q, want %q", buf.String(), want)
	}
}

func TestWriteOutput_ToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	err := WriteOutput(path, func(w io.Writer) error {
		_, err := w.Write([]byte("payload\n"))
		return err
	}, "Exported")
	if err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "payload\n" {
		t.Errorf("output file = %q, want %q", data, "payload\n")
	}
}

func TestWriteOutput_CreateError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.txt")
	err := WriteOutput(path, func(w io.Writer) error { return nil }, "Exported")
	if err == nil || !strings.Contains(err.Error(), "create output file") {
		t.Errorf("WriteOutput() error = %v, want create message", err)
	}
}

func sampleCurrent() weather.Current {
	return weather.Current{
		City:        "Paris",
		Country:     "FR",
		Temperature: 18.5,
		FeelsLike:   17.2,
		Conditions:  "Clear",
		Humidity:    60,
		Pressure:    1013,
		WindSpeed:   3.4,
		FetchedAt:   time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}

func TestWriteCurrent_CSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCurrent(&buf, sampleCurrent(), FormatCSV); err != nil {
		t.Fatalf("WriteCurrent() error = %v", err)
	}
	want := "City,Country,Temperature,FeelsLike,Conditions,Humidity,WindSpeed,Pressure,FetchedAt\n" +
		"Paris,FR,18.5,17.2,Clear,60,3.4,1013,2026-03-14 09:00:00\n"
	if buf.String() != want {
		t.Errorf("WriteCurrent() csv = %q, want %q", buf.String(), want)
	}
}

func TestWriteCurrent_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCurrent(&buf, sampleCurrent(), FormatJSON); err != nil {
		t.Fatalf("WriteCurrent() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["city"] != "Paris" {
		t.Errorf("city = %v, want Paris", decoded["city"])
	}
	if decoded["feelsLike"] != 17.2 {
		t.Errorf("feelsLike = %v, want 17.2", decoded["feelsLike"])
	}
	if _, ok := decoded["cached"]; ok {
		t.Error("cached should be omitted when false")
	}
}

func TestWriteCurrent_TableShowsFreshness(t *testing.T) {
	DisableColors()
	cur := sampleCurrent()
	cur.Cached = true

	var buf bytes.Buffer
	if err := WriteCurrent(&buf, cur, FormatTable); err != nil {
		t.Fatalf("WriteCurrent() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Paris, FR") {
		t.Errorf("table output missing city line:\n%s", out)
	}
	if !strings.Contains(out, "From cache, fetched at 09:00:00") {
		t.Errorf("table output missing cache note:\n%s", out)
	}

	cur.Stale = true
	buf.Reset()
	if err := WriteCurrent(&buf, cur, FormatTable); err != nil {
		t.Fatalf("WriteCurrent() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Served stale from cache") {
		t.Errorf("table output missing stale warning:\n%s", buf.String())
	}
}

func TestWriteForecast_CSV(t *testing.T) {
	fc := weather.Forecast{
		City:    "Paris",
		Country: "FR",
		Days: []weather.ForecastDay{
			{Date: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC), TempMin: 9.1, TempMax: 17.8, Conditions: "Clouds", Humidity: 70},
			{Date: time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC), TempMin: 8.0, TempMax: 16.2, Conditions: "Rain", Humidity: 85},
		},
	}

	var buf bytes.Buffer
	if err := WriteForecast(&buf, fc, FormatCSV); err != nil {
		t.Fatalf("WriteForecast() error = %v", err)
	}
	want := "Date,TempMin,TempMax,Conditions,Humidity\n" +
		"2026-03-15,9.1,17.8,Clouds,70\n" +
		"2026-03-16,8.0,16.2,Rain,85\n"
	if buf.String() != want {
		t.Errorf("WriteForecast() csv = %q, want %q", buf.String(), want)
	}
}

func TestWriteExpenses_CSV(t *testing.T) {
	expenses := []expense.Expense{
		{Date: "2026-03-14", Category: "Food", Description: "lunch, with drink", Amount: 12.5},
		{Date: "2026-03-20", Category: "Transport", Description: "metro", Amount: 18},
	}

	var buf bytes.Buffer
	if err := WriteExpenses(&buf, expenses, FormatCSV); err != nil {
		t.Fatalf("WriteExpenses() error = %v", err)
	}
	want := "Date,Category,Description,Amount\n" +
		"2026-03-14,Food,\"lunch, with drink\",12.50\n" +
		"2026-03-20,Transport,metro,18.00\n"
	if buf.String() != want {
		t.Errorf("WriteExpenses() csv = %q, want %q", buf.String(), want)
	}
}

func TestWriteExpenses_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteExpenses(&buf, nil, FormatTable); err != nil {
		t.Fatalf("WriteExpenses() error = %v", err)
	}
	if buf.String() != "No expenses recorded.\n" {
		t.Errorf("empty table output = %q", buf.String())
	}
}

func TestWriteExpenses_TableTotalLine(t *testing.T) {
	DisableColors()
	expenses := []expense.Expense{
		{Date: "2026-03-14", Category: "Food", Description: "lunch", Amount: 12.5},
		{Date: "2026-03-20", Category: "Transport", Description: "metro", Amount: 18},
	}

	var buf bytes.Buffer
	if err := WriteExpenses(&buf, expenses, FormatTable); err != nil {
		t.Fatalf("WriteExpenses() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Total: $30.50 across 2 expenses") {
		t.Errorf("table output missing total line:\n%s", buf.String())
	}
}

func TestWriteMonthlyReport_CSVSortsCategories(t *testing.T) {
	report := expense.MonthlyReport{
		Month: "2026-03",
		Total: 84.7,
		Count: 3,
		ByCategory: map[string]float64{
			"Transport": 18,
			"Food":      66.7,
		},
	}

	var buf bytes.Buffer
	if err := WriteMonthlyReport(&buf, report, FormatCSV); err != nil {
		t.Fatalf("WriteMonthlyReport() error = %v", err)
	}
	want := "Category,Total\nFood,66.70\nTransport,18.00\n"
	if buf.String() != want {
		t.Errorf("WriteMonthlyReport() csv = %q, want %q", buf.String(), want)
	}
}

func TestWriteMonthlyReport_TableEmptyMonth(t *testing.T) {
	var buf bytes.Buffer
	report := expense.MonthlyReport{Month: "2026-07", ByCategory: map[string]float64{}}
	if err := WriteMonthlyReport(&buf, report, FormatTable); err != nil {
		t.Fatalf("WriteMonthlyReport() error = %v", err)
	}
	if buf.String() != "No expenses recorded for 2026-07.\n" {
		t.Errorf("empty month output = %q", buf.String())
	}
}

func TestWriteItems_CSV(t *testing.T) {
	items := []inventory.Item{
		{ID: 1, Name: "Laptop", CategoryName: "Electronics", LocationName: "Office", Quantity: 4, MinQuantity: 2, Price: 1200, SerialNumber: "SN-1"},
	}

	var buf bytes.Buffer
	if err := WriteItems(&buf, items, FormatCSV); err != nil {
		t.Fatalf("WriteItems() error = %v", err)
	}
	want := "ID,Name,Category,Location,Quantity,MinQuantity,Price,SerialNumber\n" +
		"1,Laptop,Electronics,Office,4,2,1200.00,SN-1\n"
	if buf.String() != want {
		t.Errorf("WriteItems() csv = %q, want %q", buf.String(), want)
	}
}

func TestWriteItems_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteItems(&buf, nil, FormatTable); err != nil {
		t.Fatalf("WriteItems() error = %v", err)
	}
	if buf.String() != "No items found.\n" {
		t.Errorf("empty items output = %q", buf.String())
	}
}

func TestWriteLocationValues_CSV(t *testing.T) {
	values := []inventory.LocationValue{
		{Location: "Office", TotalItems: 6, TotalValue: 7300.5},
		{Location: "Warehouse", TotalItems: 40, TotalValue: 1250},
	}

	var buf bytes.Buffer
	if err := WriteLocationValues(&buf, values, FormatCSV); err != nil {
		t.Fatalf("WriteLocationValues() error = %v", err)
	}
	want := "Location,TotalItems,TotalValue\nOffice,6,7300.50\nWarehouse,40,1250.00\n"
	if buf.String() != want {
		t.Errorf("WriteLocationValues() csv = %q, want %q", buf.String(), want)
	}
}

func TestTerminalWidth_FallsBack(t *testing.T) {
	// Test binaries run with stdout piped, so this exercises the fallback.
	if width := TerminalWidth(); width <= 0 {
		t.Errorf("TerminalWidth() = %d, want positive", width)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"short stays whole", "lunch", 20, "lunch"},
		{"exact fit stays whole", "abcde", 5, "abcde"},
		{"long gets ellipsis", "a very long description of a purchase", 20, "a very long descr..."},
		{"tiny max cuts hard", "abcdef", 3, "abc"},
		{"multibyte runes", "日本語の説明テキスト", 5, "日本..."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncate(tc.input, tc.max); got != tc.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tc.input, tc.max, got, tc.want)
			}
		})
	}
}

func TestFreeTextWidth_Clamps(t *testing.T) {
	// Piped stdout reports width 80. A huge fixed budget must clamp to the
	// floor, a tiny one to the ceiling.
	if got := freeTextWidth(10000); got != 20 {
		t.Errorf("freeTextWidth(10000) = %d, want 20", got)
	}
	if got := freeTextWidth(0); got != 60 {
		t.Errorf("freeTextWidth(0) = %d, want 60", got)
	}
}
