package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/kjstillabower/deskmate/internal/cache"
	"github.com/kjstillabower/deskmate/internal/observability"
	"github.com/kjstillabower/deskmate/internal/weather"
)

// WriteCurrent renders one current-conditions result.
func WriteCurrent(w io.Writer, cur weather.Current, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, cur)
	case FormatCSV:
		return WriteCSV(w, []string{"City", "Country", "Temperature", "FeelsLike", "Conditions", "Humidity", "WindSpeed", "Pressure", "FetchedAt"},
			func(cw *csv.Writer) error {
				return cw.Write([]string{
					cur.City, cur.Country,
					formatFloat(cur.Temperature), formatFloat(cur.FeelsLike),
					cur.Conditions,
					strconv.Itoa(cur.Humidity), formatFloat(cur.WindSpeed), strconv.Itoa(cur.Pressure),
					cur.FetchedAt.Format("2006-01-02 15:04:05"),
				})
			})
	default:
		return writeCurrentTable(w, cur)
	}
}

func writeCurrentTable(w io.Writer, cur weather.Current) error {
	table := NewTable(w, []string{"Field", "Value"})
	rows := [][]string{
		{"City", fmt.Sprintf("%s, %s", cur.City, cur.Country)},
		{"Temperature", fmt.Sprintf("%.1f°C", cur.Temperature)},
		{"Feels Like", fmt.Sprintf("%.1f°C", cur.FeelsLike)},
		{"Conditions", cur.Conditions},
		{"Humidity", fmt.Sprintf("%d%%", cur.Humidity)},
		{"Wind Speed", fmt.Sprintf("%.1f m/s", cur.WindSpeed)},
		{"Pressure", fmt.Sprintf("%d hPa", cur.Pressure)},
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	writeFreshness(w, cur.Cached, cur.Stale, cur.FetchedAt.Format("15:04:05"))
	return nil
}

// WriteForecast renders a multi-day forecast.
func WriteForecast(w io.Writer, fc weather.Forecast, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, fc)
	case FormatCSV:
		return WriteCSV(w, []string{"Date", "TempMin", "TempMax", "Conditions", "Humidity"},
			func(cw *csv.Writer) error {
				for _, day := range fc.Days {
					if err := cw.Write([]string{
						day.Date.Format("2006-01-02"),
						formatFloat(day.TempMin), formatFloat(day.TempMax),
						day.Conditions, strconv.Itoa(day.Humidity),
					}); err != nil {
						return err
					}
				}
				return nil
			})
	default:
		return writeForecastTable(w, fc)
	}
}

func writeForecastTable(w io.Writer, fc weather.Forecast) error {
	fmt.Fprintf(w, "Forecast for %s, %s\n", fc.City, fc.Country)
	table := NewTable(w, []string{"Date", "Low", "High", "Conditions", "Humidity"})
	var rows [][]string
	for _, day := range fc.Days {
		rows = append(rows, []string{
			day.Date.Format("Mon Jan 02"),
			fmt.Sprintf("%.1f°C", day.TempMin),
			fmt.Sprintf("%.1f°C", day.TempMax),
			day.Conditions,
			fmt.Sprintf("%d%%", day.Humidity),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	writeFreshness(w, fc.Cached, fc.Stale, fc.FetchedAt.Format("15:04:05"))
	return nil
}

// writeFreshness notes where the data came from. Stale results get a yellow
// warning so they are hard to miss.
func writeFreshness(w io.Writer, cached, stale bool, fetchedAt string) {
	switch {
	case stale:
		fmt.Fprintln(w, Yellow("Served stale from cache (provider unreachable), fetched at "+fetchedAt))
	case cached:
		fmt.Fprintln(w, "From cache, fetched at "+fetchedAt)
	}
}

// WriteCacheStatus renders a cache backend's health line.
func WriteCacheStatus(w io.Writer, status cache.Status, format Format) error {
	if format == FormatJSON {
		return WriteJSON(w, status)
	}
	table := NewTable(w, []string{"Backend", "Connected", "Entries", "Oldest", "Newest"})
	connected := Green("yes")
	if !status.Connected {
		connected = Red("no")
	}
	entries := strconv.Itoa(status.Entries)
	if status.Entries < 0 {
		entries = "n/a"
	}
	row := []string{status.Backend, connected, entries, formatTime(status.Oldest), formatTime(status.Newest)}
	if err := table.Append(row); err != nil {
		return err
	}
	return table.Render()
}

// WriteStats renders the session counters with the cache hit ratio.
func WriteStats(w io.Writer, stats observability.Stats, format Format) error {
	if format == FormatJSON {
		return WriteJSON(w, stats)
	}
	table := NewTable(w, []string{"Metric", "Value"})
	rows := [][]string{
		{"Lookups", strconv.FormatInt(stats.Lookups, 10)},
		{"Cache hits", strconv.FormatInt(stats.CacheHits, 10)},
		{"Cache misses", strconv.FormatInt(stats.CacheMisses, 10)},
		{"Stale serves", strconv.FormatInt(stats.StaleServes, 10)},
		{"Hit ratio", fmt.Sprintf("%.1f%%", stats.HitRatio()*100)},
		{"Upstream calls", strconv.FormatInt(stats.UpstreamCalls, 10)},
		{"Upstream errors", strconv.FormatInt(stats.UpstreamErrors, 10)},
		{"Retries", strconv.FormatInt(stats.Retries, 10)},
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}
