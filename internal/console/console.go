// Package console runs the interactive weather dashboard: a numbered menu
// over the fetcher and the favorites store, built for a terminal session
// rather than scripting.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kjstillabower/deskmate/internal/favorites"
	"github.com/kjstillabower/deskmate/internal/observability"
	"github.com/kjstillabower/deskmate/internal/openweather"
	"github.com/kjstillabower/deskmate/internal/weather"
)

const frameWidth = 50

// Dashboard is the interactive menu loop.
type Dashboard struct {
	fetcher   *weather.Fetcher
	favorites *favorites.Store
	logger    *zap.Logger
	in        *bufio.Scanner
	out       io.Writer
}

// New builds a dashboard reading from in and writing to out.
func New(fetcher *weather.Fetcher, favs *favorites.Store, logger *zap.Logger, in io.Reader, out io.Writer) *Dashboard {
	return &Dashboard{
		fetcher:   fetcher,
		favorites: favs,
		logger:    logger,
		in:        bufio.NewScanner(in),
		out:       out,
	}
}

// Run loops on the menu until the user exits, input ends, or the context is
// canceled.
func (d *Dashboard) Run(ctx context.Context) error {
	fmt.Fprintln(d.out, "\nWelcome to Weather Information Dashboard!")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.printMenu()

		choice, ok := d.prompt("\nEnter your choice (1-8): ")
		if !ok {
			return nil
		}

		switch choice {
		case "1":
			d.currentWeather(ctx)
		case "2":
			d.forecast(ctx)
		case "3":
			d.viewFavorites(ctx)
		case "4":
			d.addFavorite()
		case "5":
			d.removeFavorite()
		case "6":
			d.exportFavorites()
		case "7":
			d.sessionStats()
		case "8":
			fmt.Fprintln(d.out, "\nThank you for using Weather Dashboard!")
			fmt.Fprintln(d.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(d.out, "\n✗ Invalid choice! Please try again.")
		}

		if _, ok := d.prompt("\nPress Enter to continue..."); !ok {
			return nil
		}
	}
}

func (d *Dashboard) printMenu() {
	frame := strings.Repeat("=", frameWidth)
	fmt.Fprintln(d.out, "\n"+frame)
	fmt.Fprintln(d.out, "     WEATHER INFORMATION DASHBOARD")
	fmt.Fprintln(d.out, frame)
	fmt.Fprintln(d.out, "1. Get Current Weather")
	fmt.Fprintln(d.out, "2. Get 5-Day Forecast")
	fmt.Fprintln(d.out, "3. View Saved Locations")
	fmt.Fprintln(d.out, "4. Add Favorite Location")
	fmt.Fprintln(d.out, "5. Remove Favorite Location")
	fmt.Fprintln(d.out, "6. Export Favorites")
	fmt.Fprintln(d.out, "7. Session Stats")
	fmt.Fprintln(d.out, "8. Exit")
	fmt.Fprintln(d.out, frame)
}

// prompt prints the message and reads one trimmed line. ok is false when
// input has ended.
func (d *Dashboard) prompt(msg string) (string, bool) {
	fmt.Fprint(d.out, msg)
	if !d.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(d.in.Text()), true
}

func (d *Dashboard) currentWeather(ctx context.Context) {
	city, ok := d.prompt("\nEnter city name: ")
	if !ok || city == "" {
		fmt.Fprintln(d.out, "City name cannot be empty!")
		return
	}

	fmt.Fprintln(d.out, "\nFetching weather data...")
	cur, err := d.fetcher.Current(ctx, city)
	if err != nil {
		d.printError(err)
		return
	}
	d.displayCurrent(cur)

	contains, err := d.favorites.Contains(city)
	if err != nil {
		d.logger.Warn("favorites lookup failed", zap.Error(err))
		return
	}
	if contains {
		return
	}
	if answer, ok := d.prompt("\nSave this location to favorites? (y/n): "); ok && strings.EqualFold(answer, "y") {
		added, err := d.favorites.Add(city)
		switch {
		case err != nil:
			fmt.Fprintf(d.out, "✗ Could not save %s: %v\n", city, err)
		case added:
			fmt.Fprintf(d.out, "✓ %s added to favorites!\n", favorites.TitleCase(city))
		default:
			fmt.Fprintf(d.out, "✗ %s is already in favorites!\n", favorites.TitleCase(city))
		}
	}
}

func (d *Dashboard) forecast(ctx context.Context) {
	city, ok := d.prompt("\nEnter city name: ")
	if !ok || city == "" {
		fmt.Fprintln(d.out, "City name cannot be empty!")
		return
	}

	fmt.Fprintln(d.out, "\nFetching forecast data...")
	fc, err := d.fetcher.Forecast(ctx, city)
	if err != nil {
		d.printError(err)
		return
	}
	d.displayForecast(fc)
}

func (d *Dashboard) viewFavorites(ctx context.Context) {
	cities, err := d.favorites.List()
	if err != nil {
		fmt.Fprintf(d.out, "✗ Could not read favorites: %v\n", err)
		return
	}
	if len(cities) == 0 {
		fmt.Fprintln(d.out, "\nNo favorite locations saved yet!")
		return
	}

	fmt.Fprintln(d.out, "\n--- Favorite Locations ---")
	for i, city := range cities {
		fmt.Fprintf(d.out, "%d. %s\n", i+1, city)
	}

	choice, ok := d.prompt("\nEnter number to view weather (or press Enter to go back): ")
	if !ok || choice == "" {
		return
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(cities) {
		return
	}

	city := cities[idx-1]
	fmt.Fprintf(d.out, "\nFetching weather for %s...\n", city)
	cur, err := d.fetcher.Current(ctx, city)
	if err != nil {
		d.printError(err)
		return
	}
	d.displayCurrent(cur)
}

func (d *Dashboard) addFavorite() {
	city, ok := d.prompt("\nEnter city name to add: ")
	if !ok || city == "" {
		fmt.Fprintln(d.out, "City name cannot be empty!")
		return
	}
	added, err := d.favorites.Add(city)
	switch {
	case err != nil:
		fmt.Fprintf(d.out, "✗ Could not save %s: %v\n", city, err)
	case added:
		fmt.Fprintf(d.out, "✓ %s added to favorites!\n", favorites.TitleCase(city))
	default:
		fmt.Fprintf(d.out, "✗ %s is already in favorites!\n", favorites.TitleCase(city))
	}
}

func (d *Dashboard) removeFavorite() {
	cities, err := d.favorites.List()
	if err != nil {
		fmt.Fprintf(d.out, "✗ Could not read favorites: %v\n", err)
		return
	}
	if len(cities) == 0 {
		fmt.Fprintln(d.out, "\nNo favorite locations to remove!")
		return
	}

	fmt.Fprintln(d.out, "\n--- Favorite Locations ---")
	for i, city := range cities {
		fmt.Fprintf(d.out, "%d. %s\n", i+1, city)
	}

	choice, ok := d.prompt("\nEnter number to remove (or press Enter to cancel): ")
	if !ok || choice == "" {
		return
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(cities) {
		return
	}

	city := cities[idx-1]
	removed, err := d.favorites.Remove(city)
	if err != nil {
		fmt.Fprintf(d.out, "✗ Could not remove %s: %v\n", city, err)
		return
	}
	if removed {
		fmt.Fprintf(d.out, "✓ %s removed from favorites!\n", city)
	}
}

func (d *Dashboard) exportFavorites() {
	path, ok := d.prompt("\nExport path [favorites_export.txt]: ")
	if !ok {
		return
	}
	if path == "" {
		path = "favorites_export.txt"
	}
	count, err := d.favorites.Export(path)
	if err != nil {
		if errors.Is(err, favorites.ErrNoFavorites) {
			fmt.Fprintln(d.out, "\nNo favorite locations to export!")
			return
		}
		fmt.Fprintf(d.out, "✗ Export failed: %v\n", err)
		return
	}
	fmt.Fprintf(d.out, "✓ Exported %d favorite cities to %s\n", count, path)
}

func (d *Dashboard) sessionStats() {
	stats, err := observability.GatherStats()
	if err != nil {
		fmt.Fprintf(d.out, "✗ Could not gather stats: %v\n", err)
		return
	}
	frame := strings.Repeat("=", frameWidth)
	fmt.Fprintln(d.out, "\n"+frame)
	fmt.Fprintln(d.out, "   SESSION STATISTICS")
	fmt.Fprintln(d.out, frame)
	fmt.Fprintf(d.out, "Lookups: %d\n", stats.Lookups)
	fmt.Fprintf(d.out, "Cache Hits: %d\n", stats.CacheHits)
	fmt.Fprintf(d.out, "Cache Misses: %d\n", stats.CacheMisses)
	fmt.Fprintf(d.out, "Stale Serves: %d\n", stats.StaleServes)
	fmt.Fprintf(d.out, "Hit Ratio: %.1f%%\n", stats.HitRatio()*100)
	fmt.Fprintf(d.out, "Upstream Calls: %d\n", stats.UpstreamCalls)
	fmt.Fprintf(d.out, "Upstream Errors: %d\n", stats.UpstreamErrors)
	fmt.Fprintf(d.out, "Retries: %d\n", stats.Retries)
	fmt.Fprintln(d.out, frame)
}

func (d *Dashboard) displayCurrent(cur weather.Current) {
	frame := strings.Repeat("=", frameWidth)
	fmt.Fprintln(d.out, "\n"+frame)
	fmt.Fprintf(d.out, "   Weather in %s, %s\n", cur.City, cur.Country)
	fmt.Fprintln(d.out, frame)
	fmt.Fprintf(d.out, "\nTemperature: %.1f°C\n", cur.Temperature)
	fmt.Fprintf(d.out, "Feels Like: %.1f°C\n", cur.FeelsLike)
	fmt.Fprintf(d.out, "Condition: %s\n", cur.Conditions)
	fmt.Fprintf(d.out, "Humidity: %d%%\n", cur.Humidity)
	fmt.Fprintf(d.out, "Wind Speed: %.1f m/s\n", cur.WindSpeed)
	fmt.Fprintf(d.out, "Pressure: %d hPa\n", cur.Pressure)
	if cur.Stale {
		fmt.Fprintf(d.out, "(stale data from %s, provider unreachable)\n", cur.FetchedAt.Format("15:04"))
	} else if cur.Cached {
		fmt.Fprintf(d.out, "(cached at %s)\n", cur.FetchedAt.Format("15:04"))
	}
	fmt.Fprintln(d.out, frame)
}

func (d *Dashboard) displayForecast(fc weather.Forecast) {
	frame := strings.Repeat("=", frameWidth)
	fmt.Fprintln(d.out, "\n"+frame)
	fmt.Fprintf(d.out, "   5-Day Forecast for %s\n", fc.City)
	fmt.Fprintln(d.out, frame)
	for _, day := range fc.Days {
		fmt.Fprintf(d.out, "\n%s\n", day.Date.Format("Monday, January 02"))
		fmt.Fprintf(d.out, "  Temperature: %.1f°C - %.1f°C\n", day.TempMin, day.TempMax)
		fmt.Fprintf(d.out, "  Condition: %s\n", day.Conditions)
		fmt.Fprintf(d.out, "  Humidity: %d%%\n", day.Humidity)
		fmt.Fprintln(d.out, strings.Repeat("-", frameWidth))
	}
	if fc.Stale {
		fmt.Fprintf(d.out, "(stale data from %s, provider unreachable)\n", fc.FetchedAt.Format("15:04"))
	} else if fc.Cached {
		fmt.Fprintf(d.out, "(cached at %s)\n", fc.FetchedAt.Format("15:04"))
	}
}

// printError maps provider failures to the short lines users should see and
// logs the full error for debugging.
func (d *Dashboard) printError(err error) {
	d.logger.Debug("dashboard operation failed", zap.Error(err))
	fmt.Fprintf(d.out, "✗ %s\n", openweather.UserMessage(err))
}
