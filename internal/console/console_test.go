package console

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/deskmate/internal/cache"
	"github.com/kjstillabower/deskmate/internal/favorites"
	"github.com/kjstillabower/deskmate/internal/openweather"
	"github.com/kjstillabower/deskmate/internal/weather"
)

// scriptClient is a canned weather provider for dashboard sessions.
type scriptClient struct {
	calls int
	err   error
}

func (c *scriptClient) Current(ctx context.Context, city string) (weather.Current, error) {
	c.calls++
	if c.err != nil {
		return weather.Current{}, c.err
	}
	return weather.Current{
		City:        "Paris",
		Country:     "FR",
		Temperature: 18.5,
		FeelsLike:   17.2,
		Conditions:  "Clear",
		Humidity:    60,
		Pressure:    1013,
		WindSpeed:   3.4,
		FetchedAt:   time.Now(),
	}, nil
}

func (c *scriptClient) Forecast(ctx context.Context, city string) (weather.Forecast, error) {
	c.calls++
	if c.err != nil {
		return weather.Forecast{}, c.err
	}
	return weather.Forecast{
		City:    "Paris",
		Country: "FR",
		Days: []weather.ForecastDay{
			{Date: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC), TempMin: 9.1, TempMax: 17.8, Conditions: "Clouds", Humidity: 70},
		},
		FetchedAt: time.Now(),
	}, nil
}

// newTestDashboard wires a dashboard to a scripted stdin and a buffer for
// output. Each line of script is one answer to one prompt.
func newTestDashboard(t *testing.T, client weather.Client, script string) (*Dashboard, *bytes.Buffer) {
	t.Helper()
	fetcher := weather.NewFetcher(client, cache.NewMemoryStore(), 10*time.Minute, 0, zap.NewNop())
	favs := favorites.NewStore(filepath.Join(t.TempDir(), "favorites.txt"))
	var out bytes.Buffer
	return New(fetcher, favs, zap.NewNop(), strings.NewReader(script), &out), &out
}

func runDashboard(t *testing.T, d *Dashboard) {
	t.Helper()
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestDashboard_ExitImmediately(t *testing.T) {
	d, out := newTestDashboard(t, &scriptClient{}, "8\n")
	runDashboard(t, d)

	for _, want := range []string{
		"Welcome to Weather Information Dashboard!",
		"WEATHER INFORMATION DASHBOARD",
		"1. Get Current Weather",
		"8. Exit",
		"Goodbye!",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDashboard_InvalidChoice(t *testing.T) {
	d, out := newTestDashboard(t, &scriptClient{}, "9\n\n8\n")
	runDashboard(t, d)

	if !strings.Contains(out.String(), "✗ Invalid choice! Please try again.") {
		t.Errorf("output missing invalid-choice line:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Goodbye!") {
		t.Errorf("session did not reach exit:\n%s", out.String())
	}
}

func TestDashboard_CurrentWeather(t *testing.T) {
	client := &scriptClient{}
	d, out := newTestDashboard(t, client, "1\nParis\nn\n\n8\n")
	runDashboard(t, d)

	if client.calls != 1 {
		t.Errorf("provider calls = %d, want 1", client.calls)
	}
	for _, want := range []string{
		"Fetching weather data...",
		"Weather in Paris, FR",
		"Temperature: 18.5°C",
		"Feels Like: 17.2°C",
		"Condition: Clear",
		"Humidity: 60%",
		"Save this location to favorites? (y/n):",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDashboard_EmptyCityRejected(t *testing.T) {
	client := &scriptClient{}
	d, out := newTestDashboard(t, client, "1\n\n\n8\n")
	runDashboard(t, d)

	if !strings.Contains(out.String(), "City name cannot be empty!") {
		t.Errorf("output missing empty-city line:\n%s", out.String())
	}
	if client.calls != 0 {
		t.Errorf("provider calls = %d, want 0 for empty city", client.calls)
	}
}

// TestDashboard_SecondLookupHitsCache verifies the session reuses the cache
// across menu choices, including a differently-cased spelling.
func TestDashboard_SecondLookupHitsCache(t *testing.T) {
	client := &scriptClient{}
	d, out := newTestDashboard(t, client, "1\nParis\nn\n\n1\nPARIS\nn\n\n8\n")
	runDashboard(t, d)

	if client.calls != 1 {
		t.Errorf("provider calls = %d, want 1 (second lookup cached)", client.calls)
	}
	if !strings.Contains(out.String(), "(cached at ") {
		t.Errorf("output missing cached note:\n%s", out.String())
	}
}

func TestDashboard_SaveToFavoritesAndView(t *testing.T) {
	d, out := newTestDashboard(t, &scriptClient{}, "1\nParis\ny\n\n3\n\n\n8\n")
	runDashboard(t, d)

	for _, want := range []string{
		"✓ Paris added to favorites!",
		"--- Favorite Locations ---",
		"1. Paris",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDashboard_ProviderErrorShowsShortMessage(t *testing.T) {
	client := &scriptClient{err: openweather.ErrCityNotFound}
	d, out := newTestDashboard(t, client, "1\nAtlantis\n\n8\n")
	runDashboard(t, d)

	if !strings.Contains(out.String(), "✗ city not found") {
		t.Errorf("output missing short error line:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Save this location") {
		t.Error("failed lookup still offered to save the city")
	}
}

func TestDashboard_Forecast(t *testing.T) {
	client := &scriptClient{}
	d, out := newTestDashboard(t, client, "2\nParis\n\n8\n")
	runDashboard(t, d)

	for _, want := range []string{
		"Fetching forecast data...",
		"5-Day Forecast for Paris",
		"Temperature: 9.1°C - 17.8°C",
		"Condition: Clouds",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDashboard_AddAndRemoveFavorite(t *testing.T) {
	d, out := newTestDashboard(t, &scriptClient{}, "4\nOslo\n\n5\n1\n\n8\n")
	runDashboard(t, d)

	if !strings.Contains(out.String(), "✓ Oslo added to favorites!") {
		t.Errorf("output missing add confirmation:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "✓ Oslo removed from favorites!") {
		t.Errorf("output missing remove confirmation:\n%s", out.String())
	}
}

func TestDashboard_RemoveWithNothingSaved(t *testing.T) {
	d, out := newTestDashboard(t, &scriptClient{}, "5\n\n8\n")
	runDashboard(t, d)

	if !strings.Contains(out.String(), "No favorite locations to remove!") {
		t.Errorf("output missing empty-favorites line:\n%s", out.String())
	}
}

func TestDashboard_ExportFavorites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.txt")
	d, out := newTestDashboard(t, &scriptClient{}, "4\nParis\n\n6\n"+path+"\n\n8\n")
	runDashboard(t, d)

	if !strings.Contains(out.String(), "✓ Exported 1 favorite cities to "+path) {
		t.Errorf("output missing export confirmation:\n%s", out.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "FAVORITE CITIES\n") {
		t.Errorf("export content = %q, want FAVORITE CITIES header", data)
	}
}

func TestDashboard_ExportWithNothingSaved(t *testing.T) {
	d, out := newTestDashboard(t, &scriptClient{}, "6\n\n\n8\n")
	runDashboard(t, d)

	if !strings.Contains(out.String(), "No favorite locations to export!") {
		t.Errorf("output missing empty-export line:\n%s", out.String())
	}
}

func TestDashboard_SessionStats(t *testing.T) {
	d, out := newTestDashboard(t, &scriptClient{}, "7\n\n8\n")
	runDashboard(t, d)

	for _, want := range []string{"SESSION STATISTICS", "Lookups:", "Hit Ratio:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDashboard_EndOfInputEndsRun(t *testing.T) {
	d, out := newTestDashboard(t, &scriptClient{}, "")
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "WEATHER INFORMATION DASHBOARD") {
		t.Errorf("menu never printed:\n%s", out.String())
	}
}

func TestDashboard_ContextCancellation(t *testing.T) {
	d, _ := newTestDashboard(t, &scriptClient{}, "1\nParis\nn\n\n8\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := d.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
