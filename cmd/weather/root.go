package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kjstillabower/deskmate/internal/cache"
	"github.com/kjstillabower/deskmate/internal/config"
	"github.com/kjstillabower/deskmate/internal/favorites"
	"github.com/kjstillabower/deskmate/internal/observability"
	"github.com/kjstillabower/deskmate/internal/openweather"
	"github.com/kjstillabower/deskmate/internal/render"
	"github.com/kjstillabower/deskmate/internal/weather"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	outputFormat string
	outputFile   string
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "deskmate-weather",
	Short: "Look up weather with a local cache.",
	Long: `deskmate-weather fetches current conditions and 5-day forecasts from
OpenWeatherMap, keeping a cache so repeated lookups inside ten minutes cost
nothing. Favorite cities live in a plain text file and can be browsed from an
interactive dashboard.

An API key is required: set WEATHER_API_KEY or put weather_api_key in
config/secrets.yaml.`,
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

	rootCmd.AddCommand(currentCmd)
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup builds the logger and config shared by every command and tags the
// context with a correlation id that rides along on API calls.
func setup(cmd *cobra.Command, _ []string) error {
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
	cmd.SetContext(context.WithValue(cmd.Context(), "correlation_id", uuid.NewString()))
	return nil
}

// format returns the validated output format.
func format() render.Format {
	f, _ := render.ParseFormat(outputFormat)
	return f
}

// newFetcher wires the API client, cache store, and fetcher from config.
// The caller owns closing the returned store.
func newFetcher() (*weather.Fetcher, cache.Store, error) {
	client, err := openweather.NewClientWithRetry(
		cfg.WeatherAPIKey,
		cfg.WeatherAPIURL,
		cfg.WeatherAPITimeout,
		cfg.RetryAttempts,
		cfg.RetryBaseDelay,
		cfg.RetryMaxDelay,
		cfg.RateLimitRPS,
		cfg.RateLimitBurst,
	)
	if err != nil {
		return nil, nil, err
	}
	store, err := newCacheStore()
	if err != nil {
		return nil, nil, err
	}
	return weather.NewFetcher(client, store, cfg.CacheTTL, cfg.StaleMaxAge, logger), store, nil
}

func newCacheStore() (cache.Store, error) {
	switch cfg.CacheBackend {
	case "bolt":
		return cache.NewBoltStore(cfg.BoltPath)
	case "memcached":
		// Entries must outlive the freshness window when stale serving is on.
		retention := cfg.CacheTTL
		if cfg.StaleMaxAge > retention {
			retention = cfg.StaleMaxAge
		}
		return cache.NewMemcachedStore(cfg.MemcachedAddrs, cfg.MemcachedTimeout, cfg.MemcachedMaxIdleConns, retention)
	default:
		return cache.NewMemoryStore(), nil
	}
}

func newFavorites() *favorites.Store {
	return favorites.NewStore(cfg.FavoritesPath)
}

func closeStore(store cache.Store) {
	if err := store.Close(); err != nil {
		logger.Warn("close cache store", zap.Error(err))
	}
}

// userErr converts provider failures into the one-line messages users should
// see, keeping the raw chain in the debug log.
func userErr(err error) error {
	logger.Debug("command failed", zap.Error(err))
	return errors.New(openweather.UserMessage(err))
}
