package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kjstillabower/deskmate/internal/observability"
	"github.com/kjstillabower/deskmate/internal/render"
	"github.com/kjstillabower/deskmate/internal/weather"
)

// cacheCmd manages the weather cache.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the weather cache",
	Long: `Inspect, clear, and prefill the weather cache.

Backends: memory (per process), bolt (a local file, default path
~/.deskmate/cache.db), or memcached (shared across machines). Select one
with cache.backend in the config file or the CACHE_BACKEND env variable.`,
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache backend health and entry counts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := newCacheStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		status, err := store.Status(cmd.Context())
		if err != nil {
			return err
		}
		return render.WriteOutput(outputFile, func(w io.Writer) error {
			return render.WriteCacheStatus(w, status, format())
		}, "Wrote cache status")
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached weather data",
	Long: `Delete every cached entry from the configured backend. For memcached
this flushes the whole instance, so only run it against an instance dedicated
to this tool.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := newCacheStore()
		if err != nil {
			return err
		}
		defer closeStore(store)

		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Cache cleared successfully.")
		return nil
	},
}

var cacheWarmCmd = &cobra.Command{
	Use:   "warm [city...]",
	Short: "Prefill the cache for cities",
	Long: `Fetch current conditions and forecasts for the given cities so later
lookups hit the cache. With no arguments the favorite cities are warmed.

Examples:
  deskmate-weather cache warm
  deskmate-weather cache warm London Paris Tokyo`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cities := args
		if len(cities) == 0 {
			var err error
			cities, err = newFavorites().List()
			if err != nil {
				return err
			}
			if len(cities) == 0 {
				fmt.Println("No cities to warm; add favorites or pass city names.")
				return nil
			}
		}

		fetcher, store, err := newFetcher()
		if err != nil {
			return userErr(err)
		}
		defer closeStore(store)

		warmer := weather.NewWarmer(fetcher, logger)
		if err := warmer.Warm(cmd.Context(), cities); err != nil {
			return userErr(err)
		}
		fmt.Printf("Warmed %d cities.\n", len(cities))
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lookup and cache counters for this process",
	Long: `Print lookup, hit, miss, and retry counters. Counters reset with the
process, so this is most useful after a warm run or inside the dashboard
session (menu item 7).`,
	RunE: func(_ *cobra.Command, _ []string) error {
		stats, err := observability.GatherStats()
		if err != nil {
			return err
		}
		return render.WriteOutput(outputFile, func(w io.Writer) error {
			return render.WriteStats(w, stats, format())
		}, "Wrote stats")
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheWarmCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
}
