package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kjstillabower/deskmate/internal/render"
)

// currentCmd fetches current conditions for one city.
var currentCmd = &cobra.Command{
	Use:   "current [city]",
	Short: "Show current weather for a city",
	Long: `Fetch current conditions for a city, serving from cache when the last
fetch is under the freshness window (ten minutes by default).

With no argument the configured weather.default_city is used.

Examples:
  deskmate-weather current London
  deskmate-weather current "New York" -o json`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		city := strings.Join(args, " ")
		if city == "" {
			city = cfg.DefaultCity
		}
		if city == "" {
			return fmt.Errorf("no city given and weather.default_city is not configured")
		}

		fetcher, store, err := newFetcher()
		if err != nil {
			return userErr(err)
		}
		defer closeStore(store)

		cur, err := fetcher.Current(cmd.Context(), city)
		if err != nil {
			return userErr(err)
		}
		return render.WriteOutput(outputFile, func(w io.Writer) error {
			return render.WriteCurrent(w, cur, format())
		}, "Wrote weather")
	},
}
