package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kjstillabower/deskmate/internal/render"
)

// forecastCmd fetches the 5-day forecast for one city.
var forecastCmd = &cobra.Command{
	Use:   "forecast [city]",
	Short: "Show the 5-day forecast for a city",
	Long: `Fetch the daily forecast for a city. Forecasts cache separately from
current conditions, so a cached forecast never masks fresh conditions or the
other way around.

Examples:
  deskmate-weather forecast Tokyo
  deskmate-weather forecast Berlin -o csv --output-file berlin.csv`,
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

		fc, err := fetcher.Forecast(cmd.Context(), city)
		if err != nil {
			return userErr(err)
		}
		return render.WriteOutput(outputFile, func(w io.Writer) error {
			return render.WriteForecast(w, fc, format())
		}, "Wrote forecast")
	},
}
