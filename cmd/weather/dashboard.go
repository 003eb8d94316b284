package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kjstillabower/deskmate/internal/console"
	"github.com/kjstillabower/deskmate/internal/weather"
)

// dashboardCmd runs the interactive menu session.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Run the interactive weather dashboard",
	Long: `Start a menu-driven session for weather lookups and favorite city
management. Favorite cities are warmed into the cache in the background at
startup so browsing them is instant; set dashboard.warm_on_start: false to
skip that.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fetcher, store, err := newFetcher()
		if err != nil {
			return userErr(err)
		}
		defer closeStore(store)

		favs := newFavorites()
		ctx := cmd.Context()

		if cfg.WarmOnStart {
			cities, err := favs.List()
			if err != nil {
				logger.Warn("read favorites for warming", zap.Error(err))
			} else if len(cities) > 0 {
				warmer := weather.NewWarmer(fetcher, logger)
				if cfg.WarmInterval > 0 {
					go warmer.WarmPeriodic(ctx, cities, cfg.WarmInterval)
				} else {
					go func() {
						if err := warmer.Warm(ctx, cities); err != nil {
							logger.Warn("cache warming", zap.Error(err))
						}
					}()
				}
			}
		}

		dash := console.New(fetcher, favs, logger, os.Stdin, os.Stdout)
		if err := dash.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}
