// Command deskmate-weather looks up current conditions and forecasts with a
// local cache, favorite city management, and an interactive dashboard.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kjstillabower/deskmate/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	_ = observability.FlushTelemetry(logger)
	if err != nil {
		os.Exit(1)
	}
}
