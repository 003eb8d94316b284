// Command deskmate-expenses tracks personal spending in a CSV ledger with
// monthly and per-category reporting.
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
