// Command deskmate-inventory manages stock across locations with role-based
// accounts and a transaction ledger, backed by SQLite, MySQL, or PostgreSQL.
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
