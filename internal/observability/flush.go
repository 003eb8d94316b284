package observability

import (
	"go.uber.org/zap"
)

// FlushTelemetry flushes buffered log output before process exit. Metrics are
// in-process counters read via GatherStats, so logs are the only buffer.
// Sync on a terminal stderr often returns EINVAL, which is not actionable;
// callers defer this and ignore the error.
func FlushTelemetry(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}
	return logger.Sync()
}
