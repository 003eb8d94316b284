package weather

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/deskmate/internal/observability"
)

// Warmer prefetches current conditions for a list of cities so a session
// starts with a populated cache. It is the one concurrent writer the cache
// stores see. An in-flight set keeps overlapping warm rounds (a slow round
// still running when the next interval fires) from fetching a city twice.
type Warmer struct {
	fetcher *Fetcher
	logger  *zap.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

// NewWarmer creates a Warmer over the given fetcher.
func NewWarmer(fetcher *Fetcher, logger *zap.Logger) *Warmer {
	return &Warmer{fetcher: fetcher, logger: logger, inflight: make(map[string]bool)}
}

// begin claims a city for this warm round. It reports false when another
// round is already fetching it.
func (w *Warmer) begin(city string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inflight[city] {
		return false
	}
	w.inflight[city] = true
	return true
}

func (w *Warmer) end(city string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inflight, city)
}

// Warm fetches current conditions for each city concurrently, populating the
// cache through the fetcher. Returns an aggregated error if any city failed;
// the rest are still warmed.
func (w *Warmer) Warm(ctx context.Context, cities []string) error {
	start := time.Now()
	observability.CacheWarmingTotal.Inc()
	if w.logger != nil {
		w.logger.Info("warming cache", zap.Int("cities", len(cities)))
	}
	var wg sync.WaitGroup
	errCh := make(chan error, len(cities))
	for _, city := range cities {
		city := city
		key := normalizeCity(city)
		if !w.begin(key) {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer w.end(key)
			if _, err := w.fetcher.Current(ctx, city); err != nil {
				errCh <- fmt.Errorf("warm %s: %w", city, err)
			}
		}()
	}
	wg.Wait()
	close(errCh)
	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	duration := time.Since(start).Seconds()
	observability.CacheWarmingDurationSeconds.Observe(duration)
	if w.logger != nil {
		w.logger.Info("cache warming complete", zap.Int("cities", len(cities)), zap.Int("errors", len(errs)), zap.Float64("duration_seconds", duration))
	}
	if len(errs) > 0 {
		observability.CacheWarmingErrorsTotal.Inc()
		return fmt.Errorf("cache warming: %v", errs)
	}
	return nil
}

// WarmPeriodic runs an initial Warm, then refreshes at the given interval
// until ctx is done. Used by long-lived dashboard sessions to keep the
// favorite cities inside the freshness window.
func (w *Warmer) WarmPeriodic(ctx context.Context, cities []string, interval time.Duration) error {
	if err := w.Warm(ctx, cities); err != nil && w.logger != nil {
		w.logger.Warn("initial cache warm failed", zap.Error(err))
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Warm(ctx, cities); err != nil && w.logger != nil {
				w.logger.Warn("periodic cache warm failed", zap.Error(err))
			}
		}
	}
}
