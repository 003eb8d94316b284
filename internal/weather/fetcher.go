package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/deskmate/internal/cache"
	"github.com/kjstillabower/deskmate/internal/observability"
	"github.com/kjstillabower/deskmate/internal/validation"
)

// Client is the upstream weather provider as the Fetcher sees it.
type Client interface {
	Current(ctx context.Context, city string) (Current, error)
	Forecast(ctx context.Context, city string) (Forecast, error)
}

// Cache key namespaces. Current and forecast lookups for the same city never
// collide.
const (
	kindCurrent  = "current"
	kindForecast = "forecast"
)

// City name bounds checked before any cache or upstream work.
const (
	minCityLen = 1
	maxCityLen = 100
)

// Fetcher serves weather lookups cache-aside: a fresh cached entry is
// returned without touching the network, anything else goes upstream, and
// only successful fetches are written back. Each Fetcher owns its cache
// store; there is no package-level state.
type Fetcher struct {
	client      Client
	store       cache.Store
	ttl         time.Duration
	staleMaxAge time.Duration // Maximum age for stale fallback after an upstream failure (0 = disabled)
	logger      *zap.Logger
	now         func() time.Time
}

// NewFetcher creates a Fetcher. ttl is the freshness window (default 10m if
// zero). staleMaxAge enables last-known-good fallback when positive.
func NewFetcher(client Client, store cache.Store, ttl, staleMaxAge time.Duration, logger *zap.Logger) *Fetcher {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Fetcher{
		client:      client,
		store:       store,
		ttl:         ttl,
		staleMaxAge: staleMaxAge,
		logger:      logger,
		now:         time.Now,
	}
}

// Current returns current conditions for the city. Cached entries younger
// than the freshness window are served with Cached=true and no upstream
// call. A failed fetch never writes the cache; it surfaces the provider
// error unless a stale entry within staleMaxAge can stand in.
func (f *Fetcher) Current(ctx context.Context, city string) (Current, error) {
	city, err := validation.ValidateCity(city, minCityLen, maxCityLen)
	if err != nil {
		return Current{}, err
	}
	norm := normalizeCity(city)
	key := cacheKey(kindCurrent, norm)
	start := f.now()
	observability.WeatherLookupsTotal.WithLabelValues(kindCurrent).Inc()

	entry, found, err := f.store.Get(ctx, key)
	if err != nil {
		observability.CacheErrorsTotal.WithLabelValues("get", categorizeCacheError(err)).Inc()
		if f.logger != nil {
			f.logger.Warn("cache get failed", zap.String("city", norm), zap.Error(err))
		}
		found = false
	}
	if found && f.now().Sub(entry.FetchedAt) < f.ttl {
		var cur Current
		if err := json.Unmarshal(entry.Payload, &cur); err == nil {
			observability.CacheHitsTotal.WithLabelValues(kindCurrent).Inc()
			cur.Cached = true
			if f.logger != nil {
				f.logger.Debug("cache hit", zap.String("kind", kindCurrent), zap.String("city", norm))
			}
			return cur, nil
		}
		// Undecodable entry: fall through and refetch.
		found = false
	}

	observability.CacheMissesTotal.WithLabelValues(kindCurrent).Inc()
	if f.logger != nil {
		f.logger.Debug("cache miss, fetching upstream", zap.String("kind", kindCurrent), zap.String("city", norm))
	}

	cur, upstreamErr := f.client.Current(ctx, norm)
	if upstreamErr != nil {
		if found && f.staleMaxAge > 0 {
			age := f.now().Sub(entry.FetchedAt)
			if age <= f.staleMaxAge {
				var stale Current
				if err := json.Unmarshal(entry.Payload, &stale); err == nil {
					observability.StaleServesTotal.WithLabelValues(kindCurrent).Inc()
					stale.Cached = true
					stale.Stale = true
					if f.logger != nil {
						f.logger.Info("serving stale cache", zap.String("kind", kindCurrent), zap.String("city", norm), zap.Duration("age", age))
					}
					return stale, nil
				}
			}
		}
		return Current{}, fmt.Errorf("fetch weather for %s: %w", norm, upstreamErr)
	}

	f.storeEntry(ctx, key, norm, cur)
	if f.logger != nil {
		f.logger.Debug("weather served", zap.String("kind", kindCurrent), zap.String("city", norm), zap.Bool("cached", false), zap.Duration("duration", f.now().Sub(start)))
	}
	return cur, nil
}

// Forecast returns the five-day outlook for the city. Same cache policy as
// Current, in a separate key namespace.
func (f *Fetcher) Forecast(ctx context.Context, city string) (Forecast, error) {
	city, err := validation.ValidateCity(city, minCityLen, maxCityLen)
	if err != nil {
		return Forecast{}, err
	}
	norm := normalizeCity(city)
	key := cacheKey(kindForecast, norm)
	start := f.now()
	observability.WeatherLookupsTotal.WithLabelValues(kindForecast).Inc()

	entry, found, err := f.store.Get(ctx, key)
	if err != nil {
		observability.CacheErrorsTotal.WithLabelValues("get", categorizeCacheError(err)).Inc()
		if f.logger != nil {
			f.logger.Warn("cache get failed", zap.String("city", norm), zap.Error(err))
		}
		found = false
	}
	if found && f.now().Sub(entry.FetchedAt) < f.ttl {
		var fc Forecast
		if err := json.Unmarshal(entry.Payload, &fc); err == nil {
			observability.CacheHitsTotal.WithLabelValues(kindForecast).Inc()
			fc.Cached = true
			if f.logger != nil {
				f.logger.Debug("cache hit", zap.String("kind", kindForecast), zap.String("city", norm))
			}
			return fc, nil
		}
		found = false
	}

	observability.CacheMissesTotal.WithLabelValues(kindForecast).Inc()
	if f.logger != nil {
		f.logger.Debug("cache miss, fetching upstream", zap.String("kind", kindForecast), zap.String("city", norm))
	}

	fc, upstreamErr := f.client.Forecast(ctx, norm)
	if upstreamErr != nil {
		if found && f.staleMaxAge > 0 {
			age := f.now().Sub(entry.FetchedAt)
			if age <= f.staleMaxAge {
				var stale Forecast
				if err := json.Unmarshal(entry.Payload, &stale); err == nil {
					observability.StaleServesTotal.WithLabelValues(kindForecast).Inc()
					stale.Cached = true
					stale.Stale = true
					if f.logger != nil {
						f.logger.Info("serving stale cache", zap.String("kind", kindForecast), zap.String("city", norm), zap.Duration("age", age))
					}
					return stale, nil
				}
			}
		}
		return Forecast{}, fmt.Errorf("fetch forecast for %s: %w", norm, upstreamErr)
	}

	f.storeEntry(ctx, key, norm, fc)
	if f.logger != nil {
		f.logger.Debug("weather served", zap.String("kind", kindForecast), zap.String("city", norm), zap.Bool("cached", false), zap.Duration("duration", f.now().Sub(start)))
	}
	return fc, nil
}

// storeEntry writes a fetched payload back to the cache. Failures are logged
// and counted but never surfaced; the lookup already has its answer.
func (f *Fetcher) storeEntry(ctx context.Context, key, city string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		if f.logger != nil {
			f.logger.Warn("encode cache entry failed", zap.String("city", city), zap.Error(err))
		}
		return
	}
	if err := f.store.Set(ctx, key, cache.Entry{Payload: raw, FetchedAt: f.now()}); err != nil {
		observability.CacheErrorsTotal.WithLabelValues("set", categorizeCacheError(err)).Inc()
		if f.logger != nil {
			f.logger.Warn("cache set failed", zap.String("city", city), zap.Error(err))
		}
	}
}

// categorizeCacheError returns a stable label for cache error metrics (timeout, connection, unknown).
func categorizeCacheError(err error) string {
	if err == nil {
		return "unknown"
	}
	errStr := err.Error()
	if strings.Contains(errStr, "timeout") {
		return "timeout"
	}
	if strings.Contains(errStr, "connection") || strings.Contains(errStr, "network") {
		return "connection"
	}
	return "unknown"
}

// normalizeCity normalizes city names by trimming whitespace and lowercasing.
// Ensures consistent cache keys and API requests regardless of input casing.
func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

func cacheKey(kind, city string) string {
	return kind + ":" + city
}
