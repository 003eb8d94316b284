package observability

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

var (
	registry *prometheus.Registry

	// Total weather lookups by kind (current, forecast). Watch for: traffic volume per call type.
	WeatherLookupsTotal *prometheus.CounterVec

	// Cache hits by kind. Hit rate = hits/(hits+misses).
	CacheHitsTotal *prometheus.CounterVec

	// Cache misses by kind. Counts absent and expired entries alike.
	CacheMissesTotal *prometheus.CounterVec

	// Entries served past the freshness window after an upstream failure.
	StaleServesTotal *prometheus.CounterVec

	// Cache backend failures by operation and reason (timeout, connection, unknown).
	CacheErrorsTotal *prometheus.CounterVec

	// OpenWeatherMap API call rate. Watch for: error vs success ratio.
	WeatherAPICallsTotal *prometheus.CounterVec

	// External API latency per request. Watch for: p95 > 2s (upstream degradation).
	WeatherAPIDuration *prometheus.HistogramVec

	// Retry attempts for weather API. Watch for: high retries = unstable upstream.
	WeatherAPIRetriesTotal prometheus.Counter

	// Provider circuit breaker transitions, labeled by the state entered.
	CircuitBreakerTransitionsTotal *prometheus.CounterVec

	// Cache warming runs, failures and duration.
	CacheWarmingTotal           prometheus.Counter
	CacheWarmingErrorsTotal     prometheus.Counter
	CacheWarmingDurationSeconds prometheus.Histogram
)

func init() {
	registry = prometheus.NewRegistry()

	WeatherLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherLookupsTotal",
			Help: "Total number of weather lookups",
		},
		[]string{"kind"},
	)
	CacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cacheHitsTotal",
			Help: "Total number of cache hits",
		},
		[]string{"kind"},
	)
	CacheMissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cacheMissesTotal",
			Help: "Total number of cache misses (absent or past the freshness window)",
		},
		[]string{"kind"},
	)
	StaleServesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staleServesTotal",
			Help: "Entries served past the freshness window after an upstream failure",
		},
		[]string{"kind"},
	)
	CacheErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cacheErrorsTotal",
			Help: "Cache backend failures by operation and reason",
		},
		[]string{"operation", "reason"},
	)
	WeatherAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherApiCallsTotal",
			Help: "Total number of OpenWeatherMap API calls",
		},
		[]string{"status"},
	)
	WeatherAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherApiDurationSeconds",
			Help:    "OpenWeatherMap API latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)
	WeatherAPIRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "weatherApiRetriesTotal",
			Help: "Total number of retry attempts for weather API calls",
		},
	)
	CircuitBreakerTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuitBreakerTransitionsTotal",
			Help: "Provider circuit breaker transitions by the state entered",
		},
		[]string{"state"},
	)
	CacheWarmingTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cacheWarmingTotal",
			Help: "Total number of cache warming runs",
		},
	)
	CacheWarmingErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cacheWarmingErrorsTotal",
			Help: "Cache warming runs that had at least one failed city",
		},
	)
	CacheWarmingDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cacheWarmingDurationSeconds",
			Help:    "Cache warming duration in seconds (per run)",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	registry.MustRegister(
		WeatherLookupsTotal, CacheHitsTotal, CacheMissesTotal,
		StaleServesTotal, CacheErrorsTotal,
		WeatherAPICallsTotal, WeatherAPIDuration, WeatherAPIRetriesTotal,
		CircuitBreakerTransitionsTotal,
		CacheWarmingTotal, CacheWarmingErrorsTotal, CacheWarmingDurationSeconds,
	)
}

// Stats is a point-in-time summary of the process counters, for the session
// stats view and the cache stats command.
type Stats struct {
	Lookups        int64
	CacheHits      int64
	CacheMisses    int64
	StaleServes    int64
	UpstreamCalls  int64
	UpstreamErrors int64
	Retries        int64
}

// HitRatio returns hits/(hits+misses), or 0 before the first lookup.
func (s Stats) HitRatio() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

// GatherStats collects the registry into a Stats snapshot. Counter vectors
// are summed across their labels; upstream errors are calls whose status
// label is not "success".
func GatherStats() (Stats, error) {
	families, err := registry.Gather()
	if err != nil {
		return Stats{}, err
	}
	var stats Stats
	for _, mf := range families {
		switch mf.GetName() {
		case "weatherLookupsTotal":
			stats.Lookups = sumCounters(mf)
		case "cacheHitsTotal":
			stats.CacheHits = sumCounters(mf)
		case "cacheMissesTotal":
			stats.CacheMisses = sumCounters(mf)
		case "staleServesTotal":
			stats.StaleServes = sumCounters(mf)
		case "weatherApiCallsTotal":
			stats.UpstreamCalls = sumCounters(mf)
			stats.UpstreamErrors = sumCountersWhere(mf, "status", func(v string) bool { return v != "success" })
		case "weatherApiRetriesTotal":
			stats.Retries = sumCounters(mf)
		}
	}
	return stats, nil
}

func sumCounters(mf *dto.MetricFamily) int64 {
	var sum float64
	for _, m := range mf.GetMetric() {
		sum += m.GetCounter().GetValue()
	}
	return int64(math.Round(sum))
}

func sumCountersWhere(mf *dto.MetricFamily, label string, match func(string) bool) int64 {
	var sum float64
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == label && match(lp.GetValue()) {
				sum += m.GetCounter().GetValue()
			}
		}
	}
	return int64(math.Round(sum))
}
