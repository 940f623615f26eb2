// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Feed Metrics
	FeedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_requests_total",
			Help: "Total number of feed computations",
		},
		[]string{"feed", "outcome"}, // outcome: "ok", "empty", "client_error", "error"
	)

	FeedItemsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_items_served_total",
			Help: "Total number of items returned across feeds",
		},
		[]string{"feed"},
	)

	PersonalizedFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "personalized_fallbacks_total",
			Help: "Personalized requests answered with the popular feed",
		},
	)

	// Location Metrics
	LocationResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_resolutions_total",
			Help: "Location resolutions by winning tier",
		},
		[]string{"source"}, // "name_match", "coordinate_match", "manual_override", "unresolved"
	)

	GeoIPLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geoip_lookups_total",
			Help: "GeoIP provider lookups",
		},
		[]string{"provider", "result"}, // result: "success", "failure", "rate_limited", "rejected"
	)

	GeoIPLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geoip_lookup_duration_seconds",
			Help:    "GeoIP provider lookup duration in seconds",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 1.5, 2},
		},
		[]string{"provider"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Number of entries currently held by a cache",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_evictions",
			Help: "Entries evicted from a cache since it was created",
		},
		[]string{"cache_type"},
	)

	CacheHitRate = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_hit_rate_percent",
			Help: "Cache hit rate as a percentage of all lookups",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordFeed records one feed computation and the number of items it returned.
func RecordFeed(feed, outcome string, items int) {
	FeedRequests.WithLabelValues(feed, outcome).Inc()
	if items > 0 {
		FeedItemsServed.WithLabelValues(feed).Add(float64(items))
	}
}

// RecordPersonalizedFallback counts a popular fallback for a personalized request.
func RecordPersonalizedFallback() {
	PersonalizedFallbacks.Inc()
}

// RecordLocationResolution counts a location resolution by tier.
func RecordLocationResolution(source string) {
	LocationResolutions.WithLabelValues(source).Inc()
}

// RecordGeoIPLookup records a provider lookup outcome.
func RecordGeoIPLookup(provider, result string, duration time.Duration) {
	GeoIPLookups.WithLabelValues(provider, result).Inc()
	if duration > 0 {
		GeoIPLookupDuration.WithLabelValues(provider).Observe(duration.Seconds())
	}
}

// RecordCacheAccess records a cache hit or miss for a cache type.
func RecordCacheAccess(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordCacheStats publishes a cache's own counters as gauges.
func RecordCacheStats(cacheType string, entries, evictions int64, hitRate float64) {
	CacheEntries.WithLabelValues(cacheType).Set(float64(entries))
	CacheEvictions.WithLabelValues(cacheType).Set(float64(evictions))
	CacheHitRate.WithLabelValues(cacheType).Set(hitRate)
}
