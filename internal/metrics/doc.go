// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

/*
Package metrics provides Prometheus instrumentation for Cityfeed.

All collectors are registered on the default registry through promauto
and exposed by the API at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

HTTP:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Catalog storage:
  - duckdb_query_duration_seconds{operation, table}
  - duckdb_query_errors_total{operation, table, error_type}

Feeds:
  - feed_requests_total{feed, outcome}
  - feed_items_served_total{feed}
  - personalized_fallbacks_total

Location:
  - location_resolutions_total{source}
  - geoip_lookups_total{provider, result}
  - geoip_lookup_duration_seconds{provider}
  - cache_hits_total{cache_type}, cache_misses_total{cache_type}
  - circuit_breaker_state{name} and related circuit breaker series

Helpers such as RecordFeed and RecordGeoIPLookup keep label values
consistent across call sites.
*/
package metrics
