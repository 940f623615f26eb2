// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

/*
Package middleware provides HTTP middleware shared by the cityfeed router.

Key Components:

  - Request ID: accepts or generates an X-Request-ID and stores it, together
    with a fresh correlation ID, in the logging context
  - Prometheus Metrics: request totals, durations and active requests labeled
    by chi route pattern

Both are plain func(http.Handler) http.Handler values and plug into chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

Endpoint labels use the matched route pattern ("/api/v1/feeds/popular")
rather than the raw path so query strings and unknown paths cannot grow
label cardinality. Unmatched requests are labeled "unmatched".
*/
package middleware
