// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

/*
Package geo maps a client to a catalog city.

# Resolution Order

Resolver.Resolve tries each tier in turn and stops at the first success:

 1. A usable public client IP is looked up through the configured GeoIP
    providers, each call bounded by a short timeout.
 2. A returned city name is matched case-insensitively against catalog
    city names (source name_match).
 3. Otherwise returned coordinates select the closest catalog city by
    haversine distance (source coordinate_match).
 4. Otherwise an explicit city id is matched case-insensitively against
    catalog city ids (source manual_override).
 5. Otherwise the resolution is unresolved.

Lookup failures of any kind (network errors, timeouts, rate limits, open
circuit breakers, malformed payloads) are logged and counted, then treated
as "no geolocation data". They never reach the caller.

# Providers

  - ipapi.co over HTTPS (default, no key)
  - ip-api.com (no key, 45 requests per minute)
  - MaxMind GeoLite2 web service (account id and license key)

Each provider carries its own token bucket from golang.org/x/time/rate and
can be wrapped in a sony/gobreaker circuit breaker with WithCircuitBreaker.
*/
package geo
