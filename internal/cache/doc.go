// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

/*
Package cache provides a thread-safe in-memory cache with TTL expiration.

The location resolver uses it to memoize GeoIP lookups per client IP so a
burst of requests from one address costs a single upstream call. Entries
expire lazily on Get and are swept by a background loop that stops on
Close.

# Usage Example

	c := cache.New[*models.Geolocation](10 * time.Minute)
	defer c.Close()

	c.Set("203.0.113.7", geo)
	if geo, ok := c.Get("203.0.113.7"); ok {
	    // use geo
	}
*/
package cache
