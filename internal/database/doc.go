// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

/*
Package database implements the live data provider on DuckDB.

The schema holds the catalog (cities, places, media), user ratings and a
geolocation lookup cache. Media aggregates are computed at query time:

	overall_rate  = COALESCE(ROUND(AVG(rate), 2), 0)
	ratings_count = COUNT(rate)

so an unrated item reads as 0.0/0 and the aggregates always agree with the
ratings table.

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	if err := db.Seed(ctx, fixture); err != nil {
	    return err
	}
	media, err := db.GetMedia(ctx)

DB satisfies recommend.DataProvider and geo.LookupStore. Every query runs
under a timeout (database.query_timeout) and is recorded in the
cityfeed_db_query_* Prometheus metrics.

# Testing

Tests open ":memory:" databases, one per test.
*/
package database
