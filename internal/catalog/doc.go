// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

/*
Package catalog provides the static data provider backed by fixture records.

A fixture is a JSON document with four arrays: cities, places, media and
ratings. Media aggregates (overall_rate, ratings_count) are taken from the
fixture as-is; they are not recomputed from the ratings array. The ratings
array feeds per-user reads and database seeding.

The embedded default fixture is used when no path is configured:

	p := catalog.NewStaticProvider("", logger)
	media, err := p.GetMedia(ctx)

The fixture is parsed on first use and kept by the provider instance until
Reload is called.
*/
package catalog
