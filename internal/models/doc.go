// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

/*
Package models defines the records exchanged between Cityfeed packages.

Catalog records (City, Place, MediaItem, Rating) are value types. They are
produced by a catalog provider and are never mutated by the recommendation
engine. Request-scoped annotations such as a user's own rate or a match
reason live on recommend.ScoredItem, not here.

Geolocation is the result of an external IP lookup, and APIResponse is the
envelope every HTTP endpoint writes.

Invariants:

  - MediaItem.RatingsCount == 0 implies MediaItem.OverallRate == 0
  - OverallRate is rounded to two decimals once, when the aggregate is computed
*/
package models
