// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

// Package recommend ranks catalog media into feeds.
//
// # Feeds
//
//   - Popular: community favourites above a rate and vote threshold
//   - Nearest: everything in one city, ranked like Popular
//   - Personalized: the user's own highly rated items, topped up with
//     similar items, or the popular feed when the user has none
//   - Similar: keyword and city overlap with a seed set
//
// The engine also reports a user's interest distribution by place and
// city, splits the full media list by the user's own ratings, and lists a
// user's ratings.
//
// # Determinism
//
// Every ordering uses a stable sort. Items whose sort keys compare equal
// keep the order the DataProvider returned them in.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), provider, logger)
//	if err != nil {
//	    return err
//	}
//	feed, err := engine.Popular(ctx, 20)
//
// # Thread Safety
//
// Engine holds only its configuration and a provider reference, both
// fixed at construction, and is safe for concurrent use. Concurrency
// guarantees for reads are those of the DataProvider.
package recommend
