// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package recommend

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/tomtom215/cityfeed/internal/models"
)

// Similar ranks media by overlap with the seed items.
//
// A candidate earns TopicBonus when its keywords intersect the seeds'
// keywords (reason similar_topic), CityBonus when its place is in a seed
// city (reason same_city, only when no topic reason was earned), and
// overall rate / RateDivisor in every case. Seeds, excludedIDs and, when
// userID is set, items the user already rated are never returned.
// Unknown seed IDs are ignored; an empty seed list yields ErrMissingSeeds.
func (e *Engine) Similar(ctx context.Context, userID uuid.UUID, seedIDs, excludedIDs []string, limit int) ([]ScoredItem, error) {
	if len(seedIDs) == 0 {
		return nil, ErrMissingSeeds
	}
	snap, err := e.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]struct{}, len(excludedIDs)+len(seedIDs)+len(snap.ratings))
	for _, id := range excludedIDs {
		excluded[id] = struct{}{}
	}
	for i := range snap.ratings {
		excluded[snap.ratings[i].MediaID] = struct{}{}
	}

	seeds := make([]models.MediaItem, 0, len(seedIDs))
	for _, id := range seedIDs {
		excluded[id] = struct{}{}
		if m, ok := snap.mediaByID[id]; ok {
			seeds = append(seeds, *m)
		}
	}

	if len(seeds) == 0 {
		return []ScoredItem{}, nil
	}
	return e.similar(snap, seeds, excluded, e.config.normalizeLimit(limit)), nil
}

func (e *Engine) similar(snap *snapshot, seeds []models.MediaItem, excluded map[string]struct{}, limit int) []ScoredItem {
	sim := e.config.Similarity

	seedKeywords := make(keywordSet)
	seedCities := make(map[string]struct{})
	for i := range seeds {
		for k := range extractKeywords(seeds[i].Title + " " + seeds[i].Caption) {
			seedKeywords[k] = struct{}{}
		}
		if city := snap.cityOf(&seeds[i]); city != "" {
			seedCities[city] = struct{}{}
		}
	}

	candidates := make([]ScoredItem, 0, len(snap.media))
	for i := range snap.media {
		m := &snap.media[i]
		if _, skip := excluded[m.ID]; skip {
			continue
		}

		var (
			score  float64
			reason MatchReason
		)
		if extractKeywords(m.Title + " " + m.Caption).intersects(seedKeywords) {
			score += sim.TopicBonus
			reason = ReasonSimilarTopic
		}
		if city := snap.cityOf(m); city != "" {
			if _, ok := seedCities[city]; ok {
				score += sim.CityBonus
				if reason == "" {
					reason = ReasonSameCity
				}
			}
		}
		score += m.OverallRate / sim.RateDivisor

		candidates = append(candidates, ScoredItem{MediaItem: *m, MatchReason: reason, Score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return truncate(candidates, limit)
}
