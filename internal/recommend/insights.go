// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Interests counts the user's liked items per place and per city, each
// breakdown ordered by count descending. Users without liked items get
// empty breakdowns.
func (e *Engine) Interests(ctx context.Context, userID uuid.UUID) (*Interests, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUserID
	}

	snap, err := e.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	cities, err := e.provider.GetCities(ctx)
	if err != nil {
		return nil, fmt.Errorf("get cities: %w", err)
	}
	cityNames := make(map[string]string, len(cities))
	for i := range cities {
		cityNames[cities[i].ID] = cities[i].Name
	}

	places := newCounter()
	byCity := newCounter()
	for i := range snap.ratings {
		r := &snap.ratings[i]
		if !r.Liked {
			continue
		}
		m, ok := snap.mediaByID[r.MediaID]
		if !ok {
			continue
		}
		p, ok := snap.places[m.PlaceID]
		if !ok {
			continue
		}
		places.add(p.ID, p.Name)
		if name, ok := cityNames[p.CityID]; ok {
			byCity.add(p.CityID, name)
		}
	}

	return &Interests{
		Places: places.sorted(),
		Cities: byCity.sorted(),
	}, nil
}

// MediaFeed returns every item ordered by (overall rate, ratings count)
// descending. With a user, items the user rated carry the user's rate and
// are split into RatedHigh (own rate descending) and RatedLow (own rate
// ascending); unrated items appear only in All.
func (e *Engine) MediaFeed(ctx context.Context, userID *uuid.UUID) (*MediaFeed, error) {
	uid := uuid.Nil
	if userID != nil {
		uid = *userID
	}

	snap, err := e.loadSnapshot(ctx, uid)
	if err != nil {
		return nil, err
	}

	all := make([]ScoredItem, len(snap.media))
	for i := range snap.media {
		all[i] = ScoredItem{MediaItem: snap.media[i]}
	}
	sortByCommunity(all)

	feed := &MediaFeed{All: all}
	if uid == uuid.Nil {
		return feed, nil
	}

	rates := make(map[string]float64, len(snap.ratings))
	for i := range snap.ratings {
		rates[snap.ratings[i].MediaID] = snap.ratings[i].Rate
	}

	feed.RatedHigh = []ScoredItem{}
	feed.RatedLow = []ScoredItem{}
	for i := range feed.All {
		rate, ok := rates[feed.All[i].ID]
		if !ok {
			continue
		}
		item := e.annotate(feed.All[i].MediaItem, rate, "")
		feed.All[i] = item
		if *item.Liked {
			feed.RatedHigh = append(feed.RatedHigh, item)
		} else {
			feed.RatedLow = append(feed.RatedLow, item)
		}
	}

	sort.SliceStable(feed.RatedHigh, func(i, j int) bool {
		return *feed.RatedHigh[i].UserRate > *feed.RatedHigh[j].UserRate
	})
	sort.SliceStable(feed.RatedLow, func(i, j int) bool {
		return *feed.RatedLow[i].UserRate < *feed.RatedLow[j].UserRate
	})
	return feed, nil
}

// UserRatings lists the user's ratings joined with their media, ordered by
// (rate, updated at) descending. Ratings of media missing from the catalog
// are skipped.
func (e *Engine) UserRatings(ctx context.Context, userID uuid.UUID) ([]RatedMedia, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUserID
	}

	snap, err := e.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]RatedMedia, 0, len(snap.ratings))
	for i := range snap.ratings {
		r := &snap.ratings[i]
		m, ok := snap.mediaByID[r.MediaID]
		if !ok {
			continue
		}
		out = append(out, RatedMedia{
			Media:     *m,
			Rate:      r.Rate,
			Liked:     r.Liked,
			UpdatedAt: r.UpdatedAt,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rate != out[j].Rate {
			return out[i].Rate > out[j].Rate
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// counter tallies occurrences while remembering first-seen order.
type counter struct {
	index   map[string]int
	buckets []InterestCount
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(id, name string) {
	if i, ok := c.index[id]; ok {
		c.buckets[i].Count++
		return
	}
	c.index[id] = len(c.buckets)
	c.buckets = append(c.buckets, InterestCount{ID: id, Name: name, Count: 1})
}

func (c *counter) sorted() []InterestCount {
	out := make([]InterestCount, len(c.buckets))
	copy(out, c.buckets)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
