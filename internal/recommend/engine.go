// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package recommend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cityfeed/internal/models"
)

// Engine produces ranked feeds from a DataProvider snapshot.
// It never writes to the provider and is safe for concurrent use.
type Engine struct {
	config   *Config
	provider DataProvider
	logger   zerolog.Logger
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, provider DataProvider, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if provider == nil {
		return nil, errors.New("data provider is required")
	}

	return &Engine{
		config:   cfg.Clone(),
		provider: provider,
		logger:   logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Liked reports whether rate meets the personalized threshold.
func (e *Engine) Liked(rate float64) bool {
	return rate >= e.config.Thresholds.PersonalizedMinUserRate
}

// Popular returns items with overall rate and ratings count at or above the
// popular thresholds, ordered by (overall rate, ratings count) descending.
func (e *Engine) Popular(ctx context.Context, limit int) ([]ScoredItem, error) {
	media, err := e.provider.GetMedia(ctx)
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}
	return e.popular(media, e.config.normalizeLimit(limit)), nil
}

func (e *Engine) popular(media []models.MediaItem, limit int) []ScoredItem {
	th := e.config.Thresholds
	items := make([]ScoredItem, 0, len(media))
	for i := range media {
		m := &media[i]
		if m.OverallRate >= th.PopularMinOverallRate && m.RatingsCount >= th.PopularMinVotes {
			items = append(items, ScoredItem{MediaItem: *m})
		}
	}
	sortByCommunity(items)
	return truncate(items, limit)
}

// Nearest returns every item whose place lies in cityID, tagged your_nearest,
// ordered like Popular. An unknown city yields an empty feed.
func (e *Engine) Nearest(ctx context.Context, cityID string, limit int) ([]ScoredItem, error) {
	cityID = strings.TrimSpace(cityID)
	if cityID == "" {
		return nil, ErrMissingCityID
	}

	cities, err := e.provider.GetCities(ctx)
	if err != nil {
		return nil, fmt.Errorf("get cities: %w", err)
	}
	if !containsCity(cities, cityID) {
		e.logger.Debug().Str("city_id", cityID).Msg("Nearest feed requested for unknown city")
		return []ScoredItem{}, nil
	}

	places, err := e.provider.GetCityPlaces(ctx, cityID)
	if err != nil {
		return nil, fmt.Errorf("get city places: %w", err)
	}
	inCity := make(map[string]struct{}, len(places))
	for i := range places {
		inCity[places[i].ID] = struct{}{}
	}

	media, err := e.provider.GetMedia(ctx)
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}

	items := make([]ScoredItem, 0)
	for i := range media {
		if _, ok := inCity[media[i].PlaceID]; ok {
			items = append(items, ScoredItem{MediaItem: media[i], MatchReason: ReasonNearest})
		}
	}
	sortByCommunity(items)
	return truncate(items, e.config.normalizeLimit(limit)), nil
}

// Personalized returns the user's own liked items ordered by (own rate,
// overall rate, ratings count) descending, topped up with similar items.
// When the user has no liked items the popular feed is returned with
// Source set to SourcePopularFallback.
func (e *Engine) Personalized(ctx context.Context, userID uuid.UUID, limit int) (*PersonalizedResult, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUserID
	}
	limit = e.config.normalizeLimit(limit)

	snap, err := e.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	base := make([]ScoredItem, 0, len(snap.ratings))
	for i := range snap.ratings {
		r := &snap.ratings[i]
		if !r.Liked {
			continue
		}
		m, ok := snap.mediaByID[r.MediaID]
		if !ok {
			continue
		}
		base = append(base, e.annotate(*m, r.Rate, ReasonHighUserRating))
	}

	if len(base) == 0 {
		e.logger.Debug().Str("user_id", userID.String()).Msg("No liked items, using popular fallback")
		return fallbackResult(e.popular(snap.media, limit)), nil
	}

	sort.SliceStable(base, func(i, j int) bool {
		a, b := &base[i], &base[j]
		if *a.UserRate != *b.UserRate {
			return *a.UserRate > *b.UserRate
		}
		return communityLess(&a.MediaItem, &b.MediaItem)
	})
	base = truncate(base, limit)

	result := &PersonalizedResult{
		Items:     base,
		Source:    SourcePersonalized,
		BaseCount: len(base),
	}
	if len(base) >= limit {
		return result, nil
	}

	seeds := make([]models.MediaItem, len(base))
	excluded := make(map[string]struct{}, len(base)+len(snap.ratings))
	for i := range base {
		seeds[i] = base[i].MediaItem
		excluded[base[i].ID] = struct{}{}
	}
	for i := range snap.ratings {
		excluded[snap.ratings[i].MediaID] = struct{}{}
	}

	extraLimit := min(limit, e.config.Limits.SimilarMaxExtra)
	extras := e.similar(snap, seeds, excluded, extraLimit)
	for i := range extras {
		if len(result.Items) >= limit {
			break
		}
		result.Items = append(result.Items, extras[i])
		result.ExtraCount++
	}

	return result, nil
}

// FallbackFeed wraps the popular feed as a personalized result.
func (e *Engine) FallbackFeed(ctx context.Context, limit int) (*PersonalizedResult, error) {
	items, err := e.Popular(ctx, limit)
	if err != nil {
		return nil, err
	}
	return fallbackResult(items), nil
}

func fallbackResult(items []ScoredItem) *PersonalizedResult {
	return &PersonalizedResult{
		Items:  items,
		Source: SourcePopularFallback,
	}
}

// annotate attaches the user's own rate to an item.
//
//nolint:gocritic // hugeParam: m is copied into the ScoredItem
func (e *Engine) annotate(m models.MediaItem, rate float64, reason MatchReason) ScoredItem {
	liked := e.Liked(rate)
	return ScoredItem{
		MediaItem:   m,
		UserRate:    &rate,
		Liked:       &liked,
		MatchReason: reason,
	}
}

// snapshot is the catalog state read once per engine call.
type snapshot struct {
	media     []models.MediaItem
	mediaByID map[string]*models.MediaItem
	places    map[string]*models.Place
	ratings   []models.Rating
}

func (e *Engine) loadSnapshot(ctx context.Context, userID uuid.UUID) (*snapshot, error) {
	media, err := e.provider.GetMedia(ctx)
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}
	places, err := e.provider.GetAllPlaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("get places: %w", err)
	}

	snap := &snapshot{
		media:     media,
		mediaByID: make(map[string]*models.MediaItem, len(media)),
		places:    make(map[string]*models.Place, len(places)),
	}
	for i := range media {
		snap.mediaByID[media[i].ID] = &media[i]
	}
	for i := range places {
		snap.places[places[i].ID] = &places[i]
	}

	if userID != uuid.Nil {
		ratings, err := e.provider.GetUserRatings(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("get user ratings: %w", err)
		}
		// Annotate a copy; the provider may hand out shared slices.
		snap.ratings = slices.Clone(ratings)
		for i := range snap.ratings {
			snap.ratings[i].Liked = e.Liked(snap.ratings[i].Rate)
		}
	}
	return snap, nil
}

// cityOf returns the city of a media item's place, or "" for dangling references.
func (s *snapshot) cityOf(m *models.MediaItem) string {
	if p, ok := s.places[m.PlaceID]; ok {
		return p.CityID
	}
	return ""
}

func containsCity(cities []models.City, cityID string) bool {
	for i := range cities {
		if cities[i].ID == cityID {
			return true
		}
	}
	return false
}

// communityLess orders by (overall rate, ratings count) descending.
func communityLess(a, b *models.MediaItem) bool {
	if a.OverallRate != b.OverallRate {
		return a.OverallRate > b.OverallRate
	}
	return a.RatingsCount > b.RatingsCount
}

func sortByCommunity(items []ScoredItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return communityLess(&items[i].MediaItem, &items[j].MediaItem)
	})
}

func truncate(items []ScoredItem, limit int) []ScoredItem {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
