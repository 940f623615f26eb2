// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cityfeed/internal/models"
)

// StaticProvider serves catalog reads from a fixture.
// It satisfies recommend.DataProvider and geo.CitySource.
type StaticProvider struct {
	path   string
	logger zerolog.Logger

	mu   sync.RWMutex
	data *snapshot
}

type snapshot struct {
	fixture       *Fixture
	placesByCity  map[string][]models.Place
	ratingsByUser map[uuid.UUID][]models.Rating
}

// NewStaticProvider creates a provider reading path, or the embedded
// fixture when path is empty. Nothing is read until the first call.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStaticProvider(path string, logger zerolog.Logger) *StaticProvider {
	return &StaticProvider{
		path:   path,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// Reload discards the cached fixture and reads it again.
// On failure the previous fixture stays in place.
func (p *StaticProvider) Reload() error {
	snap, err := p.read()
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.data = snap
	p.mu.Unlock()
	return nil
}

func (p *StaticProvider) load() (*snapshot, error) {
	p.mu.RLock()
	snap := p.data
	p.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.data != nil {
		return p.data, nil
	}
	snap, err := p.read()
	if err != nil {
		return nil, err
	}
	p.data = snap
	return snap, nil
}

func (p *StaticProvider) read() (*snapshot, error) {
	f, err := LoadFixture(p.path)
	if err != nil {
		return nil, err
	}

	for i := range f.Media {
		m := &f.Media[i]
		if m.RatingsCount == 0 && m.OverallRate != 0 {
			p.logger.Warn().Str("media_id", m.ID).Float64("overall_rate", m.OverallRate).
				Msg("Media with no ratings has a non-zero overall rate, resetting to 0")
			m.OverallRate = 0
		}
		m.OverallRate = models.RoundRate(m.OverallRate)
	}

	snap := &snapshot{
		fixture:       f,
		placesByCity:  make(map[string][]models.Place),
		ratingsByUser: make(map[uuid.UUID][]models.Rating),
	}
	for _, pl := range f.Places {
		snap.placesByCity[pl.CityID] = append(snap.placesByCity[pl.CityID], pl)
	}
	for _, r := range f.Ratings {
		snap.ratingsByUser[r.UserID] = append(snap.ratingsByUser[r.UserID], r)
	}

	source := p.path
	if source == "" {
		source = "embedded"
	}
	p.logger.Info().Str("source", source).
		Int("cities", len(f.Cities)).
		Int("places", len(f.Places)).
		Int("media", len(f.Media)).
		Int("ratings", len(f.Ratings)).
		Msg("Catalog fixture loaded")
	return snap, nil
}

// Fixture returns a copy of the loaded fixture, used for database seeding.
func (p *StaticProvider) Fixture(_ context.Context) (*Fixture, error) {
	snap, err := p.load()
	if err != nil {
		return nil, err
	}
	return &Fixture{
		Cities:  slices.Clone(snap.fixture.Cities),
		Places:  slices.Clone(snap.fixture.Places),
		Media:   slices.Clone(snap.fixture.Media),
		Ratings: slices.Clone(snap.fixture.Ratings),
	}, nil
}

// GetCities returns all catalog cities in fixture order.
func (p *StaticProvider) GetCities(_ context.Context) ([]models.City, error) {
	snap, err := p.load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return slices.Clone(snap.fixture.Cities), nil
}

// GetCityPlaces returns the places of one city. An unknown city gives an empty slice.
func (p *StaticProvider) GetCityPlaces(_ context.Context, cityID string) ([]models.Place, error) {
	snap, err := p.load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	places := slices.Clone(snap.placesByCity[cityID])
	if places == nil {
		places = []models.Place{}
	}
	return places, nil
}

// GetAllPlaces returns every place in fixture order.
func (p *StaticProvider) GetAllPlaces(_ context.Context) ([]models.Place, error) {
	snap, err := p.load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return slices.Clone(snap.fixture.Places), nil
}

// GetMedia returns every media item with its fixture aggregates.
func (p *StaticProvider) GetMedia(_ context.Context) ([]models.MediaItem, error) {
	snap, err := p.load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return slices.Clone(snap.fixture.Media), nil
}

// GetUserRatings returns the fixture ratings of one user.
func (p *StaticProvider) GetUserRatings(_ context.Context, userID uuid.UUID) ([]models.Rating, error) {
	snap, err := p.load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return slices.Clone(snap.ratingsByUser[userID]), nil
}

// Ping loads the fixture and reports any error. Used by readiness checks.
func (p *StaticProvider) Ping(_ context.Context) error {
	_, err := p.load()
	return err
}
