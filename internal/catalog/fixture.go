// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/cityfeed/internal/models"
)

//go:embed fixtures/default.json
var embeddedFixture []byte

// Fixture is the on-disk catalog document.
type Fixture struct {
	Cities  []models.City      `json:"cities"`
	Places  []models.Place     `json:"places"`
	Media   []models.MediaItem `json:"media"`
	Ratings []models.Rating    `json:"ratings"`
}

// ParseFixture decodes and validates a fixture document.
//
// Duplicate ids, a duplicate (user, media) rating pair, a nil user id and a
// negative ratings count are rejected. Dangling references are allowed and
// left for the engine to skip.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFixture reads a fixture from path, or the embedded default when path is empty.
func LoadFixture(path string) (*Fixture, error) {
	if path == "" {
		return ParseFixture(embeddedFixture)
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	return ParseFixture(data)
}

func (f *Fixture) validate() error {
	var errs []error

	seen := make(map[string]struct{})
	check := func(kind, id string) {
		if id == "" {
			errs = append(errs, fmt.Errorf("%s with empty id", kind))
			return
		}
		key := kind + "/" + id
		if _, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("duplicate %s id %q", kind, id))
		}
		seen[key] = struct{}{}
	}

	for i := range f.Cities {
		check("city", f.Cities[i].ID)
	}
	for i := range f.Places {
		check("place", f.Places[i].ID)
	}
	for i := range f.Media {
		check("media", f.Media[i].ID)
		if f.Media[i].RatingsCount < 0 {
			errs = append(errs, fmt.Errorf("media %q has negative ratings_count", f.Media[i].ID))
		}
	}

	pairs := make(map[string]struct{}, len(f.Ratings))
	for i := range f.Ratings {
		r := &f.Ratings[i]
		if r.UserID == uuid.Nil {
			errs = append(errs, fmt.Errorf("rating %d has no user_id", i))
			continue
		}
		if !models.ValidRate(r.Rate) {
			errs = append(errs, fmt.Errorf("rating %d rate %.2f outside [%.0f, %.0f]", i, r.Rate, models.MinRate, models.MaxRate))
		}
		key := r.UserID.String() + "/" + r.MediaID
		if _, dup := pairs[key]; dup {
			errs = append(errs, fmt.Errorf("duplicate rating for user %s media %q", r.UserID, r.MediaID))
		}
		pairs[key] = struct{}{}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid fixture: %w", errors.Join(errs...))
	}
	return nil
}
