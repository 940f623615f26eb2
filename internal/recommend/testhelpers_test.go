// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package recommend

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cityfeed/internal/models"
)

// mockDataProvider implements DataProvider for testing.
type mockDataProvider struct {
	cities  []models.City
	places  []models.Place
	media   []models.MediaItem
	ratings map[uuid.UUID][]models.Rating

	citiesErr  error
	placesErr  error
	mediaErr   error
	ratingsErr error
}

func (m *mockDataProvider) GetCities(ctx context.Context) ([]models.City, error) {
	if m.citiesErr != nil {
		return nil, m.citiesErr
	}
	return m.cities, nil
}

func (m *mockDataProvider) GetCityPlaces(ctx context.Context, cityID string) ([]models.Place, error) {
	if m.placesErr != nil {
		return nil, m.placesErr
	}
	out := []models.Place{}
	for _, p := range m.places {
		if p.CityID == cityID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockDataProvider) GetAllPlaces(ctx context.Context) ([]models.Place, error) {
	if m.placesErr != nil {
		return nil, m.placesErr
	}
	return m.places, nil
}

func (m *mockDataProvider) GetMedia(ctx context.Context) ([]models.MediaItem, error) {
	if m.mediaErr != nil {
		return nil, m.mediaErr
	}
	// Hand out a copy so engine-side sorting cannot reorder the fixture.
	out := make([]models.MediaItem, len(m.media))
	copy(out, m.media)
	return out, nil
}

func (m *mockDataProvider) GetUserRatings(ctx context.Context, userID uuid.UUID) ([]models.Rating, error) {
	if m.ratingsErr != nil {
		return nil, m.ratingsErr
	}
	return m.ratings[userID], nil
}

var (
	// likesTehranAndIsfahan rated m3, m2, m4 highly and m6 low.
	likesTehranAndIsfahan = uuid.MustParse("7b1f3c0e-2a4d-4c1b-9d3e-1f2a3b4c5d6e")
	// onlyLowRatings rated a single item below the threshold.
	onlyLowRatings = uuid.MustParse("0c9a8b7d-6e5f-4a3b-8c2d-1e0f9a8b7c6d")
	// unknownUser has no ratings at all.
	unknownUser = uuid.MustParse("11111111-2222-4333-8444-555555555555")

	ratedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

// newCatalogProvider builds a catalog spanning three cities plus one place
// whose city is missing from the catalog.
func newCatalogProvider() *mockDataProvider {
	return &mockDataProvider{
		cities: []models.City{
			{ID: "tehran", Name: "Tehran", Coordinates: models.Coordinates{Latitude: 35.6892, Longitude: 51.389}},
			{ID: "isfahan", Name: "Isfahan", Coordinates: models.Coordinates{Latitude: 32.6546, Longitude: 51.668}},
			{ID: "shiraz", Name: "Shiraz", Coordinates: models.Coordinates{Latitude: 29.5918, Longitude: 52.5837}},
		},
		places: []models.Place{
			{ID: "azadi", CityID: "tehran", Name: "Azadi Square"},
			{ID: "milad", CityID: "tehran", Name: "Milad Tower"},
			{ID: "naqsh", CityID: "isfahan", Name: "Naqsh-e Jahan"},
			{ID: "sio", CityID: "isfahan", Name: "Si-o-se-pol"},
			{ID: "hafezieh", CityID: "shiraz", Name: "Hafezieh"},
			{ID: "ghost", CityID: "atlantis", Name: "Nowhere"},
		},
		media: []models.MediaItem{
			{ID: "m1", PlaceID: "milad", Title: "Milad Tower at night", Caption: "The tallest tower in Iran", OverallRate: 4.6, RatingsCount: 12},
			{ID: "m2", PlaceID: "naqsh", Title: "Naqsh-e Jahan Square", Caption: "Historic square in Isfahan", OverallRate: 4.8, RatingsCount: 20},
			{ID: "m3", PlaceID: "azadi", Title: "Azadi Tower", Caption: "برج آزادی symbol of Tehran", OverallRate: 4.3, RatingsCount: 5},
			{ID: "m4", PlaceID: "sio", Title: "Si-o-se-pol", Caption: "Bridge of 33 arches", OverallRate: 4.5, RatingsCount: 9},
			{ID: "m5", PlaceID: "hafezieh", Title: "Tomb of Hafez", Caption: "Poetry lovers gather in the evening", OverallRate: 4.9, RatingsCount: 30},
			{ID: "m6", PlaceID: "hafezieh", Title: "Eram", Caption: "Persian garden", OverallRate: 3.8, RatingsCount: 7},
			{ID: "m7", PlaceID: "azadi", Title: "Azadi at dusk", Caption: "quiet evening", OverallRate: 4.0, RatingsCount: 5},
			{ID: "m8", PlaceID: "ghost", Title: "Lost media", Caption: "", OverallRate: 4.7, RatingsCount: 10},
			{ID: "m9", PlaceID: "azadi", Title: "Street view", Caption: "traffic near the square", OverallRate: 2.5, RatingsCount: 1},
			{ID: "m10", PlaceID: "milad", Title: "Unrated photo", Caption: "", OverallRate: 0, RatingsCount: 0},
			{ID: "m11", PlaceID: "naqsh", Title: "Chehel Sotoun palace", Caption: "", OverallRate: 4.2, RatingsCount: 6},
			{ID: "m12", PlaceID: "sio", Title: "Khaju bridge", Caption: "", OverallRate: 4.2, RatingsCount: 6},
		},
		ratings: map[uuid.UUID][]models.Rating{
			likesTehranAndIsfahan: {
				{UserID: likesTehranAndIsfahan, MediaID: "m3", Rate: 5.0, UpdatedAt: ratedAt},
				{UserID: likesTehranAndIsfahan, MediaID: "m2", Rate: 4.5, UpdatedAt: ratedAt},
				{UserID: likesTehranAndIsfahan, MediaID: "m6", Rate: 3.0, UpdatedAt: ratedAt},
				{UserID: likesTehranAndIsfahan, MediaID: "m4", Rate: 4.5, UpdatedAt: ratedAt.Add(time.Hour)},
			},
			onlyLowRatings: {
				{UserID: onlyLowRatings, MediaID: "m6", Rate: 3.0, UpdatedAt: ratedAt},
			},
		},
	}
}

func newTestEngine(t *testing.T, provider DataProvider) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultConfig(), provider, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

func itemIDs(items []ScoredItem) []string {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
