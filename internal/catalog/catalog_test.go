// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package catalog

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cityfeed/internal/recommend"
)

// demoUser rated m3 at 5.0 and m9 at 2.5 in the embedded fixture.
var demoUser = uuid.MustParse("7b1f3c0e-2a4d-4c1b-9d3e-1f2a3b4c5d6e")

const smallFixture = `{
  "cities": [{"city_id": "tehran", "city_name": "Tehran", "coordinates": {"latitude": 35.6892, "longitude": 51.389}}],
  "places": [{"place_id": "azadi", "city_id": "tehran", "place_name": "Azadi Square"}],
  "media": [
    {"media_id": "m3", "place_id": "azadi", "title": "Azadi Tower", "overall_rate": 4.3, "ratings_count": 5},
    {"media_id": "m9", "place_id": "azadi", "title": "Street view", "overall_rate": 3.1, "ratings_count": 0}
  ],
  "ratings": []
}`

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestEmbeddedFixture(t *testing.T) {
	t.Parallel()

	f, err := LoadFixture("")
	if err != nil {
		t.Fatalf("LoadFixture() error = %v", err)
	}
	if len(f.Cities) != 5 || len(f.Places) != 9 || len(f.Media) != 12 {
		t.Errorf("got %d cities, %d places, %d media; want 5, 9, 12", len(f.Cities), len(f.Places), len(f.Media))
	}

	// Baked aggregates agree with the ratings array.
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range f.Ratings {
		sums[r.MediaID] += r.Rate
		counts[r.MediaID]++
	}
	for _, m := range f.Media {
		if counts[m.ID] != m.RatingsCount {
			t.Errorf("%s: ratings_count = %d, ratings array has %d", m.ID, m.RatingsCount, counts[m.ID])
		}
		if m.RatingsCount > 0 {
			mean := sums[m.ID] / float64(counts[m.ID])
			if diff := mean - m.OverallRate; diff > 0.005 || diff < -0.005 {
				t.Errorf("%s: overall_rate = %.2f, mean of ratings = %.4f", m.ID, m.OverallRate, mean)
			}
		}
	}
}

func TestParseFixture_Invalid(t *testing.T) {
	t.Parallel()

	u := uuid.New().String()
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"not json", `{`, "decode fixture"},
		{"duplicate city", `{"cities":[{"city_id":"a"},{"city_id":"a"}]}`, "duplicate city id"},
		{"empty place id", `{"places":[{"place_id":""}]}`, "place with empty id"},
		{"negative count", `{"media":[{"media_id":"m1","ratings_count":-1}]}`, "negative ratings_count"},
		{"nil user", `{"ratings":[{"user_id":"00000000-0000-0000-0000-000000000000","media_id":"m1","rate":4}]}`, "no user_id"},
		{"rate below range", `{"ratings":[{"user_id":"` + u + `","media_id":"m1","rate":0.5}]}`, "outside [1, 5]"},
		{"rate above range", `{"ratings":[{"user_id":"` + u + `","media_id":"m1","rate":5.5}]}`, "outside [1, 5]"},
		{"missing rate", `{"ratings":[{"user_id":"` + u + `","media_id":"m1"}]}`, "outside [1, 5]"},
		{"duplicate rating", `{"ratings":[{"user_id":"` + u + `","media_id":"m1","rate":4},{"user_id":"` + u + `","media_id":"m1","rate":5}]}`, "duplicate rating"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseFixture([]byte(tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestStaticProvider_Reads(t *testing.T) {
	t.Parallel()

	p := NewStaticProvider("", zerolog.New(io.Discard))
	ctx := context.Background()

	places, err := p.GetCityPlaces(ctx, "tehran")
	if err != nil {
		t.Fatalf("GetCityPlaces() error = %v", err)
	}
	if len(places) != 3 {
		t.Errorf("tehran places = %d, want 3", len(places))
	}

	unknown, err := p.GetCityPlaces(ctx, "paris")
	if err != nil {
		t.Fatalf("GetCityPlaces() error = %v", err)
	}
	if unknown == nil || len(unknown) != 0 {
		t.Errorf("unknown city places = %v, want empty slice", unknown)
	}

	ratings, err := p.GetUserRatings(ctx, demoUser)
	if err != nil {
		t.Fatalf("GetUserRatings() error = %v", err)
	}
	if len(ratings) != 2 {
		t.Errorf("demo user ratings = %d, want 2", len(ratings))
	}

	none, err := p.GetUserRatings(ctx, uuid.New())
	if err != nil || len(none) != 0 {
		t.Errorf("unknown user ratings = %v, %v; want empty", none, err)
	}
}

func TestStaticProvider_ReturnsCopies(t *testing.T) {
	t.Parallel()

	p := NewStaticProvider("", zerolog.New(io.Discard))
	ctx := context.Background()

	media, err := p.GetMedia(ctx)
	if err != nil {
		t.Fatalf("GetMedia() error = %v", err)
	}
	first := media[0].ID
	media[0].ID = "mutated"

	again, err := p.GetMedia(ctx)
	if err != nil {
		t.Fatalf("GetMedia() error = %v", err)
	}
	if again[0].ID != first {
		t.Errorf("provider state mutated through returned slice: %s", again[0].ID)
	}
}

func TestStaticProvider_NormalizesUnratedMedia(t *testing.T) {
	t.Parallel()

	p := NewStaticProvider(writeFixture(t, smallFixture), zerolog.New(io.Discard))
	media, err := p.GetMedia(context.Background())
	if err != nil {
		t.Fatalf("GetMedia() error = %v", err)
	}
	for _, m := range media {
		if m.ID == "m9" && m.OverallRate != 0 {
			t.Errorf("m9 overall_rate = %v, want 0 for an unrated item", m.OverallRate)
		}
	}
}

func TestStaticProvider_Reload(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, smallFixture)
	p := NewStaticProvider(path, zerolog.New(io.Discard))
	ctx := context.Background()

	cities, err := p.GetCities(ctx)
	if err != nil || len(cities) != 1 {
		t.Fatalf("GetCities() = %v, %v", cities, err)
	}

	updated := strings.Replace(smallFixture, `"cities": [`,
		`"cities": [{"city_id": "shiraz", "city_name": "Shiraz", "coordinates": {"latitude": 29.59, "longitude": 52.58}},`, 1)
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatalf("rewrite fixture: %v", err)
	}

	cached, _ := p.GetCities(ctx)
	if len(cached) != 1 {
		t.Errorf("cities before reload = %d, want cached 1", len(cached))
	}

	if err := p.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	reloaded, _ := p.GetCities(ctx)
	if len(reloaded) != 2 {
		t.Errorf("cities after reload = %d, want 2", len(reloaded))
	}

	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatalf("corrupt fixture: %v", err)
	}
	if err := p.Reload(); err == nil {
		t.Error("expected Reload() error for corrupt fixture")
	}
	kept, _ := p.GetCities(ctx)
	if len(kept) != 2 {
		t.Errorf("cities after failed reload = %d, want previous 2", len(kept))
	}
}

func TestStaticProvider_MissingFile(t *testing.T) {
	t.Parallel()

	p := NewStaticProvider(filepath.Join(t.TempDir(), "missing.json"), zerolog.New(io.Discard))
	if _, err := p.GetCities(context.Background()); err == nil {
		t.Error("expected error for missing fixture")
	}
	if err := p.Ping(context.Background()); err == nil {
		t.Error("expected Ping() error for missing fixture")
	}
}

// TestEmbeddedFixture_Scenario runs the engine over the embedded catalog.
func TestEmbeddedFixture_Scenario(t *testing.T) {
	t.Parallel()

	p := NewStaticProvider("", zerolog.New(io.Discard))
	engine, err := recommend.NewEngine(nil, p, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	ctx := context.Background()

	popular, err := engine.Popular(ctx, 50)
	if err != nil {
		t.Fatalf("Popular() error = %v", err)
	}
	want := []string{"m5", "m2", "m1", "m3"}
	if len(popular) != len(want) {
		t.Fatalf("popular = %d items, want %v", len(popular), want)
	}
	for i, id := range want {
		if popular[i].ID != id {
			t.Errorf("popular[%d] = %s, want %s", i, popular[i].ID, id)
		}
	}

	result, err := engine.Personalized(ctx, demoUser, 10)
	if err != nil {
		t.Fatalf("Personalized() error = %v", err)
	}
	if result.Source != recommend.SourcePersonalized || result.BaseCount != 1 || result.Items[0].ID != "m3" {
		t.Errorf("personalized = %s base=%d first=%s, want personalized base=1 first=m3",
			result.Source, result.BaseCount, result.Items[0].ID)
	}
	for _, item := range result.Items {
		if item.ID == "m9" {
			t.Error("m9 must not appear in the personalized feed")
		}
	}

	uid := demoUser
	feed, err := engine.MediaFeed(ctx, &uid)
	if err != nil {
		t.Fatalf("MediaFeed() error = %v", err)
	}
	if len(feed.RatedHigh) != 1 || feed.RatedHigh[0].ID != "m3" {
		t.Errorf("rated high = %v, want [m3]", feed.RatedHigh)
	}
	if len(feed.RatedLow) != 1 || feed.RatedLow[0].ID != "m9" {
		t.Errorf("rated low = %v, want [m9]", feed.RatedLow)
	}
}

func TestStaticProvider_FixtureIsNormalizedCopy(t *testing.T) {
	t.Parallel()

	p := NewStaticProvider(writeFixture(t, smallFixture), zerolog.New(io.Discard))
	f, err := p.Fixture(context.Background())
	if err != nil {
		t.Fatalf("Fixture() error = %v", err)
	}
	if len(f.Cities) != 1 || len(f.Media) != 2 {
		t.Fatalf("Fixture() = %d cities, %d media", len(f.Cities), len(f.Media))
	}
	for _, m := range f.Media {
		if m.ID == "m9" && m.OverallRate != 0 {
			t.Errorf("m9 overall_rate = %v, want 0", m.OverallRate)
		}
	}

	f.Cities[0].Name = "changed"
	cities, _ := p.GetCities(context.Background())
	if cities[0].Name != "Tehran" {
		t.Errorf("provider state mutated through Fixture(): %q", cities[0].Name)
	}
}
