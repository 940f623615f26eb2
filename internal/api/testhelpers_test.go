// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cityfeed/internal/catalog"
	"github.com/tomtom215/cityfeed/internal/geo"
	"github.com/tomtom215/cityfeed/internal/models"
	"github.com/tomtom215/cityfeed/internal/recommend"
)

// demoUser has rated m3 (5.0) and m9 (2.5) in the embedded fixture.
var demoUser = uuid.MustParse("7b1f3c0e-2a4d-4c1b-9d3e-1f2a3b4c5d6e")

// tehranIP geolocates to Tehran through geoFake.
const tehranIP = "203.0.113.7"

var errBoom = errors.New("boom")

// geoFake answers lookups for tehranIP only.
type geoFake struct{}

func (geoFake) Lookup(_ context.Context, ip string) (*models.Geolocation, error) {
	if ip != tehranIP {
		return nil, errors.New("unknown address")
	}
	return &models.Geolocation{
		IPAddress: ip,
		City:      "Tehran",
		Country:   "Iran",
		Provider:  "fake",
	}, nil
}

func (geoFake) Name() string { return "fake" }
func (geoFake) IsAvailable() bool { return true }

// failingProvider fails every read.
type failingProvider struct{}

func (failingProvider) GetCities(context.Context) ([]models.City, error) { return nil, errBoom }
func (failingProvider) GetAllPlaces(context.Context) ([]models.Place, error) { return nil, errBoom }
func (failingProvider) GetMedia(context.Context) ([]models.MediaItem, error) { return nil, errBoom }
func (failingProvider) Ping(context.Context) error { return errBoom }
func (failingProvider) GetCityPlaces(context.Context, string) ([]models.Place, error) {
	return nil, errBoom
}
func (failingProvider) GetUserRatings(context.Context, uuid.UUID) ([]models.Rating, error) {
	return nil, errBoom
}

// ratingStoreFake records writes.
type ratingStoreFake struct {
	mu       sync.Mutex
	upserted []models.Rating
	deleted  []string
	err      error
}

func (s *ratingStoreFake) UpsertRating(_ context.Context, r *models.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.upserted = append(s.upserted, *r)
	return nil
}

func (s *ratingStoreFake) DeleteRating(_ context.Context, userID uuid.UUID, mediaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, userID.String()+"/"+mediaID)
	return nil
}

type testProvider interface {
	recommend.DataProvider
	Pinger
}

// newTestHandler builds a handler over provider with a resolver that knows tehranIP.
func newTestHandler(t *testing.T, provider testProvider) *Handler {
	t.Helper()

	logger := zerolog.New(io.Discard)
	engine, err := recommend.NewEngine(nil, provider, logger)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	resolver, err := geo.NewResolver(provider, []geo.Provider{geoFake{}}, nil, geo.Config{}, logger)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	t.Cleanup(resolver.Close)

	return NewHandler(engine, resolver, provider)
}

// newTestRouter serves the embedded fixture with rate limiting disabled.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newRouterFor(t, newTestHandler(t, catalog.NewStaticProvider("", zerolog.New(io.Discard))))
}

func newRouterFor(t *testing.T, h *Handler) http.Handler {
	t.Helper()
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	return NewRouter(h, NewChiMiddleware(cfg)).SetupChi()
}

// envelope is the decoded APIResponse with the payload left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func doRequest(t *testing.T, h http.Handler, method, target string, body io.Reader) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	req.RemoteAddr = "192.0.2.10:51234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: response is not an envelope: %v\n%s", method, target, err, rec.Body.String())
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v\n%s", err, env.Data)
	}
}

func itemIDs(items []recommend.ScoredItem) []string {
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
