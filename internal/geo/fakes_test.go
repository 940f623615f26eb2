// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package geo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/cityfeed/internal/models"
)

// fakeProvider returns a fixed result and counts calls.
type fakeProvider struct {
	name      string
	geo       *models.Geolocation
	err       error
	delay     time.Duration
	available bool

	mu    sync.Mutex
	calls int
}

func newFakeProvider(name string, geo *models.Geolocation, err error) *fakeProvider {
	return &fakeProvider{name: name, geo: geo, err: err, available: true}
}

func (f *fakeProvider) Name() string      { return f.name }
func (f *fakeProvider) IsAvailable() bool { return f.available }

func (f *fakeProvider) Lookup(ctx context.Context, ip string) (*models.Geolocation, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.geo == nil {
		return nil, nil
	}
	out := *f.geo
	out.IPAddress = ip
	return &out, nil
}

func (f *fakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type staticCities struct {
	cities []models.City
	err    error
}

func (s staticCities) GetCities(ctx context.Context) ([]models.City, error) {
	return s.cities, s.err
}

// memStore is an in-memory LookupStore.
type memStore struct {
	mu      sync.Mutex
	entries map[string]models.Geolocation
	getErr  error
	upserts int
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]models.Geolocation)}
}

func (m *memStore) GetGeolocation(ctx context.Context, ip string) (*models.Geolocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	g, ok := m.entries[ip]
	if !ok {
		return nil, errNotFound
	}
	return &g, nil
}

func (m *memStore) UpsertGeolocation(ctx context.Context, geo *models.Geolocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[geo.IPAddress] = *geo
	m.upserts++
	return nil
}

var errNotFound = errors.New("not found")
