// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/cityfeed/internal/geo"
	"github.com/tomtom215/cityfeed/internal/models"
	"github.com/tomtom215/cityfeed/internal/recommend"
)

// LocationResolver maps a client IP or explicit city to a catalog city.
type LocationResolver interface {
	Resolve(ctx context.Context, req geo.Request) (*geo.Resolution, error)
}

// Pinger reports whether the catalog provider can serve reads.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RatingStore is the write path for ratings. Only the live catalog has one.
type RatingStore interface {
	UpsertRating(ctx context.Context, r *models.Rating) error
	DeleteRating(ctx context.Context, userID uuid.UUID, mediaID string) error
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response and parameter helpers
//   - handlers_feeds.go: popular, nearest, personalized and similar feeds
//   - handlers_users.go: interests, media, ratings
//   - handlers_location.go: location resolution
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	engine    *recommend.Engine
	resolver  LocationResolver
	ready     Pinger
	ratings   RatingStore
	startTime time.Time
}

// NewHandler creates a handler. ready may be nil, in which case readiness
// only reflects that the process is up.
func NewHandler(engine *recommend.Engine, resolver LocationResolver, ready Pinger) *Handler {
	return &Handler{
		engine:    engine,
		resolver:  resolver,
		ready:     ready,
		startTime: time.Now(),
	}
}

// SetRatingStore enables the rating write routes.
func (h *Handler) SetRatingStore(store RatingStore) {
	h.ratings = store
}

// RatingsWritable reports whether rating write routes are served.
func (h *Handler) RatingsWritable() bool {
	return h.ratings != nil
}
