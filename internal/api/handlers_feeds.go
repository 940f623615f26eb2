// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/cityfeed/internal/geo"
	"github.com/tomtom215/cityfeed/internal/logging"
	"github.com/tomtom215/cityfeed/internal/metrics"
	"github.com/tomtom215/cityfeed/internal/recommend"
	"github.com/tomtom215/cityfeed/internal/validation"
)

// Feed names used in metrics labels.
const (
	feedPopular      = "popular"
	feedNearest      = "nearest"
	feedPersonalized = "personalized"
	feedSimilar      = "similar"
)

// FeedData is the payload of list feeds.
type FeedData struct {
	Items []recommend.ScoredItem `json:"items"`
}

// NearestFeedData is the nearest feed with the location it was computed for.
type NearestFeedData struct {
	Items    []recommend.ScoredItem `json:"items"`
	Location *geo.Resolution        `json:"location"`
}

func recordFeed(feed string, status, items int) {
	metrics.RecordFeed(feed, outcomeFor(status, items), items)
}

// PopularFeed serves GET /feeds/popular.
func (h *Handler) PopularFeed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, ok := parseLimit(w, r)
	if !ok {
		recordFeed(feedPopular, http.StatusBadRequest, 0)
		return
	}
	params := validation.FeedParams{Limit: limit}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidation(w, r, apiErr)
		recordFeed(feedPopular, http.StatusBadRequest, 0)
		return
	}

	items, err := h.engine.Popular(r.Context(), params.Limit)
	if err != nil {
		recordFeed(feedPopular, respondEngineError(w, r, err), 0)
		return
	}

	recordFeed(feedPopular, http.StatusOK, len(items))
	respondSuccess(w, start, FeedData{Items: items}, len(items))
}

// NearestFeed serves GET /feeds/nearest. The city comes from the resolver;
// an unresolved location is a 400 LOCATION_UNRESOLVED.
func (h *Handler) NearestFeed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	limit, ok := parseLimit(w, r)
	if !ok {
		recordFeed(feedNearest, http.StatusBadRequest, 0)
		return
	}
	params := validation.NearestParams{
		City:  q.Get("city"),
		IP:    q.Get("ip"),
		Limit: limit,
	}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidation(w, r, apiErr)
		recordFeed(feedNearest, http.StatusBadRequest, 0)
		return
	}

	res, err := h.resolver.Resolve(r.Context(), geo.Request{
		ClientIP: geo.ClientIP(r, params.IP),
		CityID:   params.City,
	})
	if err != nil {
		recordFeed(feedNearest, respondEngineError(w, r, err), 0)
		return
	}
	if !res.Resolved() {
		respondErrorWithDetails(w, r, http.StatusBadRequest, ErrCodeLocationUnresolved,
			"could not resolve a catalog city; pass ?city=",
			map[string]interface{}{"client_ip": res.ClientIP}, nil)
		recordFeed(feedNearest, http.StatusBadRequest, 0)
		return
	}

	items, err := h.engine.Nearest(r.Context(), res.City.ID, params.Limit)
	if err != nil {
		recordFeed(feedNearest, respondEngineError(w, r, err), 0)
		return
	}

	recordFeed(feedNearest, http.StatusOK, len(items))
	respondSuccess(w, start, NearestFeedData{Items: items, Location: res}, len(items))
}

// PersonalizedFeed serves GET /feeds/personalized. A malformed user_id is
// answered with the popular fallback.
func (h *Handler) PersonalizedFeed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	limit, ok := parseLimit(w, r)
	if !ok {
		recordFeed(feedPersonalized, http.StatusBadRequest, 0)
		return
	}
	params := validation.UserParams{UserID: r.URL.Query().Get("user_id"), Limit: limit}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidation(w, r, apiErr)
		recordFeed(feedPersonalized, http.StatusBadRequest, 0)
		return
	}

	var result *recommend.PersonalizedResult
	userID, err := recommend.ParseUserID(params.UserID)
	switch {
	case errors.Is(err, recommend.ErrMissingUserID):
		recordFeed(feedPersonalized, respondEngineError(w, r, err), 0)
		return
	case err != nil:
		logging.Ctx(ctx).Debug().
			Str("user_id", sanitizeLogValue(params.UserID)).
			Msg("Malformed user id, serving popular fallback")
		result, err = h.engine.FallbackFeed(ctx, params.Limit)
	default:
		result, err = h.engine.Personalized(ctx, userID, params.Limit)
	}
	if err != nil {
		recordFeed(feedPersonalized, respondEngineError(w, r, err), 0)
		return
	}

	if result.Source == recommend.SourcePopularFallback {
		metrics.RecordPersonalizedFallback()
	}
	recordFeed(feedPersonalized, http.StatusOK, len(result.Items))
	respondSuccess(w, start, result, len(result.Items))
}

// SimilarFeed serves GET /feeds/similar. user_id is optional and only
// widens the exclusion set to the user's rated items.
func (h *Handler) SimilarFeed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	limit, ok := parseLimit(w, r)
	if !ok {
		recordFeed(feedSimilar, http.StatusBadRequest, 0)
		return
	}
	params := validation.SimilarParams{
		UserID:  q.Get("user_id"),
		Seeds:   parseCommaSeparated(q["seed"]),
		Exclude: parseCommaSeparated(q["exclude"]),
		Limit:   limit,
	}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidation(w, r, apiErr)
		recordFeed(feedSimilar, http.StatusBadRequest, 0)
		return
	}

	userID := optionalUserID(params.UserID)
	items, err := h.engine.Similar(r.Context(), userID, params.Seeds, params.Exclude, params.Limit)
	if err != nil {
		recordFeed(feedSimilar, respondEngineError(w, r, err), 0)
		return
	}

	recordFeed(feedSimilar, http.StatusOK, len(items))
	respondSuccess(w, start, FeedData{Items: items}, len(items))
}

// optionalUserID parses raw, mapping missing and malformed ids to uuid.Nil.
func optionalUserID(raw string) uuid.UUID {
	id, err := recommend.ParseUserID(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
