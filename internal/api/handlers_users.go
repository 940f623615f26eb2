// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/cityfeed/internal/logging"
	"github.com/tomtom215/cityfeed/internal/models"
	"github.com/tomtom215/cityfeed/internal/recommend"
	"github.com/tomtom215/cityfeed/internal/validation"
)

// maxRatingBodyBytes bounds PUT /users/ratings bodies.
const maxRatingBodyBytes = 4 << 10

// RatingsData is the payload of GET /users/ratings.
type RatingsData struct {
	Ratings []recommend.RatedMedia `json:"ratings"`
}

// requireUserID parses user_id for routes where it is mandatory. It writes a
// 400 and returns ok=false when the id is missing or too long. known is false
// for malformed ids, which callers answer with an empty result.
func requireUserID(w http.ResponseWriter, r *http.Request) (id uuid.UUID, known, ok bool) {
	params := validation.UserParams{UserID: r.URL.Query().Get("user_id")}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidation(w, r, apiErr)
		return uuid.Nil, false, false
	}

	id, err := recommend.ParseUserID(params.UserID)
	switch {
	case errors.Is(err, recommend.ErrMissingUserID):
		respondEngineError(w, r, err)
		return uuid.Nil, false, false
	case err != nil:
		logging.Ctx(r.Context()).Debug().
			Str("user_id", sanitizeLogValue(params.UserID)).
			Msg("Malformed user id, treating as unknown user")
		return uuid.Nil, false, true
	}
	return id, true, true
}

// UserInterests serves GET /users/interests.
func (h *Handler) UserInterests(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, known, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if !known {
		respondSuccess(w, start, &recommend.Interests{
			Places: []recommend.InterestCount{},
			Cities: []recommend.InterestCount{},
		}, 0)
		return
	}

	interests, err := h.engine.Interests(r.Context(), userID)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, start, interests, len(interests.Places))
}

// UserRatings serves GET /users/ratings.
func (h *Handler) UserRatings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, known, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if !known {
		respondSuccess(w, start, RatingsData{Ratings: []recommend.RatedMedia{}}, 0)
		return
	}

	ratings, err := h.engine.UserRatings(r.Context(), userID)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, start, RatingsData{Ratings: ratings}, len(ratings))
}

// MediaList serves GET /media. With a known user_id the list is split by the
// user's own rate; without one, or with a malformed one, it is not.
func (h *Handler) MediaList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params := validation.UserParams{UserID: r.URL.Query().Get("user_id")}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	var userID *uuid.UUID
	if id := optionalUserID(params.UserID); id != uuid.Nil {
		userID = &id
	}

	feed, err := h.engine.MediaFeed(r.Context(), userID)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, start, feed, len(feed.All))
}

// PutRating serves PUT /users/ratings with a JSON RatingBody.
func (h *Handler) PutRating(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var body validation.RatingBody
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRatingBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "request body must be a rating object", nil)
		return
	}
	if apiErr := validateRequest(&body); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	rating := &models.Rating{
		UserID:    uuid.MustParse(body.UserID),
		MediaID:   body.MediaID,
		Rate:      body.Rate,
		UpdatedAt: time.Now().UTC(),
	}
	if err := h.ratings.UpsertRating(r.Context(), rating); err != nil {
		respondEngineError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("media_id", rating.MediaID).
		Float64("rate", rating.Rate).
		Msg("Rating recorded")
	respondSuccess(w, start, rating, 1)
}

// DeleteRating serves DELETE /users/ratings?user_id=&media_id=.
func (h *Handler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	key := validation.RatingKey{UserID: q.Get("user_id"), MediaID: q.Get("media_id")}
	if apiErr := validateRequest(&key); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	if err := h.ratings.DeleteRating(r.Context(), uuid.MustParse(key.UserID), key.MediaID); err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, start, map[string]string{"media_id": key.MediaID}, 0)
}
