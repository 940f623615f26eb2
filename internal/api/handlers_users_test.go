// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cityfeed/internal/catalog"
	"github.com/tomtom215/cityfeed/internal/database"
	"github.com/tomtom215/cityfeed/internal/recommend"
)

func TestUserInterests(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	t.Run("known user", func(t *testing.T) {
		t.Parallel()

		rec, env := doRequest(t, router, http.MethodGet, "/api/v1/users/interests?user_id="+demoUser.String(), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var interests recommend.Interests
		decodeData(t, env, &interests)

		if len(interests.Places) != 1 || interests.Places[0].ID != "azadi" || interests.Places[0].Count != 1 {
			t.Errorf("places = %+v, want [azadi x1]", interests.Places)
		}
		if len(interests.Cities) != 1 || interests.Cities[0].ID != "tehran" {
			t.Errorf("cities = %+v, want [tehran]", interests.Cities)
		}
	})

	t.Run("malformed user is empty", func(t *testing.T) {
		t.Parallel()

		rec, env := doRequest(t, router, http.MethodGet, "/api/v1/users/interests?user_id=xyz", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(string(env.Data), `"place_interests":[]`) {
			t.Errorf("data = %s, want empty arrays", env.Data)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()

		rec, env := doRequest(t, router, http.MethodGet, "/api/v1/users/interests", nil)
		if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != ErrCodeMissingUserID {
			t.Errorf("status = %d error = %+v, want 400 %s", rec.Code, env.Error, ErrCodeMissingUserID)
		}
	})
}

func TestUserRatings(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/users/ratings?user_id="+demoUser.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var data RatingsData
	decodeData(t, env, &data)

	if len(data.Ratings) != 2 {
		t.Fatalf("ratings = %d, want 2", len(data.Ratings))
	}
	if data.Ratings[0].Media.ID != "m3" || !data.Ratings[0].Liked {
		t.Errorf("first rating = %+v, want liked m3", data.Ratings[0])
	}
	if data.Ratings[1].Media.ID != "m9" || data.Ratings[1].Liked {
		t.Errorf("second rating = %+v, want not-liked m9", data.Ratings[1])
	}

	rec, env = doRequest(t, router, http.MethodGet, "/api/v1/users/ratings?user_id=bad", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("malformed: status = %d, want 200", rec.Code)
	}
	decodeData(t, env, &data)
	if len(data.Ratings) != 0 {
		t.Errorf("malformed: ratings = %d, want 0", len(data.Ratings))
	}
}

func TestMediaList(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	tests := []struct {
		name      string
		target    string
		wantHigh  []string
		wantLow   []string
		wantCount int
	}{
		{"anonymous", "/api/v1/media", nil, nil, 12},
		{"known user", "/api/v1/media?user_id=" + demoUser.String(), []string{"m3"}, []string{"m9"}, 12},
		{"malformed user", "/api/v1/media?user_id=oops", nil, nil, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, env := doRequest(t, router, http.MethodGet, tt.target, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var feed recommend.MediaFeed
			decodeData(t, env, &feed)

			if len(feed.All) != tt.wantCount {
				t.Errorf("all = %d, want %d", len(feed.All), tt.wantCount)
			}
			if got := itemIDs(feed.RatedHigh); !equalIDs(got, tt.wantHigh) {
				t.Errorf("rated_high = %v, want %v", got, tt.wantHigh)
			}
			if got := itemIDs(feed.RatedLow); !equalIDs(got, tt.wantLow) {
				t.Errorf("rated_low = %v, want %v", got, tt.wantLow)
			}
		})
	}
}

func newWritableRouter(t *testing.T, store *ratingStoreFake) http.Handler {
	t.Helper()
	h := newTestHandler(t, catalog.NewStaticProvider("", zerolog.New(io.Discard)))
	h.SetRatingStore(store)
	return newRouterFor(t, h)
}

func TestPutRating(t *testing.T) {
	t.Parallel()

	valid := fmt.Sprintf(`{"user_id":%q,"media_id":"m4","rate":4.5}`, demoUser)

	tests := []struct {
		name       string
		body       string
		storeErr   error
		wantStatus int
		wantCode   string
	}{
		{"valid", valid, nil, http.StatusOK, ""},
		{"not json", "rate=5", nil, http.StatusBadRequest, ErrCodeValidation},
		{"unknown field", fmt.Sprintf(`{"user_id":%q,"media_id":"m4","rate":4,"admin":true}`, demoUser), nil, http.StatusBadRequest, ErrCodeValidation},
		{"rate out of range", fmt.Sprintf(`{"user_id":%q,"media_id":"m4","rate":9}`, demoUser), nil, http.StatusBadRequest, ErrCodeValidation},
		{"malformed user", `{"user_id":"me","media_id":"m4","rate":4}`, nil, http.StatusBadRequest, ErrCodeValidation},
		{"unknown media", valid, fmt.Errorf("media m4: %w", database.ErrNotFound), http.StatusNotFound, ErrCodeNotFound},
		{"store failure", valid, errBoom, http.StatusInternalServerError, ErrCodeProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &ratingStoreFake{err: tt.storeErr}
			router := newWritableRouter(t, store)

			rec, env := doRequest(t, router, http.MethodPut, "/api/v1/users/ratings", strings.NewReader(tt.body))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
				}
				return
			}
			if len(store.upserted) != 1 || store.upserted[0].MediaID != "m4" || store.upserted[0].Rate != 4.5 {
				t.Errorf("upserted = %+v, want one m4 at 4.5", store.upserted)
			}
			if store.upserted[0].UpdatedAt.IsZero() {
				t.Error("updated_at should be stamped")
			}
		})
	}
}

func TestDeleteRating(t *testing.T) {
	t.Parallel()

	store := &ratingStoreFake{}
	router := newWritableRouter(t, store)

	rec, _ := doRequest(t, router, http.MethodDelete, "/api/v1/users/ratings?user_id="+demoUser.String()+"&media_id=m3", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(store.deleted) != 1 || store.deleted[0] != demoUser.String()+"/m3" {
		t.Errorf("deleted = %v", store.deleted)
	}

	rec, env := doRequest(t, router, http.MethodDelete, "/api/v1/users/ratings?media_id=m3", nil)
	if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != ErrCodeValidation {
		t.Errorf("missing user: status = %d error = %+v", rec.Code, env.Error)
	}
}

func TestRatingWrites_DisabledWithoutStore(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		rec, env := doRequest(t, router, method, "/api/v1/users/ratings", strings.NewReader("{}"))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: status = %d, want 405", method, rec.Code)
		}
		if env.Status != "error" {
			t.Errorf("%s: status field = %q, want error", method, env.Status)
		}
	}
}
