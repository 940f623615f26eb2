// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package recommend

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/cityfeed/internal/models"
)

// DataProvider is read-only access to the catalog and its ratings.
// Implementations must be safe for concurrent use.
type DataProvider interface {
	// GetCities returns every catalog city.
	GetCities(ctx context.Context) ([]models.City, error)

	// GetCityPlaces returns the places whose CityID equals cityID, or an empty slice.
	GetCityPlaces(ctx context.Context, cityID string) ([]models.Place, error)

	// GetAllPlaces returns every catalog place.
	GetAllPlaces(ctx context.Context) ([]models.Place, error)

	// GetMedia returns every media item with its rating aggregate.
	GetMedia(ctx context.Context) ([]models.MediaItem, error)

	// GetUserRatings returns the ratings written by one user, or an empty slice.
	GetUserRatings(ctx context.Context, userID uuid.UUID) ([]models.Rating, error)
}

// MatchReason explains why an item appears in a feed.
type MatchReason string

// Match reasons.
const (
	ReasonNearest        MatchReason = "your_nearest"
	ReasonHighUserRating MatchReason = "high_user_rating"
	ReasonSimilarTopic   MatchReason = "similar_topic"
	ReasonSameCity       MatchReason = "same_city"
)

// FeedSource distinguishes organic personalization from the popular fallback.
type FeedSource string

// Feed sources.
const (
	SourcePersonalized    FeedSource = "personalized"
	SourcePopularFallback FeedSource = "popular_fallback"
)

// ScoredItem is a media item with request-scoped annotations.
type ScoredItem struct {
	models.MediaItem

	// UserRate is the requesting user's own rate, when known.
	UserRate *float64 `json:"user_rate,omitempty"`

	// Liked is true iff UserRate >= the personalized threshold. Nil when UserRate is nil.
	Liked *bool `json:"liked,omitempty"`

	MatchReason MatchReason `json:"match_reason,omitempty"`

	// Score is the similarity score. Only set by similar-item expansion.
	Score float64 `json:"score,omitempty"`
}

// PersonalizedResult is the personalized feed.
type PersonalizedResult struct {
	Items  []ScoredItem `json:"items"`
	Source FeedSource   `json:"source"`

	// BaseCount is the number of items drawn from the user's own ratings.
	BaseCount int `json:"base_count"`

	// ExtraCount is the number of similar items appended after the base set.
	ExtraCount int `json:"extra_count"`
}

// InterestCount is one bucket of an interest distribution.
type InterestCount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Interests is a user's liked-item distribution by place and by city.
type Interests struct {
	Places []InterestCount `json:"place_interests"`
	Cities []InterestCount `json:"city_interests"`
}

// MediaFeed is the full media list, optionally split by the user's own ratings.
type MediaFeed struct {
	All       []ScoredItem `json:"all"`
	RatedHigh []ScoredItem `json:"rated_high,omitempty"`
	RatedLow  []ScoredItem `json:"rated_low,omitempty"`
}

// RatedMedia is one of a user's ratings joined with its media record.
type RatedMedia struct {
	Media     models.MediaItem `json:"media"`
	Rate      float64          `json:"rate"`
	Liked     bool             `json:"liked"`
	UpdatedAt time.Time        `json:"updated_at"`
}
