// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Coordinates is a WGS84 latitude/longitude pair in degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// City is a catalog city.
type City struct {
	ID          string      `json:"city_id"`
	Name        string      `json:"city_name"`
	Coordinates Coordinates `json:"coordinates"`
}

// Place is a point of interest inside a City.
type Place struct {
	ID          string      `json:"place_id"`
	CityID      string      `json:"city_id"`
	Name        string      `json:"place_name"`
	Coordinates Coordinates `json:"coordinates"`
}

// MediaItem is a photo or video of a Place carrying its community rating aggregate.
type MediaItem struct {
	ID           string  `json:"media_id"`
	PlaceID      string  `json:"place_id"`
	Title        string  `json:"title"`
	Caption      string  `json:"caption"`
	OverallRate  float64 `json:"overall_rate"`
	RatingsCount int     `json:"ratings_count"`
}

// Rating is one user's rate for one media item. (UserID, MediaID) is unique.
// Liked is derived from the personalized threshold when the engine reads the
// rating; providers neither store nor set it.
type Rating struct {
	UserID    uuid.UUID `json:"user_id"`
	MediaID   string    `json:"media_id"`
	Rate      float64   `json:"rate"`
	Liked     bool      `json:"liked"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bounds of a single user rate.
const (
	MinRate = 1.0
	MaxRate = 5.0
)

// ValidRate reports whether rate lies within [MinRate, MaxRate].
func ValidRate(rate float64) bool {
	return rate >= MinRate && rate <= MaxRate
}

// RoundRate rounds a rating aggregate to two decimal places.
func RoundRate(v float64) float64 {
	return math.Round(v*100) / 100
}
