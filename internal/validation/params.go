// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package validation

// MaxQueryLimit bounds the limit parameter. The engine applies its own,
// usually smaller, cap afterwards.
const MaxQueryLimit = 1000

// FeedParams are the query parameters of the popular feed.
type FeedParams struct {
	Limit int `query:"limit" validate:"gte=0,lte=1000"`
}

// NearestParams are the query parameters of the nearest feed.
type NearestParams struct {
	City  string `query:"city" validate:"omitempty,max=64"`
	IP    string `query:"ip" validate:"omitempty,ip"`
	Limit int    `query:"limit" validate:"gte=0,lte=1000"`
}

// LocationParams are the query parameters of location resolution.
type LocationParams struct {
	City string `query:"city" validate:"omitempty,max=64"`
	IP   string `query:"ip" validate:"omitempty,ip"`
}

// UserParams carry the raw user id. Presence and format are checked by
// recommend.ParseUserID so a malformed id can degrade to an unknown user.
type UserParams struct {
	UserID string `query:"user_id" validate:"max=64"`
	Limit  int    `query:"limit" validate:"gte=0,lte=1000"`
}

// SimilarParams are the query parameters of the similar-items feed.
type SimilarParams struct {
	UserID  string   `query:"user_id" validate:"max=64"`
	Seeds   []string `query:"seed" validate:"min=1,max=50,dive,required,max=64,catalogid"`
	Exclude []string `query:"exclude" validate:"max=200,dive,required,max=64,catalogid"`
	Limit   int      `query:"limit" validate:"gte=0,lte=1000"`
}

// RatingBody is the JSON body of a rating write.
type RatingBody struct {
	UserID  string  `json:"user_id" query:"user_id" validate:"required,uuid"`
	MediaID string  `json:"media_id" query:"media_id" validate:"required,max=64,catalogid"`
	Rate    float64 `json:"rate" query:"rate" validate:"gte=1,lte=5"`
}

// RatingKey identifies a rating to delete.
type RatingKey struct {
	UserID  string `query:"user_id" validate:"required,uuid"`
	MediaID string `query:"media_id" validate:"required,max=64,catalogid"`
}
