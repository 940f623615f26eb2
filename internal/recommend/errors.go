// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package recommend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrMissingCityID is returned when a city-scoped feed is requested without a city.
	ErrMissingCityID = errors.New("city id is required")

	// ErrMissingUserID is returned when a user-scoped query is requested without a user.
	ErrMissingUserID = errors.New("user id is required")

	// ErrMissingSeeds is returned when similar items are requested without seeds.
	ErrMissingSeeds = errors.New("at least one seed media id is required")

	// ErrInvalidUserID is returned by ParseUserID for malformed identifiers.
	ErrInvalidUserID = errors.New("user id is not a valid UUID")
)

// ParseUserID parses a user identifier at the request boundary.
//
// An empty value yields ErrMissingUserID. A malformed value yields an error
// wrapping ErrInvalidUserID; callers treat that as an unknown user rather
// than a failure.
func ParseUserID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, ErrMissingUserID
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidUserID, raw)
	}
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: nil uuid", ErrInvalidUserID)
	}
	return id, nil
}
