// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/cityfeed/internal/database"
	"github.com/tomtom215/cityfeed/internal/recommend"
)

// Error codes written in APIError.Code.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeMissingCityID      = "MISSING_CITY_ID"
	ErrCodeMissingUserID      = "MISSING_USER_ID"
	ErrCodeLocationUnresolved = "LOCATION_UNRESOLVED"
	ErrCodeProvider           = "PROVIDER_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	ErrCodeNotReady           = "SERVICE_UNAVAILABLE"
	ErrCodeRequestCanceled    = "REQUEST_CANCELED"
)

// statusClientClosedRequest is the de facto status for requests the client abandoned.
const statusClientClosedRequest = 499

// classifyError maps an engine or storage error to a status and code.
func classifyError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, recommend.ErrMissingCityID):
		return http.StatusBadRequest, ErrCodeMissingCityID, "city is required"
	case errors.Is(err, recommend.ErrMissingUserID):
		return http.StatusBadRequest, ErrCodeMissingUserID, "user_id is required"
	case errors.Is(err, recommend.ErrMissingSeeds):
		return http.StatusBadRequest, ErrCodeValidation, "at least one seed is required"
	case errors.Is(err, database.ErrInvalidRating):
		return http.StatusBadRequest, ErrCodeValidation, err.Error()
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound, "media not found"
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, ErrCodeRequestCanceled, "request canceled"
	default:
		return http.StatusInternalServerError, ErrCodeProvider, "catalog provider failed"
	}
}

// outcomeFor labels a feed computation for metrics.
func outcomeFor(status, items int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "error"
	case status >= http.StatusBadRequest:
		return "client_error"
	case items == 0:
		return "empty"
	default:
		return "ok"
	}
}
