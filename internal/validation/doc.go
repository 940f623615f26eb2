// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

// Package validation validates HTTP query parameters with go-playground/validator v10.
//
// The package wraps a thread-safe singleton validator and translates field
// errors into the VALIDATION_ERROR shape used by the API envelope.
//
// # Query Structs
//
// Each feed endpoint decodes its query string into one of the structs in
// params.go and validates it before calling the engine:
//
//	params := validation.NearestParams{
//	    City:  r.URL.Query().Get("city"),
//	    IP:    r.URL.Query().Get("ip"),
//	    Limit: limit,
//	}
//	if verr := validation.ValidateStruct(&params); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// Field names in messages come from the `query` struct tag, so clients see
// "limit must be at most 1000" rather than the Go field name.
//
// # Custom Tags
//
//   - catalogid: a city, place or media identifier (letters, digits, '.', '_', ':', '-')
//
// User identifiers are deliberately not validated here. A malformed user id
// is an unknown user, which the engine answers with a fallback.
package validation
