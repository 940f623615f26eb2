// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package models

import (
	"time"
)

// APIResponse is the envelope written by every HTTP endpoint.
//
// Status is "success" (see Data) or "error" (see Error).
//
//	{
//	  "status": "success",
//	  "data": {"items": [...], "source": "personalized"},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 3}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Count       *int      `json:"count,omitempty"`
}

// APIError is a machine-readable failure.
//
// Codes used by the feed API:
//   - VALIDATION_ERROR: malformed query parameters
//   - MISSING_CITY_ID, MISSING_USER_ID: a required identifier was absent
//   - LOCATION_UNRESOLVED: no catalog city matched the client location
//   - PROVIDER_ERROR: the catalog provider failed
//   - RATE_LIMIT_EXCEEDED: too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
