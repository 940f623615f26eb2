// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package api

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cityfeed/internal/logging"
	"github.com/tomtom215/cityfeed/internal/models"
	"github.com/tomtom215/cityfeed/internal/validation"
)

// sanitizeLogValue escapes control characters so client input cannot forge log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON writes the envelope with an ETag.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag returns a weak ETag from an FNV-1a hash of the body.
func generateETag(data []byte) string {
	h := fnv.New32a()
	_, _ = h.Write(data)
	return `W/"` + strconv.FormatUint(uint64(h.Sum32()), 16) + `"`
}

// respondSuccess writes a success envelope timed from start.
func respondSuccess(w http.ResponseWriter, start time.Time, data interface{}, count int) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Count:       &count,
		},
	})
}

// respondError writes an error envelope. err, when set, is logged with the request IDs.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	respondErrorWithDetails(w, r, status, code, message, nil, err)
}

func respondErrorWithDetails(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}, err error) {
	if err != nil {
		logger := logging.Ctx(r.Context())
		level := zerolog.WarnLevel
		if status >= http.StatusInternalServerError {
			level = zerolog.ErrorLevel
		}
		logger.WithLevel(level).
			Str("code", code).
			Str("path", r.URL.Path).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondEngineError maps err and writes it.
func respondEngineError(w http.ResponseWriter, r *http.Request, err error) int {
	status, code, message := classifyError(err)
	respondError(w, r, status, code, message, err)
	return status
}

// validateRequest runs the validator and converts failures to models.APIError.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// respondValidation writes a 400 for a validation failure.
func respondValidation(w http.ResponseWriter, r *http.Request, apiErr *models.APIError) {
	respondErrorWithDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
}

// getIntParam reads an integer query parameter. A missing value yields
// defaultValue; a malformed one yields an error.
func getIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

// parseLimit reads limit, writing a 400 and returning false when it is malformed.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	limit, err := getIntParam(r, "limit", 0)
	if err != nil {
		respondErrorWithDetails(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(),
			map[string]interface{}{"field": "limit", "value": r.URL.Query().Get("limit")}, nil)
		return 0, false
	}
	return limit, true
}

// parseCommaSeparated splits a comma-separated parameter, dropping blanks.
// Repeated parameters (?seed=a&seed=b) are merged.
func parseCommaSeparated(values []string) []string {
	var result []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
	}
	return result
}
