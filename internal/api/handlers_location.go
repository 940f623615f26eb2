// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cityfeed/internal/geo"
	"github.com/tomtom215/cityfeed/internal/validation"
)

// Location serves GET /location. Unresolved locations are a successful
// response with source "unresolved".
func (h *Handler) Location(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	params := validation.LocationParams{City: q.Get("city"), IP: q.Get("ip")}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	res, err := h.resolver.Resolve(r.Context(), geo.Request{
		ClientIP: geo.ClientIP(r, params.IP),
		CityID:   params.City,
	})
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	count := 0
	if res.Resolved() {
		count = 1
	}
	respondSuccess(w, start, res, count)
}
