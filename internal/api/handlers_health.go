// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/cityfeed/internal/models"
)

// readinessTimeout bounds the provider ping in HealthReady.
const readinessTimeout = 2 * time.Second

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}

// HealthReady handles readiness probe requests.
// Returns 200 OK only if the catalog provider answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	providerOK := true
	var pingErr string
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		if err := h.ready.Ping(ctx); err != nil {
			providerOK = false
			pingErr = err.Error()
		}
	}

	statusCode := http.StatusOK
	status := "ready"
	if !providerOK {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	data := map[string]interface{}{
		"provider_ok":    providerOK,
		"ready_to_serve": providerOK,
		"uptime":         time.Since(h.startTime).Seconds(),
	}
	if pingErr != "" {
		data["provider_error"] = sanitizeLogValue(pingErr)
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}
