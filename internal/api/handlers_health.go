// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/models"
)

// Health reports liveness, per-type item counts and the breaker state.
// A catalog that cannot be counted makes the service "degraded" (503).
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := requestContext(r)
	defer cancel()

	health := models.HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Items:     make(map[string]int, 3),
		Breaker:   h.engine.Stats().BreakerState,
		CheckedAt: time.Now(),
	}

	status := http.StatusOK
	for _, ct := range catalog.AllContentTypes() {
		n, err := h.store.Count(ctx, ct)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("content_type", ct.String()).Msg("health check could not count items")
			health.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		health.Items[ct.String()] = n
	}
	if health.Breaker == "open" {
		health.Status = "degraded"
	}

	respondSuccess(w, status, health, start, false)
}
