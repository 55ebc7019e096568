// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/middleware"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/recommend"
)

type graphQuery func(ctx context.Context, ct catalog.ContentType, id string) (*recommend.QueryResult, error)

// Autoplay answers with up to recommend.MaxResults ids in depth-first order
// over the similarity adjacency, starting with {id}.
func (h *Handler) Autoplay(w http.ResponseWriter, r *http.Request) {
	h.runGraphQuery(w, r, h.engine.Autoplay)
}

// Similar answers with up to recommend.MaxResults ids in breadth-first
// order over the marathon adjacency, starting with {id}.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	h.runGraphQuery(w, r, h.engine.Similar)
}

// Sequels answers with the viewing order of the sequel graph, rooted at
// {id} when present. ?strict=true turns cycles into 409 SEQUEL_CYCLE.
func (h *Handler) Sequels(w http.ResponseWriter, r *http.Request) {
	strict := parseBoolParam(r, "strict")
	h.runGraphQuery(w, r, func(ctx context.Context, ct catalog.ContentType, id string) (*recommend.QueryResult, error) {
		return h.engine.SequelOrder(ctx, ct, id, strict)
	})
}

func (h *Handler) runGraphQuery(w http.ResponseWriter, r *http.Request, run graphQuery) {
	start := time.Now()
	ct, ok := contentTypeParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	ctx, cancel := requestContext(r)
	defer cancel()

	result, err := run(ctx, ct, id)
	if err != nil {
		respondStoreError(w, err, "graph")
		return
	}
	if !result.Found {
		respondError(w, http.StatusNotFound, codeNotFound, fmt.Sprintf("item %q is not in the %s graph", id, ct), nil)
		return
	}
	respondSuccess(w, http.StatusOK, recommendationResponse(result), start, result.Stale)
}

func recommendationResponse(result *recommend.QueryResult) models.RecommendationResponse {
	resp := models.RecommendationResponse{
		Query:        result.Query,
		ContentType:  result.ContentType.String(),
		StartID:      result.StartID,
		IDs:          result.IDs,
		Items:        make([]*catalog.Record, 0, len(result.Items)),
		GraphVersion: result.GraphVersion,
		Stale:        result.Stale,
	}
	for _, it := range result.Items {
		if item, ok := it.(*catalog.Item); ok {
			resp.Items = append(resp.Items, item.ToRecord())
		}
	}
	return resp
}

// EngineStatsResponse is the body of the engine stats endpoint.
type EngineStatsResponse struct {
	Engine recommend.EngineStats   `json:"engine"`
	Routes []middleware.RouteStats `json:"routes,omitempty"`
	Uptime string                  `json:"uptime"`
}

// EngineStats reports engine counters and recent per-route latencies.
func (h *Handler) EngineStats(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	resp := EngineStatsResponse{
		Engine: h.engine.Stats(),
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.monitor != nil {
		resp.Routes = h.monitor.Stats()
	}
	respondSuccess(w, http.StatusOK, resp, start, false)
}
