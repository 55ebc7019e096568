// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinegraph/internal/auth"
	"github.com/tomtom215/cinegraph/internal/middleware"
)

// RouterConfig configures NewRouter.
type RouterConfig struct {
	// Middleware configures CORS and rate limiting. Nil uses defaults.
	Middleware *ChiMiddlewareConfig

	// JWT guards the mutating routes. Nil leaves them open.
	JWT *auth.JWTManager
}

// NewRouter wires the handler into a chi router.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	mwConfig := cfg.Middleware
	if mwConfig == nil {
		mwConfig = DefaultChiMiddlewareConfig()
	}
	if mwConfig.RateLimitOnLimit == nil {
		limited := *mwConfig
		limited.RateLimitOnLimit = func(w http.ResponseWriter, _ *http.Request) {
			respondError(w, http.StatusTooManyRequests, codeRateLimited, "too many requests", nil)
		}
		mwConfig = &limited
	}
	mw := NewChiMiddleware(mwConfig)
	writeLimit := mw.RateLimitWrite()
	requireToken := auth.RequireBearer(cfg.JWT, func(w http.ResponseWriter, _ *http.Request, _ error) {
		respondError(w, http.StatusUnauthorized, codeUnauthorized, "a valid bearer token is required", nil)
	})

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())
	r.Use(chimiddleware.Compress(5, "application/json", "application/yaml"))
	r.Use(middleware.PrometheusMetrics)
	if h.monitor != nil {
		r.Use(h.monitor.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, codeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, codeValidation, "method not allowed", nil)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimitHealth())
		r.Get("/health", h.Health)
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(APISecurityHeaders())

		r.Get("/search", h.Search)
		r.Get("/export", h.Export)
		r.Get("/engine/stats", h.EngineStats)
		r.With(writeLimit, requireToken).Post("/import", h.Import)

		r.Route("/{type}", func(r chi.Router) {
			r.Get("/items", h.ListItems)
			r.Get("/items/{id}", h.GetItem)
			r.With(writeLimit, requireToken).Put("/items/{id}", h.PutItem)
			r.With(writeLimit, requireToken).Delete("/items/{id}", h.DeleteItem)

			r.Get("/autoplay/{id}", h.Autoplay)
			r.Get("/similar/{id}", h.Similar)
			r.Get("/sequels", h.Sequels)
			r.Get("/sequels/{id}", h.Sequels)
		})
	})

	return r
}
