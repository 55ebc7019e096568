// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package middleware provides the HTTP middleware shared by the API router.

Components:

  - RequestID: request and correlation ids in headers and context
  - AccessLog: one zerolog line per request
  - PrometheusMetrics: request counters and latency histograms labelled
    by chi route pattern
  - PerformanceMonitor: in-memory latency window behind the engine stats
    endpoint

All middleware uses the func(http.Handler) http.Handler shape so it can be
passed straight to chi's Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	r.Use(monitor.Middleware)

RoutePattern only reports the matched route once routing has happened, so
the metrics middleware reads it after calling the next handler.
*/
package middleware
