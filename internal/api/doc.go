// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package api exposes the catalog and the recommendation engine over HTTP.

# Routes

	GET    /health                              liveness and catalog counts
	GET    /metrics                             Prometheus exposition
	GET    /api/v1/search                       search across content types
	POST   /api/v1/import?format=json|yaml      bulk import (auth)
	GET    /api/v1/export?format=json|yaml      full catalog export
	GET    /api/v1/engine/stats                 engine and route statistics
	GET    /api/v1/{type}/items                 list items of a content type
	GET    /api/v1/{type}/items/{id}            fetch one item
	PUT    /api/v1/{type}/items/{id}            upsert one item (auth)
	DELETE /api/v1/{type}/items/{id}            delete one item (auth)
	GET    /api/v1/{type}/autoplay/{id}         depth-first similarity ranking
	GET    /api/v1/{type}/similar/{id}          breadth-first marathon ranking
	GET    /api/v1/{type}/sequels               viewing order of the whole type
	GET    /api/v1/{type}/sequels/{id}          viewing order reachable from id

{type} accepts the canonical names (movies, documentaries, series) and the
legacy aliases understood by catalog.ParseContentType. Sequel routes take
?strict=true to fail with 409 SEQUEL_CYCLE instead of tolerating cycles.

# Responses

Every response is a models.APIResponse envelope serialized with goccy/go-json
and tagged with an FNV-1a ETag. Error codes are stable strings
(VALIDATION_ERROR, NOT_FOUND, SEQUEL_CYCLE, UNAUTHORIZED, ...).

# Middleware

Global: request id, access log, real ip, panic recovery, CORS, compression,
Prometheus metrics and the in-memory performance monitor. Each route group
is rate limited by client IP with go-chi/httprate, and mutating routes are
guarded by auth.RequireBearer when a JWT secret is configured.
*/
package api
