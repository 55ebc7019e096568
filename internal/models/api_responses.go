// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the envelope of every HTTP response.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"query": "autoplay", "ids": ["jp1", "jp2"], ...},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 3}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "NOT_FOUND", "message": "item jp9 not found"},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing. Cached is set when the body came from
// the search response cache or from a stale graph.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is the machine-readable error body.
//
// Error codes:
//   - VALIDATION_ERROR: invalid path, query or body input
//   - NOT_FOUND: unknown item or graph vertex
//   - SEQUEL_CYCLE: strict sequel ordering met a cycle
//   - UNAUTHORIZED: missing or invalid bearer token on a write route
//   - RATE_LIMIT_EXCEEDED: too many requests
//   - SERVICE_UNAVAILABLE: catalog unreachable
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
