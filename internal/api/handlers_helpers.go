// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/recommend"
	"github.com/tomtom215/cinegraph/internal/store"
	"github.com/tomtom215/cinegraph/internal/validation"
)

// Error codes used in APIError.Code.
const (
	codeValidation   = "VALIDATION_ERROR"
	codeNotFound     = "NOT_FOUND"
	codeSequelCycle  = "SEQUEL_CYCLE"
	codeUnauthorized = "UNAUTHORIZED"
	codeRateLimited  = "RATE_LIMIT_EXCEEDED"
	codeUnavailable  = "SERVICE_UNAVAILABLE"
	codeTimeout      = "TIMEOUT"
	codeInternal     = "INTERNAL_ERROR"
)

// sanitizeLogValue escapes control characters so request-derived strings
// cannot forge log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

// respondSuccess wraps data in a success envelope timed from start.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, start time.Time, cached bool) {
	respondJSON(w, status, &models.APIResponse{
		Status: models.StatusSuccess,
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
		},
	})
}

// generateETag derives an entity tag from data using FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

// respondError sends an error response. err is logged, never returned to
// the client.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().
			Str("code", code).
			Int("status", status).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   models.StatusError,
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    &models.APIError{Code: code, Message: message},
	})
}

// respondAPIError sends a prepared APIError as 400.
func respondAPIError(w http.ResponseWriter, apiErr *models.APIError) {
	respondJSON(w, http.StatusBadRequest, &models.APIResponse{
		Status:   models.StatusError,
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    apiErr,
	})
}

// validateRequest validates v with the shared validator and converts a
// failure into an APIError.
func validateRequest(v interface{}) *models.APIError {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	apiErr := verr.ToAPIError()
	return &models.APIError{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details}
}

// respondStoreError maps store and engine failures to HTTP responses.
func respondStoreError(w http.ResponseWriter, err error, what string) {
	var cycle *recommend.SequelCycleError
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, codeNotFound, what+" not found", nil)
	case errors.As(err, &cycle):
		respondJSON(w, http.StatusConflict, &models.APIResponse{
			Status:   models.StatusError,
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error: &models.APIError{
				Code:    codeSequelCycle,
				Message: "sequel graph contains a cycle",
				Details: map[string]interface{}{"cycle": cycle.Path},
			},
		})
	case errors.Is(err, catalog.ErrInvalidRecord), errors.Is(err, store.ErrInvalidItem),
		errors.Is(err, store.ErrUnknownFormat), errors.Is(err, store.ErrMalformedDocument),
		errors.Is(err, catalog.ErrUnknownContentType):
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests),
		errors.Is(err, store.ErrClosed):
		respondError(w, http.StatusServiceUnavailable, codeUnavailable, "catalog temporarily unavailable", err)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, codeTimeout, "request timed out", err)
	default:
		respondError(w, http.StatusInternalServerError, codeInternal, "internal error", err)
	}
}

// contentTypeParam parses the {type} URL parameter, answering 400 on failure.
func contentTypeParam(w http.ResponseWriter, r *http.Request) (catalog.ContentType, bool) {
	ct, err := catalog.ParseContentType(chi.URLParam(r, "type"))
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation,
			"content type must be one of: "+strings.Join(validation.ContentTypeNames, ", "), nil)
		return 0, false
	}
	return ct, true
}

// parseCommaSeparated splits a query value on commas, dropping blanks.
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseBoolParam reads a boolean query parameter; anything unparsable is false.
func parseBoolParam(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

// requestContext bounds a handler's downstream work.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), handlerTimeout)
}
