// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/store"
)

// requestFormat picks the document format from ?format, falling back to
// the request Content-Type and then JSON.
func requestFormat(r *http.Request) (store.Format, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		return store.ParseFormat(f)
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil {
		switch mediaType {
		case "application/yaml", "application/x-yaml", "text/yaml":
			return store.FormatYAML, nil
		}
	}
	return store.FormatJSON, nil
}

// Import loads a catalog document. Records that fail validation are
// skipped and counted; the response carries the per-type tallies.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	format, err := requestFormat(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "format must be json or yaml", nil)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	result, err := h.store.Import(ctx, http.MaxBytesReader(w, r.Body, h.maxImportBytes), format)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, codeValidation, "import document too large", nil)
			return
		}
		respondStoreError(w, err, "document")
		return
	}

	logging.Ctx(ctx).Info().
		Int("imported", result.Total()).
		Int("skipped", result.TotalSkipped()).
		Strs("unknown_types", result.UnknownTypes).
		Msg("catalog imported over HTTP")
	respondSuccess(w, http.StatusOK, result, start, false)
}

// Export streams the whole catalog as an import-compatible document. The
// body is the bare document, not an APIResponse envelope.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := requestFormat(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "format must be json or yaml", nil)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var buf bytes.Buffer
	if err := h.store.Export(ctx, &buf, format); err != nil {
		respondStoreError(w, err, "catalog")
		return
	}

	contentType := "application/json"
	if format == store.FormatYAML {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="catalog.`+string(format)+`"`)
	w.Header().Set("ETag", generateETag(buf.Bytes()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to write export")
	}
}
