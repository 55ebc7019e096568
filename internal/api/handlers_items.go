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
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinegraph/internal/cache"
	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/store"
)

// maxItemBytes caps a single item upsert body.
const maxItemBytes = 1 << 20

// ListItems returns every item of a content type ordered by id.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ct, ok := contentTypeParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	items, err := h.store.List(ctx, ct)
	if err != nil {
		respondStoreError(w, err, "content type")
		return
	}
	respondSuccess(w, http.StatusOK, models.NewItemList(ct.String(), items), start, false)
}

// GetItem returns one item.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ct, ok := contentTypeParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	ctx, cancel := requestContext(r)
	defer cancel()

	item, err := h.store.Get(ctx, ct, id)
	if err != nil {
		respondStoreError(w, err, fmt.Sprintf("item %q", id))
		return
	}
	respondSuccess(w, http.StatusOK, models.ItemResponse{ContentType: ct.String(), Item: item.ToRecord()}, start, false)
}

// PutItem creates or replaces one item. The body is a catalog.Record; its
// id may be omitted but must otherwise equal the path id. Answers 201 when
// the item did not exist before.
func (h *Handler) PutItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ct, ok := contentTypeParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var rec catalog.Record
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxItemBytes)).Decode(&rec); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, codeValidation, "item body too large", nil)
			return
		}
		respondError(w, http.StatusBadRequest, codeValidation, "request body must be a JSON catalog record", nil)
		return
	}
	if rec.ID == "" {
		rec.ID = id
	}
	if rec.ID != id {
		respondError(w, http.StatusBadRequest, codeValidation,
			fmt.Sprintf("body id %q does not match path id %q", rec.ID, id), nil)
		return
	}
	if apiErr := validateRequest(&rec); apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}
	item, err := rec.ToItem(ct)
	if err != nil {
		respondStoreError(w, err, "item")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	status := http.StatusOK
	if _, err := h.store.Get(ctx, ct, id); errors.Is(err, store.ErrNotFound) {
		status = http.StatusCreated
	}
	if err := h.store.Put(ctx, ct, item); err != nil {
		respondStoreError(w, err, "item")
		return
	}
	respondSuccess(w, status, models.ItemResponse{ContentType: ct.String(), Item: item.ToRecord()}, start, false)
}

// DeleteItem removes one item.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ct, ok := contentTypeParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	ctx, cancel := requestContext(r)
	defer cancel()

	deleted, err := h.store.Delete(ctx, ct, id)
	if err != nil {
		respondStoreError(w, err, "item")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, codeNotFound, fmt.Sprintf("item %q not found", id), nil)
		return
	}
	respondSuccess(w, http.StatusOK, models.DeleteResponse{ContentType: ct.String(), ID: id, Deleted: true}, start, false)
}

// searchRequest holds the validated search query parameters.
type searchRequest struct {
	ID       string   `json:"id" validate:"max=256"`
	Title    string   `json:"title" validate:"max=256"`
	Tags     []string `json:"tags" validate:"max=32,dive,nonblank"`
	Keywords []string `json:"keywords" validate:"max=32,dive,nonblank"`
	Types    []string `json:"types" validate:"dive,contenttype"`
}

func (req *searchRequest) query() *catalog.Query {
	q := &catalog.Query{ID: req.ID, Title: req.Title, Tags: req.Tags, Keywords: req.Keywords}
	for _, name := range req.Types {
		// Already validated as a canonical name.
		if ct, err := catalog.ParseContentType(name); err == nil {
			q.Types = append(q.Types, ct)
		}
	}
	return q
}

// Search filters the catalog across content types.
//
// Query parameters: id, title (substring, case-insensitive), tags and
// keywords (comma-separated, any match), types (comma-separated canonical
// content type names).
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	qs := r.URL.Query()
	req := searchRequest{
		ID:       qs.Get("id"),
		Title:    qs.Get("title"),
		Tags:     parseCommaSeparated(qs.Get("tags")),
		Keywords: parseCommaSeparated(qs.Get("keywords")),
		Types:    parseCommaSeparated(qs.Get("types")),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	key, err := h.searchKey(ctx, &req)
	if err != nil {
		respondStoreError(w, err, "catalog")
		return
	}
	if h.searches != nil {
		if result, ok := h.searches.Get(key); ok {
			respondSuccess(w, http.StatusOK, result, start, true)
			return
		}
	}

	items, err := h.store.Search(ctx, req.query())
	if err != nil {
		respondStoreError(w, err, "catalog")
		return
	}
	result := models.NewSearchResult(items)
	if h.searches != nil {
		h.searches.Add(key, result)
	}
	respondSuccess(w, http.StatusOK, result, start, false)
}

// searchKey combines the query with every content type version so that a
// catalog write makes older cached results unreachable.
func (h *Handler) searchKey(ctx context.Context, req *searchRequest) (string, error) {
	if h.searches == nil {
		return "", nil
	}
	versions := make([]uint64, 0, 3)
	for _, ct := range catalog.AllContentTypes() {
		v, err := h.store.Version(ctx, ct)
		if err != nil {
			return "", err
		}
		versions = append(versions, v)
	}
	return cache.GenerateKey("search", struct {
		Request  *searchRequest
		Versions []uint64
	}{req, versions}), nil
}
