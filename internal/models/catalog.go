// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package models

import (
	"time"

	"github.com/tomtom215/cinegraph/internal/catalog"
)

// ItemList is the body of list and search responses.
type ItemList struct {
	ContentType string            `json:"content_type,omitempty"`
	Count       int               `json:"count"`
	Items       []*catalog.Record `json:"items"`
}

// NewItemList flattens items into their wire records.
func NewItemList(contentType string, items []*catalog.Item) ItemList {
	records := make([]*catalog.Record, len(items))
	for i, item := range items {
		records[i] = item.ToRecord()
	}
	return ItemList{ContentType: contentType, Count: len(records), Items: records}
}

// SearchHit is one search match. The record fields are inlined next to
// the content type the item belongs to.
type SearchHit struct {
	ContentType string `json:"content_type"`
	*catalog.Record
}

// SearchResult is the body of search responses.
type SearchResult struct {
	Count int         `json:"count"`
	Hits  []SearchHit `json:"hits"`
}

// NewSearchResult flattens matched items, keeping their content type.
func NewSearchResult(items []*catalog.Item) SearchResult {
	hits := make([]SearchHit, len(items))
	for i, item := range items {
		hits[i] = SearchHit{ContentType: item.Type.String(), Record: item.ToRecord()}
	}
	return SearchResult{Count: len(hits), Hits: hits}
}

// ItemResponse is the body of single-item responses.
type ItemResponse struct {
	ContentType string          `json:"content_type"`
	Item        *catalog.Record `json:"item"`
}

// DeleteResponse reports the outcome of a delete.
type DeleteResponse struct {
	ContentType string `json:"content_type"`
	ID          string `json:"id"`
	Deleted     bool   `json:"deleted"`
}

// RecommendationResponse is the body of autoplay, similar and sequel
// queries. Items follow the order of IDs.
type RecommendationResponse struct {
	Query        string            `json:"query"`
	ContentType  string            `json:"content_type"`
	StartID      string            `json:"start_id,omitempty"`
	IDs          []string          `json:"ids"`
	Items        []*catalog.Record `json:"items"`
	GraphVersion uint64            `json:"graph_version"`
	Stale        bool              `json:"stale,omitempty"`
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status    string         `json:"status"`
	Version   string         `json:"version"`
	Uptime    string         `json:"uptime"`
	Items     map[string]int `json:"items"`
	Breaker   string         `json:"breaker"`
	CheckedAt time.Time      `json:"checked_at"`
}
