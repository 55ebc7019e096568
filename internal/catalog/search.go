// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package catalog

import "strings"

// Query filters catalog items. Every non-empty criterion must match.
type Query struct {
	// ID matches a case-insensitive substring of the item id.
	ID string `json:"id,omitempty"`
	// Title matches a case-insensitive substring of the title.
	Title string `json:"title,omitempty"`
	// Tags matches items carrying at least one of the listed tags.
	Tags []string `json:"tags,omitempty"`
	// Keywords matches items sharing at least one keyword.
	Keywords []string `json:"keywords,omitempty"`
	// Types restricts the search to the listed content types. Empty means all.
	Types []ContentType `json:"types,omitempty"`
}

// IsEmpty reports whether the query has no criteria at all.
func (q *Query) IsEmpty() bool {
	return q.ID == "" && q.Title == "" && len(q.Tags) == 0 && len(q.Keywords) == 0 && len(q.Types) == 0
}

// IncludesType reports whether items of ct are in scope.
func (q *Query) IncludesType(ct ContentType) bool {
	if len(q.Types) == 0 {
		return true
	}
	for _, t := range q.Types {
		if t == ct {
			return true
		}
	}
	return false
}

// Matches reports whether the item satisfies every criterion of the query.
func (q *Query) Matches(item *Item) bool {
	if item == nil || !q.IncludesType(item.Type) {
		return false
	}
	if q.ID != "" && !containsFold(item.ID, q.ID) {
		return false
	}
	if q.Title != "" && !containsFold(item.Title, q.Title) {
		return false
	}
	if len(q.Tags) > 0 && !hasAnyTag(item.Tags, q.Tags) {
		return false
	}
	if len(q.Keywords) > 0 && !sharesKeyword(item.Keywords, q.Keywords) {
		return false
	}
	return true
}

// Search returns the items matching q, preserving input order.
func Search(items []*Item, q *Query) []*Item {
	out := make([]*Item, 0)
	for _, item := range items {
		if q.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func hasAnyTag(tags map[string]float64, wanted []string) bool {
	for _, t := range wanted {
		if _, ok := tags[t]; ok {
			return true
		}
	}
	return false
}

func sharesKeyword(have, wanted []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, k := range have {
		set[k] = struct{}{}
	}
	for _, k := range wanted {
		if _, ok := set[k]; ok {
			return true
		}
	}
	return false
}
