// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package catalog defines the media catalog model: content types, items with
// their per-kind payloads, the flat Record wire form and catalog search.
//
// Items satisfy the recommend.Item contract, so a slice of *Item can be fed
// straight into a recommend.ContentGraph. Records are decoded with
// goccy/go-json and validated with the shared validator before conversion:
//
//	item, err := catalog.DecodeRecord(catalog.Movies, raw)
//	if errors.Is(err, catalog.ErrInvalidRecord) {
//	    // skip
//	}
package catalog
