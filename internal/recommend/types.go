// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"errors"

	"github.com/tomtom215/cinegraph/internal/catalog"
)

// Sentinel errors returned by the package.
var (
	// ErrInvalidItem is returned by AddVertex for a nil item or an empty id.
	ErrInvalidItem = errors.New("invalid item")

	// ErrEmptyContainer is returned when popping from an empty Stack or Queue.
	ErrEmptyContainer = errors.New("container is empty")

	// ErrSequelCycle is wrapped by SequelCycleError.
	ErrSequelCycle = errors.New("sequel graph contains a cycle")

	// ErrUnknownContentType is returned for content types outside the catalog.
	ErrUnknownContentType = catalog.ErrUnknownContentType
)

const (
	// SequelWeight is the score assigned to a prequel/sequel pair.
	SequelWeight = 100.0

	// DefaultThreshold is the minimum score for a similarity or marathon edge.
	DefaultThreshold = 4.0

	// MaxResults bounds the Autoplay and Similar result lists.
	MaxResults = 7
)

// Item is the read-only view of a catalog entry used for scoring and graph
// construction. GetDirector returns "" when the item has no director.
type Item interface {
	GetID() string
	GetTags() map[string]float64
	GetKeywords() []string
	GetSequelIDs() []string
	GetDirector() string
}

// Edge is a weighted adjacency entry.
type Edge struct {
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

// Policy selects the scoring rules.
type Policy int

const (
	// PolicySimilarity favors items that share their defining traits.
	PolicySimilarity Policy = iota
	// PolicyMarathon favors items that share broad, binge-friendly traits.
	PolicyMarathon
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicySimilarity:
		return "similarity"
	case PolicyMarathon:
		return "marathon"
	default:
		return "unknown"
	}
}

// RecordDecoder turns a raw record into an Item.
type RecordDecoder func(raw []byte) (Item, error)

// CatalogDecoder returns the RecordDecoder for catalog records of type ct.
func CatalogDecoder(ct catalog.ContentType) RecordDecoder {
	return func(raw []byte) (Item, error) {
		item, err := catalog.DecodeRecord(ct, raw)
		if err != nil {
			return nil, err
		}
		return item, nil
	}
}
