// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"context"
	"io"
	"time"

	"github.com/tomtom215/cinegraph/internal/cache"
	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/middleware"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/recommend"
	"github.com/tomtom215/cinegraph/internal/store"
)

// handlerTimeout bounds the store and engine work of a single request.
const handlerTimeout = 10 * time.Second

// DefaultMaxImportBytes caps the size of an import request body.
const DefaultMaxImportBytes = 32 << 20

// CatalogStore is the catalog persistence the handlers need.
// *store.Store implements it.
type CatalogStore interface {
	Get(ctx context.Context, ct catalog.ContentType, id string) (*catalog.Item, error)
	Put(ctx context.Context, ct catalog.ContentType, item *catalog.Item) error
	Delete(ctx context.Context, ct catalog.ContentType, id string) (bool, error)
	List(ctx context.Context, ct catalog.ContentType) ([]*catalog.Item, error)
	Search(ctx context.Context, q *catalog.Query) ([]*catalog.Item, error)
	Count(ctx context.Context, ct catalog.ContentType) (int, error)
	Version(ctx context.Context, ct catalog.ContentType) (uint64, error)
	Import(ctx context.Context, r io.Reader, format store.Format) (*store.ImportResult, error)
	Export(ctx context.Context, w io.Writer, format store.Format) error
}

// Recommender answers graph queries. *recommend.Engine implements it.
type Recommender interface {
	Autoplay(ctx context.Context, ct catalog.ContentType, id string) (*recommend.QueryResult, error)
	Similar(ctx context.Context, ct catalog.ContentType, id string) (*recommend.QueryResult, error)
	SequelOrder(ctx context.Context, ct catalog.ContentType, start string, strict bool) (*recommend.QueryResult, error)
	Stats() recommend.EngineStats
}

// HandlerOptions carries the optional handler settings.
type HandlerOptions struct {
	// Version is reported by /health.
	Version string

	// Monitor, when set, has its route statistics included in engine stats.
	Monitor *middleware.PerformanceMonitor

	// SearchCacheSize and SearchCacheTTL size the search response cache.
	// A zero size disables it.
	SearchCacheSize int
	SearchCacheTTL  time.Duration

	// MaxImportBytes caps import bodies. Zero uses DefaultMaxImportBytes.
	MaxImportBytes int64
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	store   CatalogStore
	engine  Recommender
	monitor *middleware.PerformanceMonitor

	// searches memoizes search results by query and catalog versions.
	searches *cache.LRUCache[models.SearchResult]

	version        string
	maxImportBytes int64
	startTime      time.Time
}

// NewHandler creates the API handler.
func NewHandler(st CatalogStore, engine Recommender, opts HandlerOptions) *Handler {
	h := &Handler{
		store:          st,
		engine:         engine,
		monitor:        opts.Monitor,
		version:        opts.Version,
		maxImportBytes: opts.MaxImportBytes,
		startTime:      time.Now(),
	}
	if h.version == "" {
		h.version = "dev"
	}
	if h.maxImportBytes <= 0 {
		h.maxImportBytes = DefaultMaxImportBytes
	}
	if opts.SearchCacheSize > 0 {
		ttl := opts.SearchCacheTTL
		if ttl <= 0 {
			ttl = time.Minute
		}
		h.searches = cache.NewLRUCache[models.SearchResult](opts.SearchCacheSize, ttl)
	}
	return h
}
