// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cinegraph/internal/cache"
	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/metrics"
)

// Query names used in results, logs and metrics.
const (
	QueryAutoplay = "autoplay"
	QuerySimilar  = "similar"
	QuerySequels  = "sequels"
)

// breakerName labels the catalog read breaker in metrics.
const breakerName = "catalog-source"

// CatalogSource provides the raw catalog records a graph is built from.
// It is typically implemented by the store package.
type CatalogSource interface {
	// ListRaw returns the raw JSON records of one content type.
	ListRaw(ctx context.Context, ct catalog.ContentType) ([][]byte, error)

	// Version returns a counter that changes whenever the content type changes.
	Version(ctx context.Context, ct catalog.ContentType) (uint64, error)
}

// Engine builds content graphs from a CatalogSource and answers graph
// queries against them. Built graphs are memoized per content type and
// catalog version. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger
	source CatalogSource

	graphs  *cache.LRUCache[*builtGraph]
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[interface{}]

	// buildMu serializes builds per content type.
	buildMu map[catalog.ContentType]*sync.Mutex

	// latest holds the most recent graph per content type, served when a
	// rebuild is throttled.
	latest   map[catalog.ContentType]*builtGraph
	latestMu sync.RWMutex

	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	buildCount   atomic.Int64
	throttled    atomic.Int64
	errorCount   atomic.Int64
}

type builtGraph struct {
	graph   *ContentGraph
	version uint64
	builtAt time.Time
	skipped int
}

// QueryResult is the outcome of a graph query.
type QueryResult struct {
	Query        string              `json:"query"`
	ContentType  catalog.ContentType `json:"content_type"`
	StartID      string              `json:"start_id,omitempty"`
	Found        bool                `json:"found"`
	IDs          []string            `json:"ids"`
	Items        []Item              `json:"items,omitempty"`
	GraphVersion uint64              `json:"graph_version"`
	Stale        bool                `json:"stale"`
}

// EngineStats is a snapshot of engine counters.
type EngineStats struct {
	Requests     int64       `json:"requests"`
	CacheHits    int64       `json:"cache_hits"`
	CacheMisses  int64       `json:"cache_misses"`
	Builds       int64       `json:"builds"`
	Throttled    int64       `json:"throttled"`
	Errors       int64       `json:"errors"`
	CachedGraphs int         `json:"cached_graphs"`
	BreakerState string      `json:"breaker_state"`
	Cache        cache.Stats `json:"cache"`
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, source CatalogSource, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if source == nil {
		return nil, errors.New("catalog source is required")
	}

	e := &Engine{
		config:  cfg.Clone(),
		logger:  logger.With().Str("component", "recommend").Logger(),
		source:  source,
		graphs:  cache.NewLRUCache[*builtGraph](cfg.Cache.Size, cfg.Cache.TTL),
		limiter: rate.NewLimiter(rate.Limit(cfg.Rebuild.Rate), cfg.Rebuild.Burst),
		buildMu: make(map[catalog.ContentType]*sync.Mutex),
		latest:  make(map[catalog.ContentType]*builtGraph),
	}
	for _, ct := range catalog.AllContentTypes() {
		e.buildMu[ct] = &sync.Mutex{}
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	e.breaker = gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Breaker.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
		},
	})

	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Graph returns the content graph for ct, building it if the catalog version
// changed since the last build.
func (e *Engine) Graph(ctx context.Context, ct catalog.ContentType) (*ContentGraph, error) {
	bg, _, err := e.graph(ctx, ct)
	if err != nil {
		return nil, err
	}
	return bg.graph, nil
}

func (e *Engine) graph(ctx context.Context, ct catalog.ContentType) (*builtGraph, bool, error) {
	if !ct.Valid() {
		return nil, false, fmt.Errorf("%w: %d", ErrUnknownContentType, int(ct))
	}

	version, err := castResult[uint64](e.execute(func() (interface{}, error) {
		v, err := e.source.Version(ctx, ct)
		return v, err
	}))
	if err != nil {
		if stale := e.latestGraph(ct); stale != nil && isBreakerRejection(err) {
			e.logger.Warn().Err(err).Str("content_type", ct.String()).Msg("catalog unavailable, serving last graph")
			return stale, true, nil
		}
		return nil, false, fmt.Errorf("failed to read catalog version: %w", err)
	}

	key := graphKey(ct, version, e.config.Threshold)
	if bg, ok := e.graphs.Get(key); ok {
		e.cacheHits.Add(1)
		metrics.RecordGraphCache(true)
		return bg, false, nil
	}
	e.cacheMisses.Add(1)
	metrics.RecordGraphCache(false)

	mu := e.buildMu[ct]
	mu.Lock()
	defer mu.Unlock()

	// Another caller may have finished the build while we waited.
	if bg, ok := e.graphs.Get(key); ok {
		return bg, false, nil
	}

	if !e.limiter.Allow() {
		e.throttled.Add(1)
		metrics.RebuildThrottled.Inc()
		if stale := e.latestGraph(ct); stale != nil {
			e.logger.Debug().Str("content_type", ct.String()).Uint64("version", stale.version).
				Msg("rebuild throttled, serving previous graph")
			return stale, true, nil
		}
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, false, fmt.Errorf("waiting for rebuild slot: %w", err)
		}
	}

	bg, err := e.build(ctx, ct, version)
	if err != nil {
		return nil, false, err
	}

	e.graphs.Add(key, bg)
	e.latestMu.Lock()
	e.latest[ct] = bg
	e.latestMu.Unlock()

	return bg, false, nil
}

func (e *Engine) build(ctx context.Context, ct catalog.ContentType, version uint64) (*builtGraph, error) {
	start := time.Now()

	records, err := castResult[[][]byte](e.execute(func() (interface{}, error) {
		r, err := e.source.ListRaw(ctx, ct)
		return r, err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s catalog: %w", ct, err)
	}

	g := NewContentGraph()
	skipped, err := g.BuildFromRecords(records, ct)
	if err != nil {
		return nil, err
	}
	g.GenerateSimilarityAndMarathonEdges(e.config.Threshold, ct)
	g.GenerateSequelEdges()

	duration := time.Since(start)
	sim, mar, seq := g.EdgeCounts()
	metrics.RecordGraphBuild(ct.String(), duration, g.Len(), sim, mar, seq, skipped)
	e.buildCount.Add(1)

	event := e.logger.Info()
	if skipped > 0 {
		event = e.logger.Warn().Int("skipped", skipped)
	}
	event.Str("content_type", ct.String()).
		Uint64("version", version).
		Int("vertices", g.Len()).
		Int("similarity_edges", sim).
		Int("marathon_edges", mar).
		Int("sequel_edges", seq).
		Dur("duration", duration).
		Msg("content graph built")

	return &builtGraph{graph: g, version: version, builtAt: time.Now(), skipped: skipped}, nil
}

// Autoplay returns the depth-first similarity ranking starting at id.
func (e *Engine) Autoplay(ctx context.Context, ct catalog.ContentType, id string) (*QueryResult, error) {
	return e.query(ctx, QueryAutoplay, ct, id, func(g *ContentGraph) ([]string, error) {
		return g.Autoplay(id), nil
	})
}

// Similar returns the breadth-first marathon ranking starting at id.
func (e *Engine) Similar(ctx context.Context, ct catalog.ContentType, id string) (*QueryResult, error) {
	return e.query(ctx, QuerySimilar, ct, id, func(g *ContentGraph) ([]string, error) {
		return g.Similar(id), nil
	})
}

// SequelOrder returns the viewing order of the sequel graph. With an empty
// start the whole catalog is ordered. When strict is set, or the engine is
// configured with StrictSequels, cycles fail with a *SequelCycleError.
func (e *Engine) SequelOrder(ctx context.Context, ct catalog.ContentType, start string, strict bool) (*QueryResult, error) {
	strict = strict || e.config.StrictSequels
	return e.query(ctx, QuerySequels, ct, start, func(g *ContentGraph) ([]string, error) {
		switch {
		case start == "" && strict:
			return g.TopologicalOrderStrict()
		case start == "":
			return g.TopologicalOrder(), nil
		case strict:
			return g.TopologicalOrderFromStrict(start)
		default:
			return g.TopologicalOrderFrom(start), nil
		}
	})
}

func (e *Engine) query(ctx context.Context, name string, ct catalog.ContentType, start string, run func(*ContentGraph) ([]string, error)) (*QueryResult, error) {
	began := time.Now()
	e.requestCount.Add(1)

	bg, stale, err := e.graph(ctx, ct)
	if err != nil {
		e.errorCount.Add(1)
		metrics.RecordQuery(name, 0, time.Since(began), err)
		return nil, err
	}

	ids, err := run(bg.graph)
	if err != nil {
		e.errorCount.Add(1)
		metrics.RecordQuery(name, 0, time.Since(began), err)
		return nil, err
	}

	result := &QueryResult{
		Query:        name,
		ContentType:  ct,
		StartID:      start,
		Found:        start == "" || bg.graph.HasVertex(start),
		IDs:          ids,
		Items:        make([]Item, 0, len(ids)),
		GraphVersion: bg.version,
		Stale:        stale,
	}
	for _, id := range ids {
		if item, ok := bg.graph.Item(id); ok {
			result.Items = append(result.Items, item)
		}
	}

	metrics.RecordQuery(name, len(ids), time.Since(began), nil)
	e.logger.Debug().
		Str("query", name).
		Str("content_type", ct.String()).
		Str("start", start).
		Int("results", len(ids)).
		Dur("duration", time.Since(began)).
		Msg("graph query")

	return result, nil
}

// Invalidate drops memoized graphs of ct.
func (e *Engine) Invalidate(ct catalog.ContentType) int {
	prefix := ct.String() + ":"
	removed := e.graphs.RemoveFunc(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
	if removed > 0 {
		metrics.RecordCacheInvalidation(ct.String(), removed)
		e.logger.Debug().Str("content_type", ct.String()).Int("removed", removed).Msg("graph cache invalidated")
	}
	return removed
}

// InvalidateAll drops every memoized graph.
func (e *Engine) InvalidateAll() {
	e.graphs.Clear()
}

// CleanupCache removes expired graphs and returns how many were removed.
func (e *Engine) CleanupCache() int {
	return e.graphs.CleanupExpired()
}

// Warm builds the graph of every content type so the first query is fast.
func (e *Engine) Warm(ctx context.Context) error {
	var errs []error
	for _, ct := range catalog.AllContentTypes() {
		if _, _, err := e.graph(ctx, ct); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ct, err))
		}
	}
	return errors.Join(errs...)
}

// Stats returns engine counters.
func (e *Engine) Stats() EngineStats {
	cs := e.graphs.Stats()
	return EngineStats{
		Requests:     e.requestCount.Load(),
		CacheHits:    e.cacheHits.Load(),
		CacheMisses:  e.cacheMisses.Load(),
		Builds:       e.buildCount.Load(),
		Throttled:    e.throttled.Load(),
		Errors:       e.errorCount.Load(),
		CachedGraphs: cs.Size,
		BreakerState: e.breaker.State().String(),
		Cache:        cs,
	}
}

func (e *Engine) latestGraph(ct catalog.ContentType) *builtGraph {
	e.latestMu.RLock()
	defer e.latestMu.RUnlock()
	return e.latest[ct]
}

// execute wraps a catalog call with circuit breaker protection.
func (e *Engine) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := e.breaker.Execute(fn)
	switch {
	case err == nil:
		metrics.RecordCircuitBreakerRequest(breakerName, "success")
	case isBreakerRejection(err):
		metrics.RecordCircuitBreakerRequest(breakerName, "rejected")
	default:
		metrics.RecordCircuitBreakerRequest(breakerName, "failure")
	}
	return result, err
}

func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// castResult type-asserts a breaker result.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func graphKey(ct catalog.ContentType, version uint64, threshold float64) string {
	return fmt.Sprintf("%s:%d:%g", ct, version, threshold)
}
