// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/catalog"
)

// fakeSource implements CatalogSource for testing.
type fakeSource struct {
	mu         sync.Mutex
	records    map[catalog.ContentType][][]byte
	versions   map[catalog.ContentType]uint64
	versionErr error
	listErr    error

	listCalls atomic.Int32
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		records:  make(map[catalog.ContentType][][]byte),
		versions: make(map[catalog.ContentType]uint64),
	}
}

func (f *fakeSource) ListRaw(_ context.Context, ct catalog.ContentType) ([][]byte, error) {
	f.listCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records[ct], nil
}

func (f *fakeSource) Version(_ context.Context, ct catalog.ContentType) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.versionErr != nil {
		return 0, f.versionErr
	}
	return f.versions[ct], nil
}

func (f *fakeSource) put(t *testing.T, ct catalog.ContentType, recs ...catalog.Record) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range recs {
		raw, err := json.Marshal(&recs[i])
		if err != nil {
			t.Fatalf("marshal record: %v", err)
		}
		f.records[ct] = append(f.records[ct], raw)
	}
	f.versions[ct]++
}

func (f *fakeSource) setVersionErr(err error) {
	f.mu.Lock()
	f.versionErr = err
	f.mu.Unlock()
}

func (f *fakeSource) bump(ct catalog.ContentType) {
	f.mu.Lock()
	f.versions[ct]++
	f.mu.Unlock()
}

// movieCatalog is a small movie catalog with a sequel chain and a cycle-free
// keyword cluster.
func movieCatalog() []catalog.Record {
	return []catalog.Record{
		{ID: "jp1", Title: "Jurassic Park", Tags: map[string]float64{"Dinosaurios": 1, "Aventura": 0.8}, Keywords: []string{"isla", "parque"}, SequelIDs: []string{"jp2"}, Director: "Spielberg"},
		{ID: "jp2", Title: "The Lost World", Tags: map[string]float64{"Dinosaurios": 1}, Keywords: []string{"isla"}, SequelIDs: []string{"jp3"}, Director: "Spielberg"},
		{ID: "jp3", Title: "Jurassic Park III", Tags: map[string]float64{"Dinosaurios": 0.9}, Keywords: []string{"isla"}},
		{ID: "matrix", Title: "The Matrix", Tags: map[string]float64{"Cyberpunk": 1, "Acción": 1}, Keywords: []string{"simulación"}},
		{ID: "alone", Title: "Unrelated", Tags: map[string]float64{"Familia": 0.2}},
	}
}

func newTestEngine(t *testing.T, cfg *Config, src CatalogSource) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, src, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	return e
}

func TestNewEngine(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		e := newTestEngine(t, nil, newFakeSource())
		if e.Config().Threshold != DefaultThreshold {
			t.Errorf("Threshold = %v, want %v", e.Config().Threshold, DefaultThreshold)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Cache.Size = 0
		if _, err := NewEngine(cfg, newFakeSource(), zerolog.Nop()); err == nil {
			t.Error("NewEngine() expected error for invalid config")
		}
	})

	t.Run("nil source", func(t *testing.T) {
		if _, err := NewEngine(nil, nil, zerolog.Nop()); err == nil {
			t.Error("NewEngine() expected error for nil source")
		}
	})

	t.Run("config is copied", func(t *testing.T) {
		cfg := DefaultConfig()
		e := newTestEngine(t, cfg, newFakeSource())
		cfg.Threshold = 50
		if e.Config().Threshold != DefaultThreshold {
			t.Error("engine config changed after caller mutated its copy")
		}
	})
}

func TestEngine_Queries(t *testing.T) {
	src := newFakeSource()
	src.put(t, catalog.Movies, movieCatalog()...)
	e := newTestEngine(t, nil, src)
	ctx := context.Background()

	t.Run("autoplay", func(t *testing.T) {
		res, err := e.Autoplay(ctx, catalog.Movies, "jp1")
		if err != nil {
			t.Fatalf("Autoplay() error: %v", err)
		}
		if !res.Found || res.Query != QueryAutoplay || res.StartID != "jp1" {
			t.Errorf("Autoplay() result header = %+v", res)
		}
		if len(res.IDs) == 0 || res.IDs[0] != "jp1" {
			t.Fatalf("Autoplay() ids = %v, want jp1 first", res.IDs)
		}
		if len(res.Items) != len(res.IDs) {
			t.Errorf("len(Items) = %d, want %d", len(res.Items), len(res.IDs))
		}
		for _, id := range res.IDs {
			if id == "alone" {
				t.Error("Autoplay() should not reach an unrelated item")
			}
		}
	})

	t.Run("similar", func(t *testing.T) {
		res, err := e.Similar(ctx, catalog.Movies, "jp2")
		if err != nil {
			t.Fatalf("Similar() error: %v", err)
		}
		if len(res.IDs) == 0 || res.IDs[0] != "jp2" {
			t.Errorf("Similar() ids = %v, want jp2 first", res.IDs)
		}
	})

	t.Run("unknown start", func(t *testing.T) {
		res, err := e.Autoplay(ctx, catalog.Movies, "nope")
		if err != nil {
			t.Fatalf("Autoplay() error: %v", err)
		}
		if res.Found || len(res.IDs) != 0 {
			t.Errorf("Autoplay(nope) = found %v ids %v, want not found and empty", res.Found, res.IDs)
		}
	})

	t.Run("sequel order from start", func(t *testing.T) {
		res, err := e.SequelOrder(ctx, catalog.Movies, "jp1", false)
		if err != nil {
			t.Fatalf("SequelOrder() error: %v", err)
		}
		if want := []string{"jp1", "jp2", "jp3"}; !reflect.DeepEqual(res.IDs, want) {
			t.Errorf("SequelOrder(jp1) = %v, want %v", res.IDs, want)
		}
	})

	t.Run("global sequel order", func(t *testing.T) {
		res, err := e.SequelOrder(ctx, catalog.Movies, "", true)
		if err != nil {
			t.Fatalf("SequelOrder() error: %v", err)
		}
		if !res.Found || len(res.IDs) != len(movieCatalog()) {
			t.Errorf("SequelOrder(all) = %v", res.IDs)
		}
	})

	t.Run("empty content type", func(t *testing.T) {
		res, err := e.Autoplay(ctx, catalog.Series, "x")
		if err != nil {
			t.Fatalf("Autoplay() error: %v", err)
		}
		if res.Found || len(res.IDs) != 0 {
			t.Errorf("Autoplay() on empty catalog = %+v", res)
		}
	})

	t.Run("unknown content type", func(t *testing.T) {
		if _, err := e.Autoplay(ctx, catalog.ContentType(42), "jp1"); !errors.Is(err, ErrUnknownContentType) {
			t.Errorf("Autoplay() error = %v, want ErrUnknownContentType", err)
		}
	})
}

func TestEngine_SequelOrder_Cycle(t *testing.T) {
	src := newFakeSource()
	src.put(t, catalog.Series,
		catalog.Record{ID: "a", Title: "A", SequelIDs: []string{"b"}},
		catalog.Record{ID: "b", Title: "B", SequelIDs: []string{"a"}},
	)
	ctx := context.Background()

	lenient := newTestEngine(t, nil, src)
	res, err := lenient.SequelOrder(ctx, catalog.Series, "a", false)
	if err != nil {
		t.Fatalf("SequelOrder(lenient) error: %v", err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(res.IDs, want) {
		t.Errorf("SequelOrder(lenient) = %v, want %v", res.IDs, want)
	}

	if _, err := lenient.SequelOrder(ctx, catalog.Series, "a", true); !errors.Is(err, ErrSequelCycle) {
		t.Errorf("SequelOrder(strict) error = %v, want ErrSequelCycle", err)
	}

	cfg := DefaultConfig()
	cfg.StrictSequels = true
	strict := newTestEngine(t, cfg, src)
	if _, err := strict.SequelOrder(ctx, catalog.Series, "", false); !errors.Is(err, ErrSequelCycle) {
		t.Errorf("SequelOrder() with StrictSequels error = %v, want ErrSequelCycle", err)
	}
	if strict.Stats().Errors != 1 {
		t.Errorf("Stats().Errors = %d, want 1", strict.Stats().Errors)
	}
}

func TestEngine_GraphCachedByVersion(t *testing.T) {
	src := newFakeSource()
	src.put(t, catalog.Movies, movieCatalog()...)
	e := newTestEngine(t, nil, src)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := e.Autoplay(ctx, catalog.Movies, "jp1"); err != nil {
			t.Fatalf("Autoplay() error: %v", err)
		}
	}
	if got := src.listCalls.Load(); got != 1 {
		t.Errorf("ListRaw calls = %d, want 1", got)
	}

	src.put(t, catalog.Movies, catalog.Record{ID: "jp4", Title: "Jurassic World", Tags: map[string]float64{"Dinosaurios": 1}})
	res, err := e.Autoplay(ctx, catalog.Movies, "jp4")
	if err != nil {
		t.Fatalf("Autoplay() error: %v", err)
	}
	if !res.Found {
		t.Error("new item should be visible after the catalog version changed")
	}
	if got := src.listCalls.Load(); got != 2 {
		t.Errorf("ListRaw calls = %d, want 2", got)
	}

	stats := e.Stats()
	if stats.Builds != 2 || stats.CacheHits != 2 || stats.CacheMisses != 2 {
		t.Errorf("Stats() = %+v, want 2 builds, 2 hits, 2 misses", stats)
	}
	if stats.Requests != 4 {
		t.Errorf("Stats().Requests = %d, want 4", stats.Requests)
	}
}

func TestEngine_Invalidate(t *testing.T) {
	src := newFakeSource()
	src.put(t, catalog.Movies, movieCatalog()...)
	src.put(t, catalog.Series, catalog.Record{ID: "s1", Title: "Dark"})
	e := newTestEngine(t, nil, src)
	ctx := context.Background()

	if err := e.Warm(ctx); err != nil {
		t.Fatalf("Warm() error: %v", err)
	}
	if got := e.Stats().CachedGraphs; got != 3 {
		t.Fatalf("CachedGraphs = %d, want 3", got)
	}

	if removed := e.Invalidate(catalog.Movies); removed != 1 {
		t.Errorf("Invalidate(movies) = %d, want 1", removed)
	}
	if removed := e.Invalidate(catalog.Movies); removed != 0 {
		t.Errorf("second Invalidate(movies) = %d, want 0", removed)
	}
	if got := e.Stats().CachedGraphs; got != 2 {
		t.Errorf("CachedGraphs = %d, want 2", got)
	}

	calls := src.listCalls.Load()
	if _, err := e.Autoplay(ctx, catalog.Movies, "jp1"); err != nil {
		t.Fatalf("Autoplay() error: %v", err)
	}
	if src.listCalls.Load() != calls+1 {
		t.Error("query after Invalidate should rebuild the graph")
	}

	e.InvalidateAll()
	if got := e.Stats().CachedGraphs; got != 0 {
		t.Errorf("CachedGraphs after InvalidateAll = %d, want 0", got)
	}
}

func TestEngine_Warm_Error(t *testing.T) {
	src := newFakeSource()
	src.listErr = errors.New("disk on fire")
	cfg := DefaultConfig()
	cfg.Breaker.FailureThreshold = 10
	e := newTestEngine(t, cfg, src)

	err := e.Warm(context.Background())
	if err == nil {
		t.Fatal("Warm() expected error")
	}
	if !errors.Is(err, src.listErr) {
		t.Errorf("Warm() error = %v, want wrapped source error", err)
	}
}

func TestEngine_ServesStaleWhenBreakerOpen(t *testing.T) {
	src := newFakeSource()
	src.put(t, catalog.Movies, movieCatalog()...)

	cfg := DefaultConfig()
	cfg.Breaker.FailureThreshold = 1
	cfg.Breaker.Timeout = time.Hour
	e := newTestEngine(t, cfg, src)
	ctx := context.Background()

	if _, err := e.Autoplay(ctx, catalog.Movies, "jp1"); err != nil {
		t.Fatalf("Autoplay() error: %v", err)
	}

	src.setVersionErr(errors.New("catalog offline"))

	// The first failure is reported and trips the breaker.
	if _, err := e.Autoplay(ctx, catalog.Movies, "jp1"); err == nil {
		t.Fatal("Autoplay() expected error while source fails")
	}
	if got := e.Stats().BreakerState; got != "open" {
		t.Fatalf("BreakerState = %q, want open", got)
	}

	res, err := e.Autoplay(ctx, catalog.Movies, "jp1")
	if err != nil {
		t.Fatalf("Autoplay() with open breaker error: %v", err)
	}
	if !res.Stale || !res.Found {
		t.Errorf("Autoplay() = stale %v found %v, want stale graph", res.Stale, res.Found)
	}

	// Without a previous graph there is nothing to fall back to.
	if _, err := e.Autoplay(ctx, catalog.Series, "x"); err == nil {
		t.Error("Autoplay(series) expected error with open breaker and no graph")
	}
}

func TestEngine_ThrottledRebuildServesPrevious(t *testing.T) {
	src := newFakeSource()
	src.put(t, catalog.Movies, movieCatalog()...)

	cfg := DefaultConfig()
	cfg.Rebuild.Rate = 0.0001
	cfg.Rebuild.Burst = 1
	e := newTestEngine(t, cfg, src)
	ctx := context.Background()

	first, err := e.Autoplay(ctx, catalog.Movies, "jp1")
	if err != nil {
		t.Fatalf("Autoplay() error: %v", err)
	}

	src.bump(catalog.Movies)
	res, err := e.Autoplay(ctx, catalog.Movies, "jp1")
	if err != nil {
		t.Fatalf("Autoplay() error: %v", err)
	}
	if !res.Stale {
		t.Error("throttled rebuild should serve the previous graph as stale")
	}
	if res.GraphVersion != first.GraphVersion {
		t.Errorf("GraphVersion = %d, want %d", res.GraphVersion, first.GraphVersion)
	}
	if got := e.Stats().Throttled; got != 1 {
		t.Errorf("Stats().Throttled = %d, want 1", got)
	}
}

func TestEngine_CleanupCache(t *testing.T) {
	src := newFakeSource()
	src.put(t, catalog.Movies, movieCatalog()...)

	cfg := DefaultConfig()
	cfg.Cache.TTL = time.Millisecond
	e := newTestEngine(t, cfg, src)

	if _, err := e.Graph(context.Background(), catalog.Movies); err != nil {
		t.Fatalf("Graph() error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if removed := e.CleanupCache(); removed != 1 {
		t.Errorf("CleanupCache() = %d, want 1", removed)
	}
}

func TestEngine_ConcurrentAccess(t *testing.T) {
	src := newFakeSource()
	src.put(t, catalog.Movies, movieCatalog()...)
	e := newTestEngine(t, nil, src)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := e.Autoplay(ctx, catalog.Movies, "jp1"); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := e.Similar(ctx, catalog.Movies, "matrix"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent query error: %v", err)
	}
	if got := src.listCalls.Load(); got != 1 {
		t.Errorf("ListRaw calls = %d, want a single build", got)
	}
}

func TestGraphKey(t *testing.T) {
	tests := []struct {
		ct        catalog.ContentType
		version   uint64
		threshold float64
		expected  string
	}{
		{catalog.Movies, 3, 4, "movies:3:4"},
		{catalog.Series, 0, 2.5, "series:0:2.5"},
	}

	for _, tt := range tests {
		if got := graphKey(tt.ct, tt.version, tt.threshold); got != tt.expected {
			t.Errorf("graphKey() = %q, want %q", got, tt.expected)
		}
	}
}
