// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/events"
)

type fakeEvents struct {
	ch  chan events.CatalogChanged
	err error
}

func (f *fakeEvents) SubscribeCatalogChanged(context.Context) (<-chan events.CatalogChanged, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ch, nil
}

type recordingInvalidator struct {
	mu   sync.Mutex
	seen []catalog.ContentType
}

func (r *recordingInvalidator) Invalidate(ct catalog.ContentType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, ct)
	return 1
}

func (r *recordingInvalidator) calls() []catalog.ContentType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]catalog.ContentType(nil), r.seen...)
}

func TestCatalogWatchService_InvalidatesOnEvent(t *testing.T) {
	ev := &fakeEvents{ch: make(chan events.CatalogChanged, 4)}
	inv := &recordingInvalidator{}
	svc := NewCatalogWatchService(ev, inv, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	ev.ch <- events.CatalogChanged{ContentType: catalog.Movies, ItemID: "jp1", Op: events.OpPut, Version: 2}
	ev.ch <- events.CatalogChanged{ContentType: catalog.Documentaries, Op: events.OpImport, Version: 7}

	deadline := time.Now().Add(2 * time.Second)
	for len(inv.calls()) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("invalidations = %v", inv.calls())
		}
		time.Sleep(5 * time.Millisecond)
	}
	got := inv.calls()
	if got[0] != catalog.Movies || got[1] != catalog.Documentaries {
		t.Errorf("invalidated %v, want [movies documentaries]", got)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v", err)
	}
}

func TestCatalogWatchService_StreamClosed(t *testing.T) {
	ev := &fakeEvents{ch: make(chan events.CatalogChanged)}
	close(ev.ch)
	svc := NewCatalogWatchService(ev, &recordingInvalidator{}, zerolog.Nop())

	if err := svc.Serve(context.Background()); !errors.Is(err, ErrSubscriptionClosed) {
		t.Errorf("Serve() = %v, want ErrSubscriptionClosed", err)
	}
}

func TestCatalogWatchService_SubscribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"bus closed", events.ErrClosed, ErrSubscriptionClosed},
		{"other", errors.New("boom"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCatalogWatchService(&fakeEvents{err: tt.err}, &recordingInvalidator{}, zerolog.Nop())
			err := svc.Serve(context.Background())
			if err == nil || !errors.Is(err, tt.err) {
				t.Fatalf("Serve() = %v, want wrapped %v", err, tt.err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Serve() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCatalogWatchService_RealBus(t *testing.T) {
	bus := events.NewBus(events.DefaultConfig(), zerolog.Nop())
	defer bus.Close()
	inv := &recordingInvalidator{}
	svc := NewCatalogWatchService(bus, inv, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for len(inv.calls()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no invalidation after publish")
		}
		// The subscription may not be registered yet; publish until seen.
		if err := bus.PublishCatalogChanged(ctx, events.CatalogChanged{ContentType: catalog.Series, Op: events.OpDelete, ItemID: "x"}); err != nil {
			t.Fatalf("publish: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	if inv.calls()[0] != catalog.Series {
		t.Errorf("invalidated %v", inv.calls())
	}
}
