// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/metrics"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	bus := NewBus(DefaultConfig(), zerolog.Nop())
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

func receive(t *testing.T, ch <-chan CatalogChanged) CatalogChanged {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("event channel closed unexpectedly")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return CatalogChanged{}
}

func TestBus_PublishSubscribe(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.SubscribeCatalogChanged(ctx)
	if err != nil {
		t.Fatalf("SubscribeCatalogChanged() error: %v", err)
	}

	acked := metrics.EventsConsumed.WithLabelValues(TopicCatalogChanged, metrics.OutcomeAck)
	before := testutil.ToFloat64(acked)

	want := CatalogChanged{ContentType: catalog.Series, ItemID: "dark", Op: OpPut, Version: 3}
	if err := bus.PublishCatalogChanged(ctx, want); err != nil {
		t.Fatalf("PublishCatalogChanged() error: %v", err)
	}

	got := receive(t, ch)
	if got.ContentType != want.ContentType || got.ItemID != want.ItemID || got.Op != want.Op || got.Version != want.Version {
		t.Errorf("received %+v, want %+v", got, want)
	}
	if got.At.IsZero() {
		t.Error("At should be stamped on publish")
	}

	// The ack is recorded right after the hand-off.
	deadline := time.Now().Add(time.Second)
	for testutil.ToFloat64(acked)-before < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := testutil.ToFloat64(acked) - before; got != 1 {
		t.Errorf("ack delta = %v, want 1", got)
	}
}

func TestBus_FanOut(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := bus.SubscribeCatalogChanged(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	second, err := bus.SubscribeCatalogChanged(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := bus.PublishCatalogChanged(ctx, CatalogChanged{ContentType: catalog.Documentaries, Op: OpImport, Version: 9}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	for i, ch := range []<-chan CatalogChanged{first, second} {
		if got := receive(t, ch); got.Op != OpImport {
			t.Errorf("subscriber %d got op %q, want %q", i, got.Op, OpImport)
		}
	}
}

func TestBus_DropsMalformedPayload(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.SubscribeCatalogChanged(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	dropped := metrics.EventsConsumed.WithLabelValues(TopicCatalogChanged, metrics.OutcomeDropped)
	before := testutil.ToFloat64(dropped)

	if err := bus.pubsub.Publish(TopicCatalogChanged, message.NewMessage("bad", []byte("not json"))); err != nil {
		t.Fatalf("raw publish: %v", err)
	}
	if err := bus.PublishCatalogChanged(ctx, CatalogChanged{ContentType: catalog.Movies, Op: OpDelete, Version: 2}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if got := receive(t, ch); got.Op != OpDelete {
		t.Errorf("delivered event op = %q, want %q", got.Op, OpDelete)
	}
	deadline := time.Now().Add(time.Second)
	for testutil.ToFloat64(dropped)-before < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := testutil.ToFloat64(dropped) - before; got != 1 {
		t.Errorf("dropped delta = %v, want 1", got)
	}
}

func TestBus_InvalidContentType(t *testing.T) {
	bus := newTestBus(t)
	err := bus.PublishCatalogChanged(context.Background(), CatalogChanged{ContentType: catalog.ContentType(42)})
	if !errors.Is(err, catalog.ErrUnknownContentType) {
		t.Errorf("error = %v, want ErrUnknownContentType", err)
	}
}

func TestBus_SubscriptionEndsWithContext(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := bus.SubscribeCatalogChanged(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after context cancel")
	}
}

func TestBus_Closed(t *testing.T) {
	bus := NewBus(Config{}, zerolog.Nop())

	ch, err := bus.SubscribeCatalogChanged(context.Background())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}

	if _, ok := <-ch; ok {
		t.Error("subscription channel should be closed")
	}
	if err := bus.PublishCatalogChanged(context.Background(), CatalogChanged{ContentType: catalog.Movies}); !errors.Is(err, ErrClosed) {
		t.Errorf("publish after close error = %v, want ErrClosed", err)
	}
	if _, err := bus.SubscribeCatalogChanged(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("subscribe after close error = %v, want ErrClosed", err)
	}
}
