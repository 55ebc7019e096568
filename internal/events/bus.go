// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
)

// TopicCatalogChanged is the topic catalog writes are announced on.
const TopicCatalogChanged = "catalog.changed"

// Metadata keys set on every message.
const (
	MetadataCorrelationID = "correlation_id"
	MetadataContentType   = "content_type"
)

// ErrClosed is returned when publishing or subscribing on a closed bus.
var ErrClosed = errors.New("event bus closed")

// Op names the kind of catalog write.
type Op string

const (
	OpPut    Op = "put"
	OpDelete Op = "delete"
	OpImport Op = "import"
)

// CatalogChanged announces that a content type's catalog changed.
// ItemID is empty for bulk operations.
type CatalogChanged struct {
	ContentType catalog.ContentType `json:"content_type"`
	ItemID      string              `json:"item_id,omitempty"`
	Op          Op                  `json:"op"`
	Version     uint64              `json:"version"`
	At          time.Time           `json:"at"`
}

// Config holds bus settings.
type Config struct {
	// BufferSize is the per-subscriber output channel buffer.
	BufferSize int64
}

// DefaultConfig returns the default bus configuration.
func DefaultConfig() Config {
	return Config{BufferSize: 64}
}

// Bus publishes and delivers catalog events in process.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewBus creates an in-process event bus.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBus(cfg Config, logger zerolog.Logger) *Bus {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}
	logger = logger.With().Str("component", "events").Logger()
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: cfg.BufferSize},
			logging.NewWatermillAdapter(logger),
		),
		logger: logger,
		done:   make(chan struct{}),
	}
}

// PublishCatalogChanged publishes ev on TopicCatalogChanged. A zero At is
// set to the current time. The correlation id of ctx, if any, travels in
// the message metadata.
func (b *Bus) PublishCatalogChanged(ctx context.Context, ev CatalogChanged) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	if !ev.ContentType.Valid() {
		return fmt.Errorf("%w: %d", catalog.ErrUnknownContentType, int(ev.ContentType))
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set(MetadataContentType, ev.ContentType.String())
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}

	if err := b.pubsub.Publish(TopicCatalogChanged, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", TopicCatalogChanged, err)
	}
	metrics.RecordEventPublished(TopicCatalogChanged)

	b.logger.Debug().
		Str("message_id", msg.UUID).
		Str("content_type", ev.ContentType.String()).
		Str("op", string(ev.Op)).
		Uint64("version", ev.Version).
		Msg("catalog change published")
	return nil
}

// SubscribeCatalogChanged returns a channel of decoded catalog events. The
// channel is closed when ctx is cancelled or the bus is closed. Each
// message is acknowledged once its event has been handed to the channel.
func (b *Bus) SubscribeCatalogChanged(ctx context.Context) (<-chan CatalogChanged, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrClosed
	}

	messages, err := b.pubsub.Subscribe(ctx, TopicCatalogChanged)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", TopicCatalogChanged, err)
	}

	out := make(chan CatalogChanged)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(out)
		for msg := range messages {
			b.deliver(ctx, msg, out)
		}
	}()
	return out, nil
}

func (b *Bus) deliver(ctx context.Context, msg *message.Message, out chan<- CatalogChanged) {
	var ev CatalogChanged
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		// Redelivery would fail the same way.
		b.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("dropping malformed catalog event")
		msg.Ack()
		metrics.RecordEventConsumed(TopicCatalogChanged, metrics.OutcomeDropped)
		return
	}

	select {
	case out <- ev:
		msg.Ack()
		metrics.RecordEventConsumed(TopicCatalogChanged, metrics.OutcomeAck)
	case <-ctx.Done():
		msg.Nack()
		metrics.RecordEventConsumed(TopicCatalogChanged, metrics.OutcomeNack)
	case <-b.done:
		msg.Nack()
		metrics.RecordEventConsumed(TopicCatalogChanged, metrics.OutcomeNack)
	}
}

// Close shuts the bus down and waits for subscriber goroutines to exit.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)
	b.mu.Unlock()

	err := b.pubsub.Close()
	b.wg.Wait()
	return err
}
