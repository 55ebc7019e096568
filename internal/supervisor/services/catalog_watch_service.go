// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/events"
)

// ErrSubscriptionClosed is returned when the event stream ends while the
// service is still meant to run. The supervisor restarts the watcher.
var ErrSubscriptionClosed = errors.New("catalog event subscription closed")

// CatalogEvents is the subscribing half of the event bus.
type CatalogEvents interface {
	SubscribeCatalogChanged(ctx context.Context) (<-chan events.CatalogChanged, error)
}

// GraphInvalidator drops memoized graphs of a content type.
type GraphInvalidator interface {
	Invalidate(ct catalog.ContentType) int
}

// CatalogWatchService evicts cached graphs as soon as a catalog write is
// announced, so queries stop serving the previous version.
type CatalogWatchService struct {
	events      CatalogEvents
	invalidator GraphInvalidator
	logger      zerolog.Logger
}

// NewCatalogWatchService creates the watcher.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCatalogWatchService(ev CatalogEvents, inv GraphInvalidator, logger zerolog.Logger) *CatalogWatchService {
	return &CatalogWatchService{
		events:      ev,
		invalidator: inv,
		logger:      logger.With().Str("service", "catalog-watch").Logger(),
	}
}

// Serve implements suture.Service.
func (s *CatalogWatchService) Serve(ctx context.Context) error {
	ch, err := s.events.SubscribeCatalogChanged(ctx)
	if err != nil {
		if errors.Is(err, events.ErrClosed) {
			// Nothing will ever be published again.
			return fmt.Errorf("%w: %w", ErrSubscriptionClosed, err)
		}
		return fmt.Errorf("subscribe to catalog events: %w", err)
	}
	s.logger.Debug().Msg("watching catalog events")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrSubscriptionClosed
			}
			s.handle(ev)
		}
	}
}

func (s *CatalogWatchService) handle(ev events.CatalogChanged) {
	removed := s.invalidator.Invalidate(ev.ContentType)
	s.logger.Debug().
		Str("content_type", ev.ContentType.String()).
		Str("op", string(ev.Op)).
		Str("item_id", ev.ItemID).
		Uint64("version", ev.Version).
		Int("graphs_removed", removed).
		Msg("catalog changed")
}

func (s *CatalogWatchService) String() string {
	return "catalog-watch"
}
