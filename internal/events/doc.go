// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package events carries catalog change notifications between the store and
the components that cache derived data.

The bus is an in-process Watermill GoChannel. Every successful write to the
catalog store publishes a CatalogChanged event on TopicCatalogChanged; the
supervisor's catalog watcher subscribes and invalidates memoized content
graphs of the affected content type.

Delivery is at-most-once per subscriber: events published while nobody is
subscribed are discarded, and malformed payloads are acknowledged and
dropped rather than redelivered. Events are not ordered relative to each
other. Consumers must therefore treat the
catalog version counter, not the event stream, as the source of truth.

Usage:

	bus := events.NewBus(events.DefaultConfig(), logger)
	defer bus.Close()

	ch, err := bus.SubscribeCatalogChanged(ctx)
	...
	err = bus.PublishCatalogChanged(ctx, events.CatalogChanged{
		ContentType: catalog.Movies,
		ItemID:      "jp1",
		Op:          events.OpPut,
		Version:     7,
	})
*/
package events
