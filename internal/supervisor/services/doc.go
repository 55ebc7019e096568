// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package services adapts Cinegraph's long-running components to suture's
Serve(ctx) error contract.

	HTTPServerService        api layer: ListenAndServe with graceful drain
	CatalogWatchService      messaging layer: catalog events -> graph invalidation
	ClosingService           messaging layer: closes the event bus on shutdown
	CacheMaintenanceService  data layer: warm-up and expired-graph sweeps

Every service returns ctx.Err() on a requested stop and a wrapped error on
failure, which tells the supervisor to restart it. Each one depends on a
small interface rather than the concrete engine or bus, so tests drive them
with fakes.
*/
package services
