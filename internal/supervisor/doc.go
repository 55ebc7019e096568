// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package supervisor runs Cinegraph's services under a suture v4 tree.

	cinegraph
	├── data-layer
	│   └── CacheMaintenanceService
	├── messaging-layer
	│   ├── ClosingService (event bus)
	│   └── CatalogWatchService
	└── api-layer
	    └── HTTPServerService

Each layer is its own supervisor with independent failure counting, so a
watcher that keeps crashing backs off without restarting the HTTP server.
Supervisor events go to an slog.Logger through sutureslog; pass
logging.NewSlogLogger to route them into zerolog.

	tree := supervisor.NewTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(services.NewHTTPServerService(srv, addr, timeout, logger))
	err := tree.Serve(ctx)

Tokens returned by the Add methods remember their layer, so Remove and
RemoveAndWait work for services in any layer.
*/
package supervisor
