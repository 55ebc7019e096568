// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Command server runs the Cinegraph HTTP API.

Startup order:

 1. Configuration: koanf v2 (defaults, optional YAML, environment; .env first)
 2. Logging: zerolog, JSON or console
 3. Store: BadgerDB catalog, optionally seeded from STORE_SEED_FILE
 4. Events: watermill in-process bus announcing catalog writes
 5. Engine: graph construction, caching and traversal queries
 6. HTTP: chi router with rate limiting, CORS and optional bearer auth
 7. Supervision: suture v4 tree

	cinegraph
	├── data-layer       cache maintenance
	├── messaging-layer  event bus, catalog watcher
	└── api-layer        HTTP server

Common environment variables:

	HTTP_HOST=0.0.0.0
	HTTP_PORT=8470
	STORE_PATH=/data/cinegraph
	STORE_IN_MEMORY=false
	STORE_SEED_FILE=/etc/cinegraph/catalog.yaml
	RECOMMEND_THRESHOLD=4
	RECOMMEND_STRICT_SEQUELS=false
	JWT_SECRET=<32+ chars>       # protects PUT, DELETE and import
	LOG_LEVEL=info
	LOG_FORMAT=json

A config file can be named with CONFIG_PATH. SIGINT or SIGTERM stops the
tree; the HTTP server drains for HTTP_SHUTDOWN_TIMEOUT and the store is
closed once every service has returned.
*/
package main
