// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package config loads and validates Cinegraph configuration.

# Sources

Configuration is layered with koanf, lowest priority first:

 1. Built-in defaults
 2. An optional YAML file: $CONFIG_PATH, or the first of DefaultConfigPaths that exists
 3. Environment variables listed in the mapping table

A .env file ($DOTENV_PATH, default ".env") is merged into the process
environment before the env layer is read. Variables already set win.

# Environment Variables

Recommendation engine:
  - RECOMMEND_THRESHOLD: minimum edge score (default: 4)
  - RECOMMEND_MAX_RESULTS: must be 7 when set
  - RECOMMEND_GRAPH_CACHE_SIZE, RECOMMEND_GRAPH_CACHE_TTL: graph memoization
  - RECOMMEND_REBUILD_RATE, RECOMMEND_REBUILD_BURST: rebuild throttling
  - RECOMMEND_STRICT_SEQUELS: fail sequel ordering on cycles
  - RECOMMEND_WARM_ON_STARTUP, RECOMMEND_MAINTENANCE_INTERVAL

Store:
  - STORE_PATH (default: /data/cinegraph), STORE_IN_MEMORY, STORE_SEED_FILE, STORE_SYNC_WRITES

Server and security:
  - HTTP_HOST, HTTP_PORT (default: 8470), HTTP_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - CORS_ORIGINS (comma-separated), RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - JWT_SECRET (enables write authentication, min 32 chars), JWT_ISSUER

Events, logging and breaker:
  - EVENTS_ENABLED, EVENTS_BUFFER_SIZE
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - BREAKER_MAX_REQUESTS, BREAKER_INTERVAL, BREAKER_TIMEOUT, BREAKER_FAILURE_THRESHOLD

# Example

	cfg, err := config.Load()
	if err != nil {
	    return err
	}
	logging.Init(cfg.LoggerConfig())
	engine, err := recommend.NewEngine(cfg.EngineConfig(), store, logger)
*/
package config
