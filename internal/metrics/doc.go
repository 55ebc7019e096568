// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
are updated through the Record* helpers so callers never touch label order.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Graph Metrics:
  - cinegraph_graph_build_duration_seconds (histogram, content_type)
  - cinegraph_graph_vertices (gauge, content_type)
  - cinegraph_graph_edges (gauge, graph, content_type)
  - cinegraph_records_skipped_total (counter, content_type)
  - cinegraph_rebuild_throttled_total (counter)

Query Metrics:
  - cinegraph_queries_total (counter, query, result)
  - cinegraph_query_duration_seconds (histogram, query)

Cache Metrics:
  - cinegraph_graph_cache_hits_total, cinegraph_graph_cache_misses_total
  - cinegraph_graph_cache_invalidations_total (counter, content_type)

Store Metrics:
  - cinegraph_store_operation_duration_seconds (histogram, operation)
  - cinegraph_store_errors_total (counter, operation)
  - cinegraph_store_items (gauge, content_type)

Resilience and Events:
  - cinegraph_circuit_breaker_state (gauge, name)
  - cinegraph_circuit_breaker_transitions_total (counter, name, from, to)
  - cinegraph_events_published_total, cinegraph_events_consumed_total

HTTP Metrics:
  - cinegraph_api_requests_total (counter, method, endpoint, status)
  - cinegraph_api_request_duration_seconds (histogram, method, endpoint)
  - cinegraph_api_active_requests (gauge)
*/
package metrics
