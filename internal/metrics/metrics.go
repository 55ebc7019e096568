// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Graph Build Metrics
	GraphBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinegraph_graph_build_duration_seconds",
			Help:    "Duration of content graph builds in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"content_type"},
	)

	GraphEdges = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinegraph_graph_edges",
			Help: "Number of edges in the most recently built graph",
		},
		[]string{"graph", "content_type"}, // graph: similarity, marathon, sequel
	)

	GraphVertices = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinegraph_graph_vertices",
			Help: "Number of vertices in the most recently built graph",
		},
		[]string{"content_type"},
	)

	RecordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinegraph_records_skipped_total",
			Help: "Catalog records skipped during graph builds because they failed to decode",
		},
		[]string{"content_type"},
	)

	RebuildThrottled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinegraph_rebuild_throttled_total",
			Help: "Graph rebuilds deferred by the rebuild rate limiter",
		},
	)

	// Query Metrics
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinegraph_queries_total",
			Help: "Total graph queries by query type and result",
		},
		[]string{"query", "result"}, // query: autoplay, similar, sequels; result: ok, empty, error
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinegraph_query_duration_seconds",
			Help:    "Duration of graph queries including any graph build",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	// Graph Cache Metrics
	GraphCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinegraph_graph_cache_hits_total",
			Help: "Total number of graph cache hits",
		},
	)

	GraphCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinegraph_graph_cache_misses_total",
			Help: "Total number of graph cache misses",
		},
	)

	GraphCacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinegraph_graph_cache_invalidations_total",
			Help: "Graph cache entries dropped after catalog changes",
		},
		[]string{"content_type"},
	)

	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinegraph_store_operation_duration_seconds",
			Help:    "Duration of catalog store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinegraph_store_errors_total",
			Help: "Total number of catalog store errors",
		},
		[]string{"operation"},
	)

	StoreItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinegraph_store_items",
			Help: "Number of catalog items per content type",
		},
		[]string{"content_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinegraph_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinegraph_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinegraph_circuit_breaker_requests_total",
			Help: "Requests through a circuit breaker by result",
		},
		[]string{"name", "result"}, // result: success, failure, rejected
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinegraph_events_published_total",
			Help: "Catalog change events published",
		},
		[]string{"topic"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinegraph_events_consumed_total",
			Help: "Catalog change events consumed by outcome",
		},
		[]string{"topic", "outcome"}, // outcome: ack, nack, dropped
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinegraph_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinegraph_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinegraph_api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinegraph_app_info",
			Help: "Application build information",
		},
		[]string{"version", "go_version"},
	)
)

// Query result labels.
const (
	ResultOK    = "ok"
	ResultEmpty = "empty"
	ResultError = "error"
)

// RecordGraphBuild records a completed graph build.
func RecordGraphBuild(contentType string, duration time.Duration, vertices, similarity, marathon, sequel, skipped int) {
	GraphBuildDuration.WithLabelValues(contentType).Observe(duration.Seconds())
	GraphVertices.WithLabelValues(contentType).Set(float64(vertices))
	GraphEdges.WithLabelValues("similarity", contentType).Set(float64(similarity))
	GraphEdges.WithLabelValues("marathon", contentType).Set(float64(marathon))
	GraphEdges.WithLabelValues("sequel", contentType).Set(float64(sequel))
	if skipped > 0 {
		RecordsSkipped.WithLabelValues(contentType).Add(float64(skipped))
	}
}

// RecordQuery records a graph query outcome.
func RecordQuery(query string, resultCount int, duration time.Duration, err error) {
	result := ResultOK
	switch {
	case err != nil:
		result = ResultError
	case resultCount == 0:
		result = ResultEmpty
	}
	QueriesTotal.WithLabelValues(query, result).Inc()
	QueryDuration.WithLabelValues(query).Observe(duration.Seconds())
}

// RecordGraphCache records a graph cache lookup.
func RecordGraphCache(hit bool) {
	if hit {
		GraphCacheHits.Inc()
	} else {
		GraphCacheMisses.Inc()
	}
}

// RecordCacheInvalidation records dropped graph cache entries.
func RecordCacheInvalidation(contentType string, removed int) {
	GraphCacheInvalidations.WithLabelValues(contentType).Add(float64(removed))
}

// RecordStoreOperation records a catalog store operation.
// Not-found lookups are expected and are not counted as errors.
func RecordStoreOperation(operation string, duration time.Duration, err error, notFound error) {
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil && (notFound == nil || !errors.Is(err, notFound)) {
		StoreErrors.WithLabelValues(operation).Inc()
	}
}

// RecordCircuitBreakerTransition records a breaker state change. States use
// the gobreaker string form: closed, half-open, open.
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
}

// RecordCircuitBreakerRequest records the outcome of a call through a breaker.
func RecordCircuitBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// RecordEventPublished records a published event.
func RecordEventPublished(topic string) {
	EventsPublished.WithLabelValues(topic).Inc()
}

// Event consumption outcomes.
const (
	OutcomeAck     = "ack"
	OutcomeNack    = "nack"
	OutcomeDropped = "dropped"
)

// RecordEventConsumed records how a consumed event was settled.
func RecordEventConsumed(topic, outcome string) {
	EventsConsumed.WithLabelValues(topic, outcome).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetStoreItems sets the item gauge for a content type.
func SetStoreItems(contentType string, count int) {
	StoreItems.WithLabelValues(contentType).Set(float64(count))
}
