// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/cinegraph/internal/logging"
)

// RequestSample is one observed request.
type RequestSample struct {
	Route      string        `json:"route"`
	Method     string        `json:"method"`
	Duration   time.Duration `json:"duration"`
	StatusCode int           `json:"status_code"`
	At         time.Time     `json:"at"`
}

// RouteStats aggregates the samples of one method and route.
type RouteStats struct {
	Route    string  `json:"route"`
	Requests int     `json:"requests"`
	Errors   int     `json:"errors"`
	AvgMS    float64 `json:"avg_ms"`
	P50MS    float64 `json:"p50_ms"`
	P95MS    float64 `json:"p95_ms"`
	P99MS    float64 `json:"p99_ms"`
	MaxMS    float64 `json:"max_ms"`
}

// PerformanceMonitor keeps a sliding window of recent request latencies
// for the engine stats endpoint. Prometheus holds the long-term series.
type PerformanceMonitor struct {
	mu      sync.RWMutex
	samples []RequestSample
	next    int
	full    bool
	slow    time.Duration
}

// NewPerformanceMonitor creates a monitor keeping the last window samples.
// Requests slower than slow are logged; zero disables slow logging.
func NewPerformanceMonitor(window int, slow time.Duration) *PerformanceMonitor {
	if window <= 0 {
		window = 1000
	}
	return &PerformanceMonitor{samples: make([]RequestSample, window), slow: slow}
}

// Record adds a sample, overwriting the oldest once the window is full.
func (pm *PerformanceMonitor) Record(s RequestSample) {
	pm.mu.Lock()
	pm.samples[pm.next] = s
	pm.next = (pm.next + 1) % len(pm.samples)
	if pm.next == 0 {
		pm.full = true
	}
	pm.mu.Unlock()
}

// Stats aggregates the window per method and route, busiest first.
func (pm *PerformanceMonitor) Stats() []RouteStats {
	pm.mu.RLock()
	window := pm.window()
	pm.mu.RUnlock()

	type bucket struct {
		durations []time.Duration
		errors    int
	}
	buckets := make(map[string]*bucket)
	for _, s := range window {
		key := s.Method + " " + s.Route
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.durations = append(b.durations, s.Duration)
		if s.StatusCode >= 500 {
			b.errors++
		}
	}

	stats := make([]RouteStats, 0, len(buckets))
	for key, b := range buckets {
		sort.Slice(b.durations, func(i, j int) bool { return b.durations[i] < b.durations[j] })
		var sum time.Duration
		for _, d := range b.durations {
			sum += d
		}
		stats = append(stats, RouteStats{
			Route:    key,
			Requests: len(b.durations),
			Errors:   b.errors,
			AvgMS:    ms(sum / time.Duration(len(b.durations))),
			P50MS:    ms(percentile(b.durations, 0.50)),
			P95MS:    ms(percentile(b.durations, 0.95)),
			P99MS:    ms(percentile(b.durations, 0.99)),
			MaxMS:    ms(b.durations[len(b.durations)-1]),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Requests != stats[j].Requests {
			return stats[i].Requests > stats[j].Requests
		}
		return stats[i].Route < stats[j].Route
	})
	return stats
}

// Recent returns up to n of the newest samples, oldest first.
func (pm *PerformanceMonitor) Recent(n int) []RequestSample {
	pm.mu.RLock()
	window := pm.window()
	pm.mu.RUnlock()

	if n > len(window) {
		n = len(window)
	}
	return window[len(window)-n:]
}

// window returns a copy of the samples in insertion order. Callers hold mu.
func (pm *PerformanceMonitor) window() []RequestSample {
	if !pm.full {
		return append([]RequestSample(nil), pm.samples[:pm.next]...)
	}
	out := make([]RequestSample, 0, len(pm.samples))
	out = append(out, pm.samples[pm.next:]...)
	return append(out, pm.samples[:pm.next]...)
}

// Middleware records a sample for every request.
func (pm *PerformanceMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		route := RoutePattern(r)
		pm.Record(RequestSample{
			Route:      route,
			Method:     r.Method,
			Duration:   duration,
			StatusCode: sw.statusCode,
			At:         start,
		})

		if pm.slow > 0 && duration > pm.slow {
			logging.Ctx(r.Context()).Warn().
				Str("method", r.Method).
				Str("route", route).
				Dur("duration", duration).
				Dur("threshold", pm.slow).
				Msg("slow request")
		}
	})
}

// percentile returns the nearest-rank percentile of sorted values.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
