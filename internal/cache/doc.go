// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package cache provides the bounded, generic LRU cache used for memoized
content graphs and search responses.

LRUCache combines a capacity bound with an optional TTL. Get treats expired
entries as misses; GetStale still returns them, which lets the engine serve
the last good graph while the circuit breaker is open or a rebuild is
throttled. RemoveFunc drops every key matching a predicate and is how a
catalog write invalidates all graphs of one content type.

	searches := cache.NewLRUCache[models.SearchResult](256, 30*time.Second)
	searches.Add(cache.GenerateKey("search", req), result)

GenerateKey derives a stable key from a namespace and any JSON-encodable
value. All methods are safe for concurrent use.
*/
package cache
