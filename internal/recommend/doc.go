// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package recommend builds content graphs over catalog items and answers
// recommendation and viewing-order queries against them.
//
// # Scoring
//
// Two policies weigh a pair of items:
//
//   - Similarity rewards shared high-importance tags, a shared director and
//     shared keywords. It drives Autoplay.
//   - Marathon rewards shared low-importance tags and, strongly, shared
//     keywords. It drives Similar.
//
// A prequel/sequel pair always scores SequelWeight (100). Tag importance is
// a fixed taxonomy per content type (see Taxonomy).
//
// # Graphs
//
// A ContentGraph holds three adjacency structures over the same vertices:
// undirected similarity and marathon graphs (edges where the score reaches
// the threshold, 4 by default) and a directed sequel graph.
//
// # Queries
//
//   - Autoplay: depth-first over similarity, heaviest neighbor first, at most
//     MaxResults ids in visit order.
//   - Similar: breadth-first over marathon, heaviest neighbor first per
//     level, at most MaxResults ids in visit order.
//   - TopologicalOrder / TopologicalOrderFrom: prequels before sequels,
//     tolerant of cycles. The Strict variants report cycles as errors.
//
// # Engine
//
// Engine wraps graph construction for a live catalog: it reads records
// through a CatalogSource behind a circuit breaker, memoizes graphs per
// content type and catalog version in an LRU, and rate-limits rebuilds.
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), store, logger)
//	res, err := engine.Autoplay(ctx, catalog.Movies, "jurassic-park")
//
// # Thread Safety
//
// Building a ContentGraph is single-threaded; a built graph is safe for
// concurrent reads. Engine is safe for concurrent use.
package recommend
