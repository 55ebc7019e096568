// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import "sort"

// Autoplay walks the similarity graph depth-first from start, always
// descending into the heaviest unvisited neighbor next, and returns the first
// MaxResults ids in visit order. The start id is first. An unknown start
// yields an empty result.
func (g *ContentGraph) Autoplay(start string) []string {
	if !g.HasVertex(start) {
		return []string{}
	}

	visited := make(map[string]bool, len(g.order))
	order := make([]string, 0, MaxResults)
	stack := NewStack(start)

	for !stack.IsEmpty() {
		id, _ := stack.Pop()
		if visited[id] {
			continue
		}
		visited[id] = true
		order = append(order, id)
		if len(order) == MaxResults {
			break
		}

		neighbors := sortedByWeight(g.similarity[id])
		for i := len(neighbors) - 1; i >= 0; i-- {
			if !visited[neighbors[i].To] {
				stack.Push(neighbors[i].To)
			}
		}
	}

	return order
}

// Similar walks the marathon graph breadth-first from start, visiting each
// level in descending weight order, and returns the first MaxResults ids in
// visit order. An id is enqueued at most once while it waits in the queue.
// An unknown start yields an empty result.
func (g *ContentGraph) Similar(start string) []string {
	if !g.HasVertex(start) {
		return []string{}
	}

	visited := make(map[string]bool, len(g.order))
	order := make([]string, 0, MaxResults)
	queue := NewQueue(start)

	for !queue.IsEmpty() {
		id, _ := queue.Dequeue()
		if visited[id] {
			continue
		}
		visited[id] = true
		order = append(order, id)
		if len(order) == MaxResults {
			break
		}

		for _, e := range sortedByWeight(g.marathon[id]) {
			if !visited[e.To] && !queue.Contains(e.To) {
				queue.Enqueue(e.To)
			}
		}
	}

	return order
}

// TopologicalOrder returns every vertex ordered so that each prequel precedes
// its sequels. Roots are taken in insertion order. Cycles do not fail: an
// edge back into the current path is treated as already finished.
func (g *ContentGraph) TopologicalOrder() []string {
	visited := make(map[string]bool, len(g.order))
	post := make([]string, 0, len(g.order))
	for _, id := range g.order {
		if !visited[id] {
			g.visitSequels(id, visited, &post)
		}
	}
	return reversed(post)
}

// TopologicalOrderFrom returns start and everything reachable from it over
// sequel edges, prequels first. An unknown start yields an empty result.
func (g *ContentGraph) TopologicalOrderFrom(start string) []string {
	if !g.HasVertex(start) {
		return []string{}
	}
	visited := make(map[string]bool)
	post := make([]string, 0)
	g.visitSequels(start, visited, &post)
	return reversed(post)
}

func (g *ContentGraph) visitSequels(id string, visited map[string]bool, post *[]string) {
	visited[id] = true
	for _, next := range g.sequels[id] {
		if !visited[next] {
			g.visitSequels(next, visited, post)
		}
	}
	*post = append(*post, id)
}

// sortedByWeight returns a copy of edges stable-sorted by weight descending.
func sortedByWeight(edges []Edge) []Edge {
	out := append([]Edge(nil), edges...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Weight > out[j].Weight
	})
	return out
}

func reversed(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}
