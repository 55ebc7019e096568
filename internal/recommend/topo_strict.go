// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"fmt"
	"strings"
)

// SequelCycleError reports a cycle found in the sequel graph.
// Path lists the ids on the cycle starting and ending at the same id.
type SequelCycleError struct {
	Path []string
}

func (e *SequelCycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSequelCycle.Error(), strings.Join(e.Path, " -> "))
}

// Unwrap allows errors.Is(err, ErrSequelCycle).
func (e *SequelCycleError) Unwrap() error { return ErrSequelCycle }

const (
	white = iota // unvisited
	gray         // on the current path
	black        // finished
)

// TopologicalOrderStrict is TopologicalOrder but fails with a
// *SequelCycleError when the sequel graph is not acyclic.
func (g *ContentGraph) TopologicalOrderStrict() ([]string, error) {
	color := make(map[string]int, len(g.order))
	post := make([]string, 0, len(g.order))
	for _, id := range g.order {
		if color[id] != white {
			continue
		}
		if err := g.visitStrict(id, color, nil, &post); err != nil {
			return nil, err
		}
	}
	return reversed(post), nil
}

// TopologicalOrderFromStrict is TopologicalOrderFrom but fails with a
// *SequelCycleError when a cycle is reachable from start.
func (g *ContentGraph) TopologicalOrderFromStrict(start string) ([]string, error) {
	if !g.HasVertex(start) {
		return []string{}, nil
	}
	color := make(map[string]int)
	post := make([]string, 0)
	if err := g.visitStrict(start, color, nil, &post); err != nil {
		return nil, err
	}
	return reversed(post), nil
}

func (g *ContentGraph) visitStrict(id string, color map[string]int, path []string, post *[]string) error {
	color[id] = gray
	path = append(path, id)

	for _, next := range g.sequels[id] {
		switch color[next] {
		case white:
			if err := g.visitStrict(next, color, path, post); err != nil {
				return err
			}
		case gray:
			return &SequelCycleError{Path: cyclePath(path, next)}
		}
	}

	color[id] = black
	*post = append(*post, id)
	return nil
}

// cyclePath extracts the cycle closing at back from the current DFS path.
func cyclePath(path []string, back string) []string {
	for i, id := range path {
		if id == back {
			cycle := append([]string(nil), path[i:]...)
			return append(cycle, back)
		}
	}
	return []string{back, back}
}
