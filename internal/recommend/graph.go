// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"fmt"

	"github.com/tomtom215/cinegraph/internal/catalog"
)

// ContentGraph holds catalog items as vertices together with three adjacency
// structures: an undirected similarity graph, an undirected marathon graph
// and a directed sequel graph (prequel -> sequel).
//
// Building a graph is single-threaded. Once built, a graph may be read
// concurrently as long as no further mutation takes place.
type ContentGraph struct {
	order    []string
	vertices map[string]Item

	similarity map[string][]Edge
	marathon   map[string][]Edge
	sequels    map[string][]string
}

// NewContentGraph returns an empty graph.
func NewContentGraph() *ContentGraph {
	return &ContentGraph{
		vertices:   make(map[string]Item),
		similarity: make(map[string][]Edge),
		marathon:   make(map[string][]Edge),
		sequels:    make(map[string][]string),
	}
}

// AddVertex registers item, or replaces the stored item when the id is
// already known. Adjacency lists are created only for new ids, so re-adding
// keeps existing edges and the original insertion position.
func (g *ContentGraph) AddVertex(item Item) error {
	if item == nil {
		return fmt.Errorf("%w: nil item", ErrInvalidItem)
	}
	id := item.GetID()
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidItem)
	}

	if _, exists := g.vertices[id]; !exists {
		g.order = append(g.order, id)
		g.similarity[id] = []Edge{}
		g.marathon[id] = []Edge{}
		g.sequels[id] = []string{}
	}
	g.vertices[id] = item
	return nil
}

// BuildFromItems adds every item and returns how many were rejected.
func (g *ContentGraph) BuildFromItems(items []Item) int {
	rejected := 0
	for _, item := range items {
		if err := g.AddVertex(item); err != nil {
			rejected++
		}
	}
	return rejected
}

// BuildFromRecords decodes catalog records of type ct and adds them as
// vertices. Records that fail to decode are skipped; the count of skipped
// records is returned.
func (g *ContentGraph) BuildFromRecords(records [][]byte, ct catalog.ContentType) (int, error) {
	if !ct.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownContentType, int(ct))
	}
	return g.BuildFromRecordsWith(records, CatalogDecoder(ct)), nil
}

// BuildFromRecordsWith is BuildFromRecords with a caller-supplied decoder.
func (g *ContentGraph) BuildFromRecordsWith(records [][]byte, decode RecordDecoder) int {
	skipped := 0
	for _, raw := range records {
		item, err := decode(raw)
		if err != nil {
			skipped++
			continue
		}
		if err := g.AddVertex(item); err != nil {
			skipped++
		}
	}
	return skipped
}

// GenerateSimilarityAndMarathonEdges scores every unordered pair of vertices
// once, in insertion order, and adds a symmetric edge to each graph whose
// score reaches threshold. The two decisions are independent.
//
// Edges are appended, so calling this twice duplicates them.
func (g *ContentGraph) GenerateSimilarityAndMarathonEdges(threshold float64, ct catalog.ContentType) {
	for i := 0; i < len(g.order); i++ {
		idA := g.order[i]
		a := g.vertices[idA]
		for j := i + 1; j < len(g.order); j++ {
			idB := g.order[j]
			b := g.vertices[idB]

			if w := Score(a, b, ct, PolicySimilarity); w >= threshold {
				g.similarity[idA] = append(g.similarity[idA], Edge{To: idB, Weight: w})
				g.similarity[idB] = append(g.similarity[idB], Edge{To: idA, Weight: w})
			}
			if w := Score(a, b, ct, PolicyMarathon); w >= threshold {
				g.marathon[idA] = append(g.marathon[idA], Edge{To: idB, Weight: w})
				g.marathon[idB] = append(g.marathon[idB], Edge{To: idA, Weight: w})
			}
		}
	}
}

// GenerateSequelEdges adds a directed edge from each vertex to every sequel
// id that is itself a vertex. Unknown sequel ids are ignored.
func (g *ContentGraph) GenerateSequelEdges() {
	for _, id := range g.order {
		for _, sequel := range g.vertices[id].GetSequelIDs() {
			if _, known := g.vertices[sequel]; known {
				g.sequels[id] = append(g.sequels[id], sequel)
			}
		}
	}
}

// Build adds items and generates all three edge sets in one step.
func Build(items []Item, threshold float64, ct catalog.ContentType) *ContentGraph {
	g := NewContentGraph()
	g.BuildFromItems(items)
	g.GenerateSimilarityAndMarathonEdges(threshold, ct)
	g.GenerateSequelEdges()
	return g
}

// Vertices returns the vertex ids in insertion order.
func (g *ContentGraph) Vertices() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of vertices.
func (g *ContentGraph) Len() int { return len(g.order) }

// HasVertex reports whether id is a vertex.
func (g *ContentGraph) HasVertex(id string) bool {
	_, ok := g.vertices[id]
	return ok
}

// Item returns the item stored for id.
func (g *ContentGraph) Item(id string) (Item, bool) {
	item, ok := g.vertices[id]
	return item, ok
}

// SimilarityNeighbors returns a copy of id's similarity adjacency.
func (g *ContentGraph) SimilarityNeighbors(id string) []Edge {
	return append([]Edge(nil), g.similarity[id]...)
}

// MarathonNeighbors returns a copy of id's marathon adjacency.
func (g *ContentGraph) MarathonNeighbors(id string) []Edge {
	return append([]Edge(nil), g.marathon[id]...)
}

// SequelNeighbors returns a copy of id's direct sequels.
func (g *ContentGraph) SequelNeighbors(id string) []string {
	return append([]string(nil), g.sequels[id]...)
}

// EdgeCounts reports the number of undirected similarity and marathon edges
// and the number of directed sequel edges.
func (g *ContentGraph) EdgeCounts() (similarity, marathon, sequel int) {
	for _, id := range g.order {
		similarity += len(g.similarity[id])
		marathon += len(g.marathon[id])
		sequel += len(g.sequels[id])
	}
	return similarity / 2, marathon / 2, sequel
}
