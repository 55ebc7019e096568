// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tomtom215/cinegraph/internal/catalog"
)

func TestAddVertex(t *testing.T) {
	g := NewContentGraph()

	if err := g.AddVertex(item("a")); err != nil {
		t.Fatalf("AddVertex(a) error: %v", err)
	}
	if err := g.AddVertex(item("b")); err != nil {
		t.Fatalf("AddVertex(b) error: %v", err)
	}

	if got := g.Vertices(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Vertices() = %v, want [a b]", got)
	}
	if !g.HasVertex("a") || g.HasVertex("z") {
		t.Error("HasVertex() reported wrong membership")
	}
	for _, adj := range []map[string][]Edge{g.similarity, g.marathon} {
		if edges, ok := adj["a"]; !ok || len(edges) != 0 {
			t.Error("adjacency should be initialised empty for a new vertex")
		}
	}
	if seq, ok := g.sequels["a"]; !ok || len(seq) != 0 {
		t.Error("sequel adjacency should be initialised empty for a new vertex")
	}
}

func TestAddVertex_Invalid(t *testing.T) {
	tests := []struct {
		name string
		item Item
	}{
		{"nil item", nil},
		{"nil catalog item", (*catalog.Item)(nil)},
		{"empty id", &testItem{id: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewContentGraph()
			err := g.AddVertex(tt.item)
			if !errors.Is(err, ErrInvalidItem) {
				t.Errorf("AddVertex() error = %v, want ErrInvalidItem", err)
			}
			if g.Len() != 0 || len(g.similarity) != 0 || len(g.marathon) != 0 || len(g.sequels) != 0 {
				t.Error("rejected item must leave the graph untouched")
			}
		})
	}
}

func TestAddVertex_ReplaceKeepsEdgesAndPosition(t *testing.T) {
	g := NewContentGraph()
	a1 := &testItem{id: "a", tags: map[string]float64{"Acción": 1}}
	b := &testItem{id: "b", tags: map[string]float64{"Acción": 1}}
	_ = g.AddVertex(a1)
	_ = g.AddVertex(b)
	g.GenerateSimilarityAndMarathonEdges(DefaultThreshold, catalog.Movies)

	before := g.MarathonNeighbors("a")
	a2 := &testItem{id: "a", tags: map[string]float64{"Drama": 1}}
	if err := g.AddVertex(a2); err != nil {
		t.Fatalf("AddVertex(replace) error: %v", err)
	}

	if got := g.Vertices(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Vertices() = %v, want [a b]", got)
	}
	if stored, _ := g.Item("a"); stored != Item(a2) {
		t.Error("re-adding should replace the stored item")
	}
	if got := g.MarathonNeighbors("a"); !reflect.DeepEqual(got, before) {
		t.Errorf("MarathonNeighbors(a) = %v, want %v", got, before)
	}
}

func TestGenerateSimilarityAndMarathonEdges(t *testing.T) {
	g := NewContentGraph()
	g.BuildFromItems([]Item{
		&testItem{id: "a", tags: map[string]float64{"Dinosaurios": 1}},
		&testItem{id: "b", tags: map[string]float64{"Dinosaurios": 1}},
		&testItem{id: "c", tags: map[string]float64{"Acción": 1}},
		&testItem{id: "d", tags: map[string]float64{"Acción": 1}},
	})
	g.GenerateSimilarityAndMarathonEdges(DefaultThreshold, catalog.Movies)

	// a-b share a high tag: similarity 5, marathon 0.5.
	// c-d share a low tag: similarity 0.5, marathon 5.
	tests := []struct {
		name     string
		got      []Edge
		expected []Edge
	}{
		{"similarity a", g.SimilarityNeighbors("a"), []Edge{{To: "b", Weight: 5}}},
		{"similarity b", g.SimilarityNeighbors("b"), []Edge{{To: "a", Weight: 5}}},
		{"similarity c", g.SimilarityNeighbors("c"), []Edge{}},
		{"marathon a", g.MarathonNeighbors("a"), []Edge{}},
		{"marathon c", g.MarathonNeighbors("c"), []Edge{{To: "d", Weight: 5}}},
		{"marathon d", g.MarathonNeighbors("d"), []Edge{{To: "c", Weight: 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", tt.got, tt.expected)
			}
			for i := range tt.got {
				if tt.got[i] != tt.expected[i] {
					t.Errorf("edge[%d] = %v, want %v", i, tt.got[i], tt.expected[i])
				}
			}
		})
	}

	sim, mar, seq := g.EdgeCounts()
	if sim != 1 || mar != 1 || seq != 0 {
		t.Errorf("EdgeCounts() = (%d, %d, %d), want (1, 1, 0)", sim, mar, seq)
	}
}

func TestGenerateSimilarityAndMarathonEdges_ThresholdInclusive(t *testing.T) {
	// Two shared keywords give exactly 4.0 under similarity.
	g := NewContentGraph()
	g.BuildFromItems([]Item{
		&testItem{id: "a", keywords: []string{"x", "y"}},
		&testItem{id: "b", keywords: []string{"x", "y"}},
	})
	g.GenerateSimilarityAndMarathonEdges(4.0, catalog.Movies)

	if got := g.SimilarityNeighbors("a"); len(got) != 1 || got[0].Weight != 4.0 {
		t.Errorf("SimilarityNeighbors(a) = %v, want one edge of weight 4", got)
	}
}

func TestGenerateSimilarityAndMarathonEdges_Additive(t *testing.T) {
	g := NewContentGraph()
	g.BuildFromItems([]Item{
		&testItem{id: "a", keywords: []string{"x"}},
		&testItem{id: "b", keywords: []string{"x"}},
	})
	g.GenerateSimilarityAndMarathonEdges(DefaultThreshold, catalog.Movies)
	g.GenerateSimilarityAndMarathonEdges(DefaultThreshold, catalog.Movies)

	if got := len(g.MarathonNeighbors("a")); got != 2 {
		t.Errorf("len(MarathonNeighbors(a)) after two passes = %d, want 2", got)
	}
}

func TestGenerateSequelEdges(t *testing.T) {
	g := NewContentGraph()
	g.BuildFromItems([]Item{
		&testItem{id: "x", sequels: []string{"y", "missing"}},
		&testItem{id: "y", sequels: []string{"z"}},
		&testItem{id: "z"},
	})
	g.GenerateSequelEdges()

	tests := []struct {
		id       string
		expected []string
	}{
		{"x", []string{"y"}},
		{"y", []string{"z"}},
		{"z", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := g.SequelNeighbors(tt.id)
			if len(got) != len(tt.expected) {
				t.Fatalf("SequelNeighbors(%q) = %v, want %v", tt.id, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("SequelNeighbors(%q)[%d] = %q, want %q", tt.id, i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestBuildFromItems_SkipsInvalid(t *testing.T) {
	g := NewContentGraph()
	rejected := g.BuildFromItems([]Item{item("a"), nil, &testItem{id: ""}, item("b")})
	if rejected != 2 {
		t.Errorf("BuildFromItems() rejected = %d, want 2", rejected)
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}
}

func TestBuildFromItems_NilCatalogItem(t *testing.T) {
	var missing *catalog.Item
	g := NewContentGraph()
	rejected := g.BuildFromItems([]Item{missing, &catalog.Item{ID: "m1", Type: catalog.Movies}})
	if rejected != 1 {
		t.Errorf("BuildFromItems() rejected = %d, want 1", rejected)
	}
	if got := g.Vertices(); !reflect.DeepEqual(got, []string{"m1"}) {
		t.Errorf("Vertices() = %v, want [m1]", got)
	}
}

func TestBuildFromRecords(t *testing.T) {
	records := [][]byte{
		[]byte(`{"id": "jp1", "title": "Jurassic Park", "tags": {"Dinosaurios": 1}, "sequel_ids": ["jp2"]}`),
		[]byte(`{"id": "jp2", "title": "The Lost World", "tags": {"Dinosaurios": 0.9}}`),
		[]byte(`{"id": "", "title": "broken"}`),
		[]byte(`not json`),
	}

	g := NewContentGraph()
	skipped, err := g.BuildFromRecords(records, catalog.Movies)
	if err != nil {
		t.Fatalf("BuildFromRecords() error: %v", err)
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if got := g.Vertices(); !reflect.DeepEqual(got, []string{"jp1", "jp2"}) {
		t.Errorf("Vertices() = %v, want [jp1 jp2]", got)
	}

	if _, err := NewContentGraph().BuildFromRecords(records, catalog.ContentType(9)); !errors.Is(err, ErrUnknownContentType) {
		t.Errorf("BuildFromRecords(unknown type) error = %v, want ErrUnknownContentType", err)
	}
}

func TestBuildFromRecordsWith(t *testing.T) {
	decode := func(raw []byte) (Item, error) {
		if string(raw) == "bad" {
			return nil, errors.New("bad record")
		}
		return item(string(raw)), nil
	}

	g := NewContentGraph()
	skipped := g.BuildFromRecordsWith([][]byte{[]byte("a"), []byte("bad"), []byte("b")}, decode)
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}

	nilDecoder := func([]byte) (Item, error) { return (*catalog.Item)(nil), nil }
	if skipped := NewContentGraph().BuildFromRecordsWith([][]byte{[]byte("x")}, nilDecoder); skipped != 1 {
		t.Errorf("skipped nil decode = %d, want 1", skipped)
	}
}

func TestNeighborAccessorsReturnCopies(t *testing.T) {
	g := Build([]Item{
		&testItem{id: "a", keywords: []string{"k"}},
		&testItem{id: "b", keywords: []string{"k"}},
	}, DefaultThreshold, catalog.Movies)

	edges := g.MarathonNeighbors("a")
	edges[0].Weight = -1

	if g.MarathonNeighbors("a")[0].Weight == -1 {
		t.Error("MarathonNeighbors() must not expose internal state")
	}

	ids := g.Vertices()
	ids[0] = "mutated"
	if g.Vertices()[0] != "a" {
		t.Error("Vertices() must not expose internal state")
	}
}
