// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/events"
)

const jsonDocument = `{
  "peliculas": [
    {"id": "jp1", "title": "Jurassic Park", "tags": {"Dinosaurios": 1}, "keywords": ["isla"], "director": "Spielberg", "sequel_ids": ["jp2"]},
    {"id": "jp2", "title": "The Lost World", "tags": {"Dinosaurios": 1}, "keywords": ["isla"], "director": "Spielberg"},
    {"id": "", "title": "missing id"},
    {"id": "bad", "title": "bad intensity", "tags": {"Drama": 7}}
  ],
  "documentales": [
    {"id": "cosmos", "title": "Cosmos", "tags": {"Ciencia": 0.5}, "date": "1980-09-28"}
  ],
  "podcasts": [{"id": "p1", "title": "ignored"}]
}`

const yamlDocument = `
series:
  - id: dark
    title: Dark
    tags:
      Distopía: 0.75
    keywords: [tiempo]
    genre: Ciencia ficción
    seasons:
      1:
        year: 2017
        episodes:
          1: {id: dark-s1e1, name: Secretos, duration: 51}
          2: {id: dark-s1e2, name: Mentiras, duration: 44}
  - id: 42
    title: [not, a, string]
`

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}

	if _, err := FormatFromPath("catalog"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("FormatFromPath without extension error = %v", err)
	}
	if f, _ := FormatFromPath("seed/catalog.YML"); f != FormatYAML {
		t.Errorf("FormatFromPath(.YML) = %q, want yaml", f)
	}
}

func TestImport_JSON(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	pub := &recordingPublisher{}
	s.SetPublisher(pub)

	result, err := s.Import(ctx, strings.NewReader(jsonDocument), FormatJSON)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}

	if result.Imported["movies"] != 2 || result.Skipped["movies"] != 2 {
		t.Errorf("movies imported/skipped = %d/%d, want 2/2", result.Imported["movies"], result.Skipped["movies"])
	}
	if result.Imported["documentaries"] != 1 {
		t.Errorf("documentaries imported = %d, want 1", result.Imported["documentaries"])
	}
	if len(result.UnknownTypes) != 1 || result.UnknownTypes[0] != "podcasts" {
		t.Errorf("UnknownTypes = %v, want [podcasts]", result.UnknownTypes)
	}
	if result.Total() != 3 || result.TotalSkipped() != 2 {
		t.Errorf("Total/TotalSkipped = %d/%d, want 3/2", result.Total(), result.TotalSkipped())
	}

	doc, err := s.Get(ctx, catalog.Documentaries, "cosmos")
	if err != nil {
		t.Fatalf("Get(cosmos) error: %v", err)
	}
	if doc.Documentary == nil || doc.Documentary.ReleaseDate != "28-09-1980" {
		t.Errorf("release date not normalized: %+v", doc.Documentary)
	}

	// One version bump and one event per imported content type.
	if v, _ := s.Version(ctx, catalog.Movies); v != 1 {
		t.Errorf("movies version = %d, want 1", v)
	}
	got := pub.snapshot()
	if len(got) != 2 {
		t.Fatalf("published %d events, want 2", len(got))
	}
	for _, ev := range got {
		if ev.Op != events.OpImport || ev.ItemID != "" {
			t.Errorf("unexpected event %+v", ev)
		}
	}
}

func TestImport_YAML(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	result, err := s.Import(ctx, strings.NewReader(yamlDocument), FormatYAML)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if result.Imported["series"] != 1 || result.Skipped["series"] != 1 {
		t.Errorf("series imported/skipped = %d/%d, want 1/1", result.Imported["series"], result.Skipped["series"])
	}

	dark, err := s.Get(ctx, catalog.Series, "dark")
	if err != nil {
		t.Fatalf("Get(dark) error: %v", err)
	}
	if dark.Series.TotalEpisodes() != 2 || dark.Series.TotalDurationMinutes() != 95 {
		t.Errorf("episodes = %d, duration = %d; want 2, 95",
			dark.Series.TotalEpisodes(), dark.Series.TotalDurationMinutes())
	}
	if dark.Series.Seasons[1].Year != 2017 {
		t.Errorf("season 1 year = %d, want 2017", dark.Series.Seasons[1].Year)
	}
}

func TestImport_Malformed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		doc    string
		format Format
	}{
		{"json syntax", `{"movies": [`, FormatJSON},
		{"json not a document", `[1, 2, 3]`, FormatJSON},
		{"yaml syntax", "movies: [\n  - id: x\n  bad", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Import(ctx, strings.NewReader(tt.doc), tt.format); !errors.Is(err, ErrMalformedDocument) {
				t.Errorf("error = %v, want ErrMalformedDocument", err)
			}
		})
	}

	if _, err := s.Import(ctx, strings.NewReader("{}"), Format("toml")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("unknown format error = %v, want ErrUnknownFormat", err)
	}
}

func TestImport_DuplicateIDsLastWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := `{"movies": [{"id": "a", "title": "first"}, {"id": "a", "title": "second"}]}`
	result, err := s.Import(ctx, strings.NewReader(doc), FormatJSON)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if result.Imported["movies"] != 1 {
		t.Errorf("imported = %d, want 1", result.Imported["movies"])
	}
	got, err := s.Get(ctx, catalog.Movies, "a")
	if err != nil || got.Title != "second" {
		t.Errorf("Get(a) = %v, %v; want title second", got, err)
	}
}

func TestImportFile(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(yamlDocument), 0o600); err != nil {
		t.Fatal(err)
	}

	result, err := s.ImportFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ImportFile() error: %v", err)
	}
	if result.Imported["series"] != 1 {
		t.Errorf("imported = %v", result.Imported)
	}

	if _, err := s.ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExport_RoundTripsThroughImport(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			src := newTestStore(t)
			ctx := context.Background()

			if _, err := src.Import(ctx, strings.NewReader(jsonDocument), FormatJSON); err != nil {
				t.Fatal(err)
			}
			if _, err := src.Import(ctx, strings.NewReader(yamlDocument), FormatYAML); err != nil {
				t.Fatal(err)
			}

			var buf bytes.Buffer
			if err := src.Export(ctx, &buf, format); err != nil {
				t.Fatalf("Export() error: %v", err)
			}
			for _, section := range []string{"movies", "documentaries", "series"} {
				if !strings.Contains(buf.String(), section) {
					t.Errorf("export missing section %q", section)
				}
			}

			dst := newTestStore(t)
			result, err := dst.Import(ctx, &buf, format)
			if err != nil {
				t.Fatalf("re-import error: %v", err)
			}
			if result.Total() != 4 || result.TotalSkipped() != 0 {
				t.Errorf("re-import total/skipped = %d/%d, want 4/0", result.Total(), result.TotalSkipped())
			}

			dark, err := dst.Get(ctx, catalog.Series, "dark")
			if err != nil {
				t.Fatalf("Get(dark) error: %v", err)
			}
			if dark.Series.TotalEpisodes() != 2 {
				t.Errorf("episodes after round trip = %d, want 2", dark.Series.TotalEpisodes())
			}
		})
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	s := newTestStore(t)
	if err := s.Export(context.Background(), &bytes.Buffer{}, Format("csv")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Export() error = %v, want ErrUnknownFormat", err)
	}
}
