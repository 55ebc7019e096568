// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/events"
	"github.com/tomtom215/cinegraph/internal/metrics"
)

var (
	// ErrUnknownFormat is returned for unsupported document formats.
	ErrUnknownFormat = errors.New("unknown document format")

	// ErrMalformedDocument is returned when a document is not a mapping of
	// content type names to record lists.
	ErrMalformedDocument = errors.New("malformed catalog document")
)

// Format is a catalog document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name. An empty name means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// ImportResult summarizes an import, keyed by content type name.
type ImportResult struct {
	Imported     map[string]int `json:"imported"`
	Skipped      map[string]int `json:"skipped"`
	UnknownTypes []string       `json:"unknown_types,omitempty"`
}

// Total returns the number of imported records.
func (r *ImportResult) Total() int {
	n := 0
	for _, c := range r.Imported {
		n += c
	}
	return n
}

// TotalSkipped returns the number of rejected records.
func (r *ImportResult) TotalSkipped() int {
	n := 0
	for _, c := range r.Skipped {
		n += c
	}
	return n
}

// ImportFile imports a document from disk, choosing the format by extension.
func (s *Store) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return nil, fmt.Errorf("open catalog document: %w", err)
	}
	defer f.Close()

	return s.Import(ctx, f, format)
}

// Import merges a catalog document into the store. Items with an id that
// already exists are replaced. Each content type is committed separately
// and its version bumped once.
func (s *Store) Import(ctx context.Context, r io.Reader, format Format) (result *ImportResult, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("import", time.Since(start), err, nil) }()

	if s.closed.Load() {
		return nil, ErrClosed
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog document: %w", err)
	}
	sections, err := decodeDocument(data, format)
	if err != nil {
		return nil, err
	}

	result = &ImportResult{Imported: map[string]int{}, Skipped: map[string]int{}}

	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		ct, err := catalog.ParseContentType(name)
		if err != nil {
			s.logger.Warn().Str("section", name).Msg("ignoring unknown content type in catalog document")
			result.UnknownTypes = append(result.UnknownTypes, name)
			continue
		}

		encoded := make(map[string][]byte, len(sections[name]))
		skipped := 0
		for i, decode := range sections[name] {
			var rec catalog.Record
			if err := decode(&rec); err != nil {
				s.logger.Warn().Err(err).Str("content_type", ct.String()).Int("index", i).Msg("skipping malformed record")
				skipped++
				continue
			}
			item, err := rec.ToItem(ct)
			if err != nil {
				s.logger.Warn().Err(err).Str("content_type", ct.String()).Str("id", rec.ID).Msg("skipping invalid record")
				skipped++
				continue
			}
			value, err := catalog.EncodeRecord(item)
			if err != nil {
				return result, err
			}
			// Later duplicates win, like repeated Put calls.
			encoded[item.ID] = value
		}

		result.Skipped[ct.String()] += skipped
		if len(encoded) == 0 {
			continue
		}

		version, err := s.importBatch(ct, encoded)
		if err != nil {
			return result, fmt.Errorf("import %s: %w", ct, err)
		}
		result.Imported[ct.String()] += len(encoded)

		s.publish(ctx, events.CatalogChanged{ContentType: ct, Op: events.OpImport, Version: version})
	}

	s.refreshItemGauges()
	s.logger.Info().
		Int("imported", result.Total()).
		Int("skipped", result.TotalSkipped()).
		Dur("duration", time.Since(start)).
		Msg("catalog document imported")
	return result, nil
}

// importBatch writes records, splitting into several transactions when one
// grows too big. The version is bumped in the final transaction.
func (s *Store) importBatch(ct catalog.ContentType, records map[string][]byte) (uint64, error) {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	txn := s.db.NewTransaction(true)
	defer func() { txn.Discard() }()

	for _, id := range ids {
		key, value := itemKey(ct, id), records[id]
		err := txn.Set(key, value)
		if errors.Is(err, badger.ErrTxnTooBig) {
			if err := txn.Commit(); err != nil {
				return 0, fmt.Errorf("commit partial batch: %w", err)
			}
			txn = s.db.NewTransaction(true)
			err = txn.Set(key, value)
		}
		if err != nil {
			return 0, fmt.Errorf("set item: %w", err)
		}
	}

	version, err := bumpVersion(txn, ct)
	if err != nil {
		return 0, err
	}
	if err := txn.Commit(); err != nil {
		return 0, fmt.Errorf("commit batch: %w", err)
	}
	return version, nil
}

// Export writes every content type as a catalog document. Types without
// items are written as empty lists.
func (s *Store) Export(ctx context.Context, w io.Writer, format Format) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("export", time.Since(start), err, nil) }()

	doc := make(map[string][]*catalog.Record, len(catalog.AllContentTypes()))
	for _, ct := range catalog.AllContentTypes() {
		items, err := s.List(ctx, ct)
		if err != nil {
			return err
		}
		records := make([]*catalog.Record, len(items))
		for i, item := range items {
			records[i] = item.ToRecord()
		}
		doc[ct.String()] = records
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encode catalog document: %w", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("write catalog document: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode catalog document: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("write catalog document: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return nil
}

// recordDecoder decodes one document entry into a Record. Entries are kept
// undecoded until then so a single bad record does not reject the document.
type recordDecoder func(*catalog.Record) error

func decodeDocument(data []byte, format Format) (map[string][]recordDecoder, error) {
	out := make(map[string][]recordDecoder)
	switch format {
	case FormatJSON:
		var doc map[string][]json.RawMessage
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: JSON: %v", ErrMalformedDocument, err)
		}
		for name, entries := range doc {
			for _, raw := range entries {
				out[name] = append(out[name], func(rec *catalog.Record) error {
					return json.Unmarshal(raw, rec)
				})
			}
		}
	case FormatYAML:
		var doc map[string][]yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: YAML: %v", ErrMalformedDocument, err)
		}
		for name, entries := range doc {
			for i := range entries {
				node := &entries[i]
				out[name] = append(out[name], func(rec *catalog.Record) error {
					return node.Decode(rec)
				})
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return out, nil
}
