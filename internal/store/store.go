// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/catalog"
	"github.com/tomtom215/cinegraph/internal/events"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
)

// Key prefixes for BadgerDB storage
const (
	itemKeyPrefix    = "item:"
	versionKeyPrefix = "version:"
)

// maxConflictRetries bounds retries of a write that lost an optimistic
// concurrency race on the version counter.
const maxConflictRetries = 5

var (
	// ErrNotFound is returned when an item does not exist.
	ErrNotFound = errors.New("item not found")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("store closed")

	// ErrInvalidItem is returned when an item is nil or has no id.
	ErrInvalidItem = errors.New("invalid item")
)

// Config holds store settings.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps all data in memory. Used by tests and one-shot CLI runs.
	InMemory bool
	// SyncWrites fsyncs every commit.
	SyncWrites bool
}

// Publisher receives a notification after every committed catalog write.
type Publisher interface {
	PublishCatalogChanged(ctx context.Context, ev events.CatalogChanged) error
}

// Store is a BadgerDB-backed catalog. It is safe for concurrent use.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
	closed atomic.Bool

	pubMu     sync.RWMutex
	publisher Publisher
}

// Open opens or creates the catalog database.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(cfg Config, logger zerolog.Logger) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("store path is required")
	}

	logger = logger.With().Str("component", "store").Logger()

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = logging.NewBadgerAdapter(logger)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for catalog: %w", err)
	}

	s := &Store{db: db, logger: logger}
	s.refreshItemGauges()

	logger.Info().Str("path", cfg.Path).Bool("in_memory", cfg.InMemory).Msg("catalog store opened")
	return s, nil
}

// SetPublisher installs the change publisher. A nil publisher disables
// change notifications.
func (s *Store) SetPublisher(p Publisher) {
	s.pubMu.Lock()
	s.publisher = p
	s.pubMu.Unlock()
}

// Put adds or replaces an item. The item's Type is set to ct.
func (s *Store) Put(ctx context.Context, ct catalog.ContentType, item *catalog.Item) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("put", time.Since(start), err, nil) }()

	if err := s.check(ctx, ct); err != nil {
		return err
	}
	if item == nil || item.ID == "" {
		return ErrInvalidItem
	}

	// Round-trip through the wire record so stored data always validates.
	stored, err := item.ToRecord().ToItem(ct)
	if err != nil {
		return err
	}
	data, err := catalog.EncodeRecord(stored)
	if err != nil {
		return err
	}

	var created bool
	version, err := s.write(ct, func(txn *badger.Txn) error {
		key := itemKey(ct, stored.ID)
		_, getErr := txn.Get(key)
		switch {
		case errors.Is(getErr, badger.ErrKeyNotFound):
			created = true
		case getErr != nil:
			return fmt.Errorf("get item: %w", getErr)
		default:
			created = false
		}
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set item: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	item.Type = ct
	if created {
		metrics.StoreItems.WithLabelValues(ct.String()).Inc()
	}
	s.publish(ctx, events.CatalogChanged{ContentType: ct, ItemID: stored.ID, Op: events.OpPut, Version: version})
	return nil
}

// Get returns one item or ErrNotFound.
func (s *Store) Get(ctx context.Context, ct catalog.ContentType, id string) (item *catalog.Item, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("get", time.Since(start), err, ErrNotFound) }()

	if err := s.check(ctx, ct); err != nil {
		return nil, err
	}

	err = s.db.View(func(txn *badger.Txn) error {
		entry, err := txn.Get(itemKey(ct, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, ct, id)
		}
		if err != nil {
			return fmt.Errorf("get item: %w", err)
		}
		return entry.Value(func(val []byte) error {
			decoded, err := catalog.DecodeRecord(ct, val)
			if err != nil {
				return err
			}
			item = decoded
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item and reports whether it existed. Deleting a missing
// item does not change the version.
func (s *Store) Delete(ctx context.Context, ct catalog.ContentType, id string) (existed bool, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("delete", time.Since(start), err, nil) }()

	if err := s.check(ctx, ct); err != nil {
		return false, err
	}

	errMissing := errors.New("missing")
	version, err := s.write(ct, func(txn *badger.Txn) error {
		key := itemKey(ct, id)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return errMissing
		} else if err != nil {
			return fmt.Errorf("get item: %w", err)
		}
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		return nil
	})
	if errors.Is(err, errMissing) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	metrics.StoreItems.WithLabelValues(ct.String()).Dec()
	s.publish(ctx, events.CatalogChanged{ContentType: ct, ItemID: id, Op: events.OpDelete, Version: version})
	return true, nil
}

// List returns every item of ct ordered by id. Stored records that no
// longer decode are logged and skipped.
func (s *Store) List(ctx context.Context, ct catalog.ContentType) (items []*catalog.Item, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("list", time.Since(start), err, nil) }()

	raw, err := s.scan(ctx, ct)
	if err != nil {
		return nil, err
	}

	items = make([]*catalog.Item, 0, len(raw))
	for _, rec := range raw {
		item, err := catalog.DecodeRecord(ct, rec)
		if err != nil {
			s.logger.Warn().Err(err).Str("content_type", ct.String()).Msg("skipping undecodable stored record")
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// ListRaw returns the stored JSON records of ct ordered by id.
func (s *Store) ListRaw(ctx context.Context, ct catalog.ContentType) (records [][]byte, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("list_raw", time.Since(start), err, nil) }()
	return s.scan(ctx, ct)
}

// Count returns the number of items of ct.
func (s *Store) Count(ctx context.Context, ct catalog.ContentType) (int, error) {
	if err := s.check(ctx, ct); err != nil {
		return 0, err
	}
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := itemPrefix(ct)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// Version returns the change counter of ct. It is 0 for a type that was
// never written.
func (s *Store) Version(ctx context.Context, ct catalog.ContentType) (version uint64, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("version", time.Since(start), err, nil) }()

	if err := s.check(ctx, ct); err != nil {
		return 0, err
	}
	err = s.db.View(func(txn *badger.Txn) error {
		version, err = readVersion(txn, ct)
		return err
	})
	return version, err
}

// Search returns the items matching q across the content types it covers,
// grouped by content type in canonical order.
func (s *Store) Search(ctx context.Context, q *catalog.Query) ([]*catalog.Item, error) {
	if q == nil {
		q = &catalog.Query{}
	}
	out := make([]*catalog.Item, 0)
	for _, ct := range catalog.AllContentTypes() {
		if !q.IncludesType(ct) {
			continue
		}
		items, err := s.List(ctx, ct)
		if err != nil {
			return nil, err
		}
		out = append(out, catalog.Search(items, q)...)
	}
	return out, nil
}

// Close closes the database. Further calls return ErrClosed.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return ErrClosed
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger db: %w", err)
	}
	s.logger.Info().Msg("catalog store closed")
	return nil
}

func (s *Store) check(ctx context.Context, ct catalog.ContentType) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ct.Valid() {
		return fmt.Errorf("%w: %d", catalog.ErrUnknownContentType, int(ct))
	}
	return nil
}

func (s *Store) scan(ctx context.Context, ct catalog.ContentType) ([][]byte, error) {
	if err := s.check(ctx, ct); err != nil {
		return nil, err
	}

	records := make([][]byte, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := itemPrefix(ct)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			records = append(records, val)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s items: %w", ct, err)
	}
	return records, nil
}

// write runs fn and bumps the version of ct in one transaction, retrying
// when a concurrent writer committed first. It returns the new version.
func (s *Store) write(ct catalog.ContentType, fn func(txn *badger.Txn) error) (uint64, error) {
	var version uint64
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = s.db.Update(func(txn *badger.Txn) error {
			if err := fn(txn); err != nil {
				return err
			}
			v, err := bumpVersion(txn, ct)
			version = v
			return err
		})
		if !errors.Is(err, badger.ErrConflict) {
			return version, err
		}
		s.logger.Debug().Str("content_type", ct.String()).Int("attempt", attempt+1).Msg("write conflict, retrying")
	}
	return 0, fmt.Errorf("write %s: %w", ct, err)
}

func (s *Store) publish(ctx context.Context, ev events.CatalogChanged) {
	s.pubMu.RLock()
	p := s.publisher
	s.pubMu.RUnlock()
	if p == nil {
		return
	}
	// The write is already committed; a lost notification only delays
	// invalidation until the version check on the next query.
	if err := p.PublishCatalogChanged(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Str("content_type", ev.ContentType.String()).Str("op", string(ev.Op)).
			Msg("failed to publish catalog change")
	}
}

func (s *Store) refreshItemGauges() {
	for _, ct := range catalog.AllContentTypes() {
		n, err := s.Count(context.Background(), ct)
		if err != nil {
			s.logger.Warn().Err(err).Str("content_type", ct.String()).Msg("failed to count items")
			continue
		}
		metrics.SetStoreItems(ct.String(), n)
	}
}

func itemKey(ct catalog.ContentType, id string) []byte {
	return []byte(itemKeyPrefix + ct.String() + ":" + id)
}

func itemPrefix(ct catalog.ContentType) []byte {
	return []byte(itemKeyPrefix + ct.String() + ":")
}

func versionKey(ct catalog.ContentType) []byte {
	return []byte(versionKeyPrefix + ct.String())
}

func readVersion(txn *badger.Txn, ct catalog.ContentType) (uint64, error) {
	entry, err := txn.Get(versionKey(ct))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	var version uint64
	err = entry.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt version counter for %s", ct)
		}
		version = binary.BigEndian.Uint64(val)
		return nil
	})
	return version, err
}

func bumpVersion(txn *badger.Txn, ct catalog.ContentType) (uint64, error) {
	current, err := readVersion(txn, ct)
	if err != nil {
		return 0, err
	}
	next := current + 1
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, next)
	if err := txn.Set(versionKey(ct), buf); err != nil {
		return 0, fmt.Errorf("set version: %w", err)
	}
	return next, nil
}
