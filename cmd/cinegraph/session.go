// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/cinegraph/internal/config"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/recommend"
	"github.com/tomtom215/cinegraph/internal/store"
)

// session is an opened store plus the engine reading from it.
type session struct {
	cfg    *config.Config
	store  *store.Store
	engine *recommend.Engine
}

func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	lc := cfg.LoggerConfig()
	lc.Format = "console"
	lc.Level = "warn"
	if opts.verbose {
		lc.Level = "debug"
	}
	logging.Init(lc)
	return cfg, nil
}

func openSession(ctx context.Context, opts *options) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger := logging.Component("cli")

	sc := store.Config{
		Path:       cfg.Store.Path,
		InMemory:   cfg.Store.InMemory,
		SyncWrites: cfg.Store.SyncWrites,
	}
	if opts.catalog != "" {
		sc.InMemory = true
	}
	st, err := store.Open(sc, logger)
	if err != nil {
		return nil, err
	}

	if opts.catalog != "" {
		if _, err := st.ImportFile(ctx, opts.catalog); err != nil {
			return nil, errors.Join(fmt.Errorf("load %s: %w", opts.catalog, err), st.Close())
		}
	}

	engine, err := recommend.NewEngine(cfg.EngineConfig(), st, logger)
	if err != nil {
		return nil, errors.Join(err, st.Close())
	}
	return &session{cfg: cfg, store: st, engine: engine}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// withSession opens a session for the duration of fn.
func withSession(ctx context.Context, opts *options, fn func(*session) error) (err error) {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}
