// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// warmTimeout bounds a single warm-up pass.
const warmTimeout = 2 * time.Minute

// GraphCache is the maintenance surface of the recommendation engine.
type GraphCache interface {
	// CleanupCache removes expired graphs and returns how many went.
	CleanupCache() int
	// Warm builds the graph of every content type.
	Warm(ctx context.Context) error
}

// CacheMaintenanceConfig configures CacheMaintenanceService.
type CacheMaintenanceConfig struct {
	// WarmOnStartup builds all graphs when the service starts.
	WarmOnStartup bool

	// Interval between expired-graph sweeps. Defaults to one minute.
	Interval time.Duration
}

// CacheMaintenanceService warms the graph cache once and then sweeps
// expired graphs on a ticker.
type CacheMaintenanceService struct {
	cache  GraphCache
	config CacheMaintenanceConfig
	logger zerolog.Logger
}

// NewCacheMaintenanceService creates the maintenance loop.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCacheMaintenanceService(cache GraphCache, cfg CacheMaintenanceConfig, logger zerolog.Logger) *CacheMaintenanceService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	return &CacheMaintenanceService{
		cache:  cache,
		config: cfg,
		logger: logger.With().Str("service", "cache-maintenance").Logger(),
	}
}

// Serve implements suture.Service. A failed warm-up is logged and not
// retried; queries build graphs lazily anyway.
func (s *CacheMaintenanceService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("warm_on_startup", s.config.WarmOnStartup).
		Dur("interval", s.config.Interval).
		Msg("cache maintenance starting")

	if s.config.WarmOnStartup {
		s.warm(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := s.cache.CleanupCache(); n > 0 {
				s.logger.Debug().Int("removed", n).Msg("expired graphs removed")
			}
		}
	}
}

func (s *CacheMaintenanceService) warm(ctx context.Context) {
	warmCtx, cancel := context.WithTimeout(ctx, warmTimeout)
	defer cancel()

	start := time.Now()
	if err := s.cache.Warm(warmCtx); err != nil {
		s.logger.Warn().Err(err).Msg("graph warm-up failed")
		return
	}
	s.logger.Info().Dur("duration", time.Since(start)).Msg("graphs warmed")
}

func (s *CacheMaintenanceService) String() string {
	return "cache-maintenance"
}
