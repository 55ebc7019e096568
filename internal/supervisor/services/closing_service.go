// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package services

import (
	"context"
	"io"

	"github.com/rs/zerolog"
)

// ClosingService holds a resource open for the life of the tree and closes
// it on shutdown. The event bus runs under one.
type ClosingService struct {
	name     string
	resource io.Closer
	logger   zerolog.Logger
}

// NewClosingService creates a ClosingService named name.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewClosingService(name string, resource io.Closer, logger zerolog.Logger) *ClosingService {
	return &ClosingService{
		name:     name,
		resource: resource,
		logger:   logger.With().Str("service", name).Logger(),
	}
}

// Serve blocks until ctx is canceled and then closes the resource. A close
// failure is logged; there is nothing left to restart.
func (s *ClosingService) Serve(ctx context.Context) error {
	<-ctx.Done()
	if err := s.resource.Close(); err != nil {
		s.logger.Error().Err(err).Msg("close failed")
	} else {
		s.logger.Debug().Msg("closed")
	}
	return ctx.Err()
}

func (s *ClosingService) String() string {
	return s.name
}
