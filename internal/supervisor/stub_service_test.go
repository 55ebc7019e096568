// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/thejerf/suture/v4"
)

var errSimulated = errors.New("simulated failure")

// stubService runs until canceled, optionally failing its first N runs.
type stubService struct {
	name     string
	failures int32
	starts   atomic.Int32
	stops    atomic.Int32
}

var _ suture.Service = (*stubService)(nil)

func newStubService(name string, failures int) *stubService {
	return &stubService{name: name, failures: int32(failures)}
}

func (s *stubService) Serve(ctx context.Context) error {
	n := s.starts.Add(1)
	defer s.stops.Add(1)
	if n <= s.failures {
		return errSimulated
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *stubService) String() string { return s.name }
