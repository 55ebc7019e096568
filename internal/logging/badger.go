// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// BadgerAdapter implements badger.Logger so the embedded store reports
// through zerolog. Badger's info chatter is demoted to debug.
type BadgerAdapter struct {
	logger zerolog.Logger
}

// NewBadgerAdapter wraps logger for badger.Options.Logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBadgerAdapter(logger zerolog.Logger) *BadgerAdapter {
	return &BadgerAdapter{logger: logger}
}

// Errorf logs at error level.
func (a *BadgerAdapter) Errorf(format string, args ...interface{}) {
	a.logger.Error().Msgf(trimNewline(format), args...)
}

// Warningf logs at warn level.
func (a *BadgerAdapter) Warningf(format string, args ...interface{}) {
	a.logger.Warn().Msgf(trimNewline(format), args...)
}

// Infof logs at debug level.
func (a *BadgerAdapter) Infof(format string, args ...interface{}) {
	a.logger.Debug().Msgf(trimNewline(format), args...)
}

// Debugf logs at trace level.
func (a *BadgerAdapter) Debugf(format string, args ...interface{}) {
	a.logger.Trace().Msgf(trimNewline(format), args...)
}

func trimNewline(format string) string {
	return strings.TrimRight(format, "\n")
}
