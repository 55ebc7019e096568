// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package logging provides the zerolog-based structured logging used across
// Cinegraph.
//
// A single global logger is configured at startup with Init. Packages derive
// child loggers with Component, and request handlers use Ctx to pick up the
// request and correlation ids carried by a context.
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	log := logging.Component("store")
//	log.Info().Str("type", "movies").Int("records", n).Msg("catalog imported")
//
// Third-party libraries are bridged onto the same stream:
//
//   - SlogHandler / NewSlogLogger for slog consumers such as sutureslog
//   - WatermillAdapter for the watermill event bus
//   - BadgerAdapter for the badger key-value store
//
// Always finish an event with Msg or Send; an unfinished event is dropped.
package logging
