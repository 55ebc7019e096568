// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Layer names a child supervisor of the tree.
type Layer string

const (
	LayerData      Layer = "data"
	LayerMessaging Layer = "messaging"
	LayerAPI       Layer = "api"
)

// ErrUnknownLayer is returned for a Token that does not belong to the tree.
var ErrUnknownLayer = errors.New("unknown supervisor layer")

// TreeConfig holds restart and shutdown tuning.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	FailureThreshold float64

	// FailureDecay is the failure decay rate in seconds.
	FailureDecay float64

	// FailureBackoff is the pause once the threshold is exceeded.
	FailureBackoff time.Duration

	// ShutdownTimeout bounds how long each service gets to stop.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's stock values.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay <= 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff <= 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

// Token identifies a service added to the tree.
type Token struct {
	Layer Layer
	token suture.ServiceToken
}

// Tree is the process supervision hierarchy:
//
//	cinegraph
//	├── data-layer       catalog store, cache maintenance
//	├── messaging-layer  event bus, catalog watcher
//	└── api-layer        HTTP server
//
// A panicking catalog watcher is restarted without touching the HTTP server.
type Tree struct {
	root   *suture.Supervisor
	layers map[Layer]*suture.Supervisor
	logger *slog.Logger
	config TreeConfig
}

// NewTree builds the tree. Supervisor events (restarts, backoff, panics)
// are logged through logger.
func NewTree(logger *slog.Logger, config TreeConfig) *Tree {
	if logger == nil {
		logger = slog.Default()
	}
	config = config.withDefaults()

	// MustHook has a pointer receiver.
	hook := (&sutureslog.Handler{Logger: logger}).MustHook()

	spec := suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}
	rootSpec := spec
	rootSpec.EventHook = hook

	t := &Tree{
		root:   suture.New("cinegraph", rootSpec),
		layers: make(map[Layer]*suture.Supervisor, 3),
		logger: logger,
		config: config,
	}
	for _, layer := range []Layer{LayerData, LayerMessaging, LayerAPI} {
		child := suture.New(string(layer)+"-layer", spec)
		t.layers[layer] = child
		t.root.Add(child)
	}
	return t
}

// Config returns the effective configuration.
func (t *Tree) Config() TreeConfig {
	return t.config
}

// Add places svc under the given layer.
func (t *Tree) Add(layer Layer, svc suture.Service) (Token, error) {
	sup, ok := t.layers[layer]
	if !ok {
		return Token{}, ErrUnknownLayer
	}
	return Token{Layer: layer, token: sup.Add(svc)}, nil
}

// AddDataService adds svc to the data layer.
func (t *Tree) AddDataService(svc suture.Service) Token {
	return Token{Layer: LayerData, token: t.layers[LayerData].Add(svc)}
}

// AddMessagingService adds svc to the messaging layer.
func (t *Tree) AddMessagingService(svc suture.Service) Token {
	return Token{Layer: LayerMessaging, token: t.layers[LayerMessaging].Add(svc)}
}

// AddAPIService adds svc to the API layer.
func (t *Tree) AddAPIService(svc suture.Service) Token {
	return Token{Layer: LayerAPI, token: t.layers[LayerAPI].Add(svc)}
}

// Remove stops and removes a service without waiting for it.
func (t *Tree) Remove(tok Token) error {
	sup, ok := t.layers[tok.Layer]
	if !ok {
		return ErrUnknownLayer
	}
	return sup.Remove(tok.token)
}

// RemoveAndWait removes a service and blocks until it has stopped or
// timeout elapses. A zero timeout waits forever.
func (t *Tree) RemoveAndWait(tok Token, timeout time.Duration) error {
	sup, ok := t.layers[tok.Layer]
	if !ok {
		return ErrUnknownLayer
	}
	return sup.RemoveAndWait(tok.token, timeout)
}

// Serve runs the tree until ctx is canceled.
func (t *Tree) Serve(ctx context.Context) error {
	t.logger.Info("supervisor tree starting")
	err := t.root.Serve(ctx)
	t.logger.Info("supervisor tree stopped", "error", err)
	return err
}

// ServeBackground runs the tree in a goroutine. The channel receives the
// result of Serve.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that outlived the shutdown timeout.
// Only meaningful after Serve has returned.
func (t *Tree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
