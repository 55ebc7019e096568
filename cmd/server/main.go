// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/api"
	"github.com/tomtom215/cinegraph/internal/auth"
	"github.com/tomtom215/cinegraph/internal/config"
	"github.com/tomtom215/cinegraph/internal/events"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/middleware"
	"github.com/tomtom215/cinegraph/internal/recommend"
	"github.com/tomtom215/cinegraph/internal/store"
	"github.com/tomtom215/cinegraph/internal/supervisor"
	"github.com/tomtom215/cinegraph/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	searchCacheSize  = 256
	searchCacheTTL   = 30 * time.Second
	monitorWindow    = 1000
	slowRequest      = 500 * time.Millisecond
	idleTimeout      = 60 * time.Second
	readHeaderBudget = 5 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.LoggerConfig())
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("addr", cfg.Server.Address()).
		Bool("in_memory", cfg.Store.InMemory).
		Bool("auth", cfg.Security.AuthEnabled()).
		Bool("events", cfg.Events.Enabled).
		Msg("starting cinegraph")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Error().Err(err).Msg("cinegraph stopped with error")
		stop()
		os.Exit(1)
	}
	logging.Info().Msg("cinegraph stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.Logger()

	st, err := store.Open(store.Config{
		Path:       cfg.Store.Path,
		InMemory:   cfg.Store.InMemory,
		SyncWrites: cfg.Store.SyncWrites,
	}, logger)
	if err != nil {
		return err
	}
	// Closed after the tree so that draining requests can still read.
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing store")
		}
	}()

	if cfg.Store.SeedFile != "" {
		res, err := st.ImportFile(ctx, cfg.Store.SeedFile)
		if err != nil {
			return err
		}
		logging.Info().
			Str("file", cfg.Store.SeedFile).
			Int("imported", res.Total()).
			Interface("skipped", res.Skipped).
			Strs("unknown_types", res.UnknownTypes).
			Msg("catalog seeded")
	}

	engine, err := recommend.NewEngine(cfg.EngineConfig(), st, logger)
	if err != nil {
		return err
	}

	tree := supervisor.NewTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	if cfg.Events.Enabled {
		bus := events.NewBus(events.Config{BufferSize: cfg.Events.BufferSize}, logger)
		st.SetPublisher(bus)
		tree.AddMessagingService(services.NewClosingService("event-bus", bus, logger))
		tree.AddMessagingService(services.NewCatalogWatchService(bus, engine, logger))
	}

	tree.AddDataService(services.NewCacheMaintenanceService(engine, services.CacheMaintenanceConfig{
		WarmOnStartup: cfg.Recommend.WarmOnStartup,
		Interval:      cfg.Recommend.MaintenanceInterval,
	}, logger))

	server, err := newHTTPServer(cfg, st, engine)
	if err != nil {
		return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logger))

	err = tree.Serve(ctx)
	reportUnstopped(tree, logger)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newHTTPServer(cfg *config.Config, st *store.Store, engine *recommend.Engine) (*http.Server, error) {
	var jwtManager *auth.JWTManager
	if cfg.Security.AuthEnabled() {
		m, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTIssuer, 0)
		if err != nil {
			return nil, err
		}
		jwtManager = m
	} else {
		logging.Warn().Msg("JWT_SECRET is not set: catalog writes are unauthenticated")
	}

	handler := api.NewHandler(st, engine, api.HandlerOptions{
		Version:         version,
		Monitor:         middleware.NewPerformanceMonitor(monitorWindow, slowRequest),
		SearchCacheSize: searchCacheSize,
		SearchCacheTTL:  searchCacheTTL,
	})

	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mw.RateLimitRequests = cfg.Security.RateLimitReqs
	mw.RateLimitWindow = cfg.Security.RateLimitWindow
	mw.RateLimitDisabled = cfg.Security.RateLimitDisabled

	return &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           api.NewRouter(handler, api.RouterConfig{Middleware: mw, JWT: jwtManager}),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: readHeaderBudget,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       idleTimeout,
	}, nil
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func reportUnstopped(tree *supervisor.Tree, logger zerolog.Logger) {
	report, err := tree.UnstoppedServiceReport()
	if err != nil {
		logger.Warn().Err(err).Msg("could not build unstopped service report")
		return
	}
	for _, svc := range report {
		logger.Warn().Str("service", svc.Name).Msg("service did not stop within the shutdown timeout")
	}
}
