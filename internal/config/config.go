// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package config

import (
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Recommend RecommendConfig `koanf:"recommend"`
	Store     StoreConfig     `koanf:"store"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Events    EventsConfig    `koanf:"events"`
	Logging   LoggingConfig   `koanf:"logging"`
	Breaker   BreakerConfig   `koanf:"breaker"`
}

// RecommendConfig configures graph construction and the query engine.
type RecommendConfig struct {
	Threshold float64 `koanf:"threshold"`

	// MaxResults is fixed; it is accepted so that deployments can pin it
	// explicitly and fail fast if it ever disagrees with the engine.
	MaxResults int `koanf:"max_results"`

	GraphCacheSize      int           `koanf:"graph_cache_size"`
	GraphCacheTTL       time.Duration `koanf:"graph_cache_ttl"`
	RebuildRate         float64       `koanf:"rebuild_rate"`
	RebuildBurst        int           `koanf:"rebuild_burst"`
	StrictSequels       bool          `koanf:"strict_sequels"`
	WarmOnStartup       bool          `koanf:"warm_on_startup"`
	MaintenanceInterval time.Duration `koanf:"maintenance_interval"`
}

// StoreConfig configures the badger catalog store.
type StoreConfig struct {
	Path       string `koanf:"path"`
	InMemory   bool   `koanf:"in_memory"`
	SeedFile   string `koanf:"seed_file"`
	SyncWrites bool   `koanf:"sync_writes"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Address returns host:port for net.Listen.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SecurityConfig configures CORS, rate limiting and write authentication.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// JWTSecret enables bearer authentication on mutating routes when set.
	JWTSecret string `koanf:"jwt_secret"`
	JWTIssuer string `koanf:"jwt_issuer"`
}

// AuthEnabled reports whether mutating routes require a token.
func (s SecurityConfig) AuthEnabled() bool { return s.JWTSecret != "" }

// EventsConfig configures the in-process catalog event bus.
type EventsConfig struct {
	Enabled    bool  `koanf:"enabled"`
	BufferSize int64 `koanf:"buffer_size"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// BreakerConfig configures the circuit breaker guarding catalog reads.
type BreakerConfig struct {
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
}

// EngineConfig converts the recommend and breaker sections into the engine
// configuration.
func (c *Config) EngineConfig() *recommend.Config {
	return &recommend.Config{
		Threshold: c.Recommend.Threshold,
		Cache: recommend.CacheConfig{
			Size: c.Recommend.GraphCacheSize,
			TTL:  c.Recommend.GraphCacheTTL,
		},
		Rebuild: recommend.RebuildConfig{
			Rate:  c.Recommend.RebuildRate,
			Burst: c.Recommend.RebuildBurst,
		},
		Breaker: recommend.BreakerConfig{
			MaxRequests:      c.Breaker.MaxRequests,
			Interval:         c.Breaker.Interval,
			Timeout:          c.Breaker.Timeout,
			FailureThreshold: c.Breaker.FailureThreshold,
		},
		StrictSequels: c.Recommend.StrictSequels,
	}
}

// LoggerConfig converts the logging section for logging.Init.
func (c *Config) LoggerConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	lc.Format = c.Logging.Format
	lc.Caller = c.Logging.Caller
	return lc
}
