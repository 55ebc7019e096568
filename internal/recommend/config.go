// Cinegraph - Media Recommendation and Viewing Order Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Threshold is the minimum score for similarity and marathon edges.
	// Default: 4.
	Threshold float64 `json:"threshold"`

	// Cache contains graph memoization parameters.
	Cache CacheConfig `json:"cache"`

	// Rebuild limits how often graphs may be rebuilt.
	Rebuild RebuildConfig `json:"rebuild"`

	// Breaker configures the circuit breaker around catalog reads.
	Breaker BreakerConfig `json:"breaker"`

	// StrictSequels makes SequelOrder fail on cyclic sequel data instead of
	// returning a best-effort order.
	StrictSequels bool `json:"strict_sequels"`
}

// CacheConfig contains graph cache parameters.
type CacheConfig struct {
	// Size is the maximum number of memoized graphs.
	// Default: 16.
	Size int `json:"size"`

	// TTL bounds how long a memoized graph is served without a rebuild.
	// Default: 10m.
	TTL time.Duration `json:"ttl"`
}

// RebuildConfig throttles graph rebuilds.
type RebuildConfig struct {
	// Rate is the sustained number of rebuilds allowed per second.
	// Default: 2.
	Rate float64 `json:"rate"`

	// Burst is the number of rebuilds allowed at once.
	// Default: 4.
	Burst int `json:"burst"`
}

// BreakerConfig mirrors the gobreaker settings used for catalog reads.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32 `json:"max_requests"`

	// Interval is the cyclic period of the closed state for clearing counts.
	Interval time.Duration `json:"interval"`

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration `json:"timeout"`

	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32 `json:"failure_threshold"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Threshold: DefaultThreshold,
		Cache: CacheConfig{
			Size: 16,
			TTL:  10 * time.Minute,
		},
		Rebuild: RebuildConfig{
			Rate:  2,
			Burst: 4,
		},
		Breaker: BreakerConfig{
			MaxRequests:      3,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %f", c.Threshold)
	}
	if c.Cache.Size < 1 {
		return fmt.Errorf("cache.size must be positive, got %d", c.Cache.Size)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
	}
	if c.Rebuild.Rate <= 0 {
		return fmt.Errorf("rebuild.rate must be positive, got %f", c.Rebuild.Rate)
	}
	if c.Rebuild.Burst < 1 {
		return fmt.Errorf("rebuild.burst must be positive, got %d", c.Rebuild.Burst)
	}
	if c.Breaker.FailureThreshold < 1 {
		return fmt.Errorf("breaker.failure_threshold must be positive, got %d", c.Breaker.FailureThreshold)
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("breaker.timeout must be positive, got %v", c.Breaker.Timeout)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
