// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared configuration structures.
package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with upstream requests
	// (e.g. "pokedeck/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// UpstreamConfig holds settings for the PokéAPI client.
type UpstreamConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the upstream root; empty means the public PokéAPI.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// CacheConfig holds settings for the shared response cache.
type CacheConfig struct {
	// Capacity is the maximum number of cached upstream responses;
	// the least recently used entry is evicted beyond it.
	Capacity int `json:"capacity" yaml:"capacity"`
}

// PoolConfig holds settings for the shared concurrency pool.
type PoolConfig struct {
	// MaxConcurrent is the number of upstream fetches allowed in
	// flight at once.
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`
}

// ServerConfig holds settings for the HTTP boundary.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Config groups all component configurations.
type Config struct {
	Upstream UpstreamConfig `json:"upstream" yaml:"upstream"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Pool     PoolConfig     `json:"pool" yaml:"pool"`
	Server   ServerConfig   `json:"server" yaml:"server"`
}

// DefaultConfig returns the configuration used when no file or
// environment overrides are present.
func DefaultConfig() Config {
	return Config{
		Upstream: UpstreamConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   8 * time.Second,
				UserAgent: "pokedeck/0.1",
			},
		},
		Cache: CacheConfig{Capacity: 4096},
		Pool:  PoolConfig{MaxConcurrent: 10},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}
