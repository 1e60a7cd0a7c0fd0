// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

// Package config loads Dishpick configuration.
//
// Sources are layered with Koanf v2, highest priority last:
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file: $CONFIG_PATH, ./config.yaml, /etc/dishpick/config.yaml
//  3. Environment variables (see envMappings)
//
// Example config.yaml:
//
//	server:
//	  port: 8080
//	recommend:
//	  timeout: 3s
//	events:
//	  backend: nats
//	  embedded: true
package config

import "time"

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Security  SecurityConfig  `koanf:"security"`
	Storage   StorageConfig   `koanf:"storage"`
	Session   SessionConfig   `koanf:"session"`
	Recommend RecommendConfig `koanf:"recommend"`
	Enrich    EnrichConfig    `koanf:"enrich"`
	Events    EventsConfig    `koanf:"events"`
	Analytics AnalyticsConfig `koanf:"analytics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SecurityConfig holds CORS and rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// StorageConfig configures the badger database holding filter state and sessions.
type StorageConfig struct {
	// Backend is "badger" or "memory".
	Backend string `koanf:"backend"`

	// Path is the badger directory. Ignored when InMemory is set.
	Path string `koanf:"path"`

	// InMemory keeps badger entirely in RAM.
	InMemory bool `koanf:"in_memory"`

	// GCInterval is how often value-log GC runs.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// SessionConfig configures recommendation sessions.
type SessionConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// RecommendConfig configures the recommendation engine and its HTTP bound.
type RecommendConfig struct {
	// Timeout bounds a single recommend request. Exceeding it yields a retryable error.
	Timeout time.Duration `koanf:"timeout"`

	// Delay is the pacing pause before a result is returned.
	Delay time.Duration `koanf:"delay"`

	HistorySize int   `koanf:"history_size"`
	Seed        int64 `koanf:"seed"`
}

// EnrichConfig configures the simulated enrichment lookups.
type EnrichConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Delay     time.Duration `koanf:"delay"`
	Timeout   time.Duration `koanf:"timeout"`
	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`

	// RateLimit is lookups per second across all sources; Burst is the bucket size.
	RateLimit float64 `koanf:"rate_limit"`
	Burst     int     `koanf:"burst"`
}

// EventsConfig configures the recommendation event bus.
type EventsConfig struct {
	// Backend is "memory" (watermill gochannel) or "nats".
	Backend string `koanf:"backend"`

	NATSURL      string `koanf:"nats_url"`
	Embedded     bool   `koanf:"embedded"`
	EmbeddedHost string `koanf:"embedded_host"`
	EmbeddedPort int    `koanf:"embedded_port"`
}

// AnalyticsConfig configures the DuckDB analytics store.
type AnalyticsConfig struct {
	Enabled bool `koanf:"enabled"`

	// Path is the DuckDB file. Empty means in-memory.
	Path string `koanf:"path"`
}

// Load reads configuration from all sources and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
