// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/dishpick/config.yaml",
}

// ConfigPathEnvVar names the environment variable holding an explicit config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Storage: StorageConfig{
			Backend:    "badger",
			Path:       "/data/dishpick",
			GCInterval: 10 * time.Minute,
		},
		Session: SessionConfig{
			TTL: 24 * time.Hour,
		},
		Recommend: RecommendConfig{
			Timeout:     3 * time.Second,
			Delay:       300 * time.Millisecond,
			HistorySize: 10,
		},
		Enrich: EnrichConfig{
			Enabled:   true,
			Delay:     500 * time.Millisecond,
			Timeout:   2 * time.Second,
			CacheSize: 1000,
			CacheTTL:  10 * time.Minute,
			RateLimit: 20,
			Burst:     40,
		},
		Events: EventsConfig{
			Backend:      "memory",
			NATSURL:      "nats://127.0.0.1:4222",
			EmbeddedHost: "127.0.0.1",
			EmbeddedPort: 4222,
		},
		Analytics: AnalyticsConfig{
			Enabled: true,
		},
	}
}

// LoadWithKoanf loads defaults, then the optional config file, then the environment.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths lists keys that accept comma-separated strings from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := make([]string, 0)
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			continue
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"storage_backend":     "storage.backend",
	"storage_path":        "storage.path",
	"storage_in_memory":   "storage.in_memory",
	"storage_gc_interval": "storage.gc_interval",

	"session_ttl": "session.ttl",

	"recommend_timeout":      "recommend.timeout",
	"recommend_delay":        "recommend.delay",
	"recommend_history_size": "recommend.history_size",
	"recommend_seed":         "recommend.seed",

	"enrich_enabled":    "enrich.enabled",
	"enrich_delay":      "enrich.delay",
	"enrich_timeout":    "enrich.timeout",
	"enrich_cache_size": "enrich.cache_size",
	"enrich_cache_ttl":  "enrich.cache_ttl",
	"enrich_rate_limit": "enrich.rate_limit",
	"enrich_burst":      "enrich.burst",

	"events_backend":     "events.backend",
	"nats_url":           "events.nats_url",
	"nats_embedded":      "events.embedded",
	"nats_embedded_host": "events.embedded_host",
	"nats_embedded_port": "events.embedded_port",

	"analytics_enabled": "analytics.enabled",
	"duckdb_path":       "analytics.path",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
