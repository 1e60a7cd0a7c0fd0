// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	minRateLimitReqs   = 1
	maxRateLimitReqs   = 100000
	minRateLimitWindow = time.Second
	maxRateLimitWindow = time.Hour

	// maxRecommendTimeout keeps the retryable-timeout contract meaningful for interactive callers.
	maxRecommendTimeout = time.Minute
)

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateEnrich(); err != nil {
		return err
	}
	return c.validateEvents()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	switch c.Server.Environment {
	case "development", "staging", "production", "test":
		return nil
	default:
		return fmt.Errorf("ENVIRONMENT must be one of development, staging, production, test (got %q)", c.Server.Environment)
	}
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled", "off":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitReqs || c.Security.RateLimitReqs > maxRateLimitReqs {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitReqs, maxRateLimitReqs)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	if c.IsProduction() {
		for _, o := range c.Security.CORSOrigins {
			if o == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain '*' in production")
			}
		}
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case "memory":
		return nil
	case "badger":
		if !c.Storage.InMemory && c.Storage.Path == "" {
			return fmt.Errorf("STORAGE_PATH is required when STORAGE_BACKEND=badger and STORAGE_IN_MEMORY=false")
		}
		if c.Storage.GCInterval <= 0 {
			return fmt.Errorf("STORAGE_GC_INTERVAL must be positive")
		}
		return nil
	default:
		return fmt.Errorf("STORAGE_BACKEND must be badger or memory (got %q)", c.Storage.Backend)
	}
}

func (c *Config) validateRecommend() error {
	if c.Recommend.Timeout <= 0 || c.Recommend.Timeout > maxRecommendTimeout {
		return fmt.Errorf("RECOMMEND_TIMEOUT must be between 0 and %v", maxRecommendTimeout)
	}
	if c.Recommend.Delay < 0 {
		return fmt.Errorf("RECOMMEND_DELAY must not be negative")
	}
	if c.Recommend.HistorySize < 1 {
		return fmt.Errorf("RECOMMEND_HISTORY_SIZE must be at least 1")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

func (c *Config) validateEnrich() error {
	if !c.Enrich.Enabled {
		return nil
	}
	if c.Enrich.Delay < 0 {
		return fmt.Errorf("ENRICH_DELAY must not be negative")
	}
	if c.Enrich.Timeout <= 0 {
		return fmt.Errorf("ENRICH_TIMEOUT must be positive")
	}
	if c.Enrich.CacheSize < 1 {
		return fmt.Errorf("ENRICH_CACHE_SIZE must be at least 1")
	}
	if c.Enrich.RateLimit <= 0 || c.Enrich.Burst < 1 {
		return fmt.Errorf("ENRICH_RATE_LIMIT must be positive and ENRICH_BURST at least 1")
	}
	return nil
}

func (c *Config) validateEvents() error {
	switch c.Events.Backend {
	case "memory":
		return nil
	case "nats":
		if c.Events.Embedded {
			if c.Events.EmbeddedPort < 1 || c.Events.EmbeddedPort > 65535 {
				return fmt.Errorf("NATS_EMBEDDED_PORT must be between 1 and 65535")
			}
			return nil
		}
		if !strings.HasPrefix(c.Events.NATSURL, "nats://") && !strings.HasPrefix(c.Events.NATSURL, "tls://") {
			return fmt.Errorf("NATS_URL must start with nats:// or tls://")
		}
		return nil
	default:
		return fmt.Errorf("EVENTS_BACKEND must be memory or nats (got %q)", c.Events.Backend)
	}
}
