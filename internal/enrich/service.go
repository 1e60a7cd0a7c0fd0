// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package enrich

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/dishpick/internal/cache"
	"github.com/tomtom215/dishpick/internal/metrics"
)

var (
	// ErrUnavailable means enrichment could not be obtained right now.
	// Base dish data is unaffected.
	ErrUnavailable = errors.New("enrichment unavailable")

	// ErrUnknownSource is returned for a source name that is not registered.
	ErrUnknownSource = errors.New("unknown enrichment source")
)

// Lookup results recorded in metrics.
const (
	resultFound       = "found"
	resultEmpty       = "empty"
	resultCached      = "cached"
	resultTimeout     = "timeout"
	resultRateLimited = "rate_limited"
	resultRejected    = "circuit_open"
	resultError       = "error"
)

// Config configures Service.
type Config struct {
	// Timeout bounds each remote lookup.
	Timeout time.Duration

	// CacheSize and CacheTTL size the shared result cache.
	CacheSize int
	CacheTTL  time.Duration

	// RateLimit is lookups per second across all sources; zero disables limiting.
	RateLimit float64
	Burst     int

	Breaker BreakerSettings
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:   2 * time.Second,
		CacheSize: 1000,
		CacheTTL:  10 * time.Minute,
		RateLimit: 20,
		Burst:     40,
		Breaker:   DefaultBreakerSettings(),
	}
}

type guardedSource struct {
	source  Source
	breaker *gobreaker.CircuitBreaker[*Record]
}

// cached wraps a lookup result so empty answers can be cached too.
type cached struct {
	record *Record
}

// Service performs guarded lookups against registered sources.
// It is safe for concurrent use.
type Service struct {
	sources map[string]*guardedSource
	limiter *rate.Limiter
	cache   *cache.LRU[cached]
	timeout time.Duration
	logger  zerolog.Logger
}

// NewService wraps sources. Source names must be unique.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(cfg Config, logger zerolog.Logger, sources ...Source) (*Service, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.Breaker.ConsecutiveFailures == 0 {
		cfg.Breaker = DefaultBreakerSettings()
	}

	s := &Service{
		sources: make(map[string]*guardedSource, len(sources)),
		cache:   cache.New[cached](cfg.CacheSize, cfg.CacheTTL),
		timeout: cfg.Timeout,
		logger:  logger.With().Str("component", "enrich").Logger(),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	for _, src := range sources {
		name := src.Name()
		if _, dup := s.sources[name]; dup {
			return nil, fmt.Errorf("duplicate enrichment source %q", name)
		}
		s.sources[name] = &guardedSource{source: src, breaker: newBreaker(name, cfg.Breaker)}
	}
	return s, nil
}

// Sources returns the registered source names, sorted.
func (s *Service) Sources() []string {
	names := make([]string, 0, len(s.sources))
	for name := range s.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the record source has for dishID, or nil when it has none.
// Every failure other than an unknown source is reported as ErrUnavailable.
func (s *Service) Lookup(ctx context.Context, source, dishID string) (*Record, error) {
	gs, ok := s.sources[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}

	start := time.Now()
	key := source + ":" + dishID
	if hit, ok := s.cache.Get(key); ok {
		metrics.RecordCacheAccess("enrich", true)
		metrics.RecordEnrichLookup(source, resultCached, time.Since(start))
		return hit.record.clone(), nil
	}
	metrics.RecordCacheAccess("enrich", false)

	if s.limiter != nil && !s.limiter.Allow() {
		metrics.RecordEnrichLookup(source, resultRateLimited, time.Since(start))
		return nil, fmt.Errorf("%w: rate limited", ErrUnavailable)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rec, err := gs.breaker.Execute(func() (*Record, error) {
		return gs.source.Lookup(lookupCtx, dishID)
	})
	if err != nil {
		result := s.classify(err)
		metrics.RecordEnrichLookup(source, result, time.Since(start))
		if result == resultRejected {
			metrics.CircuitBreakerRequests.WithLabelValues(gs.breaker.Name(), "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(gs.breaker.Name(), "failure").Inc()
		}
		s.logger.Warn().Err(err).
			Str("source", source).
			Str("dish_id", dishID).
			Str("result", result).
			Msg("enrichment lookup failed")
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, result, err)
	}
	metrics.CircuitBreakerRequests.WithLabelValues(gs.breaker.Name(), "success").Inc()

	s.cache.Set(key, cached{record: rec.clone()})
	result := resultFound
	if rec == nil {
		result = resultEmpty
	}
	metrics.RecordEnrichLookup(source, result, time.Since(start))
	return rec, nil
}

func (s *Service) classify(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return resultRejected
	case errors.Is(err, context.DeadlineExceeded):
		return resultTimeout
	default:
		return resultError
	}
}

// BreakerState returns the circuit state of source, for health reporting.
func (s *Service) BreakerState(source string) (string, bool) {
	gs, ok := s.sources[source]
	if !ok {
		return "", false
	}
	return gs.breaker.State().String(), true
}
