// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/dishpick/internal/analytics"
	"github.com/tomtom215/dishpick/internal/api"
	"github.com/tomtom215/dishpick/internal/config"
	"github.com/tomtom215/dishpick/internal/enrich"
	"github.com/tomtom215/dishpick/internal/events"
	"github.com/tomtom215/dishpick/internal/filterstore"
	"github.com/tomtom215/dishpick/internal/logging"
	"github.com/tomtom215/dishpick/internal/session"
	"github.com/tomtom215/dishpick/internal/storage"
	"github.com/tomtom215/dishpick/internal/supervisor"
	"github.com/tomtom215/dishpick/internal/supervisor/services"
)

// stores groups the session and filter stores with their backing database.
type stores struct {
	sessions session.Store
	filters  filterstore.Store
	checks   []api.ReadinessCheck
	db       *badger.DB
}

// Close closes the badger database, if any. Safe to call more than once.
func (s *stores) Close() {
	if s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing storage")
	}
	s.db = nil
}

// initStorage opens the configured backend and registers its maintenance
// service in the data layer.
func initStorage(cfg *config.Config, tree *supervisor.SupervisorTree) (*stores, error) {
	if cfg.Storage.Backend == "memory" {
		sessions := session.NewMemoryStore(cfg.Session.TTL)
		tree.AddDataService(services.NewStorageGCService(func() (int, error) {
			return sessions.CleanupExpired(), nil
		}, time.Minute))
		logging.Info().Msg("Using in-memory storage; filters and sessions do not survive a restart")
		return &stores{sessions: sessions, filters: filterstore.NewMemoryStore()}, nil
	}

	db, err := storage.Open(storage.Options{Path: cfg.Storage.Path, InMemory: cfg.Storage.InMemory})
	if err != nil {
		return nil, err
	}
	tree.AddDataService(services.NewStorageGCService(func() (int, error) {
		return storage.RunGC(db, storage.DefaultGCRatio)
	}, cfg.Storage.GCInterval))

	filters := filterstore.NewBadgerStore(db)
	logging.Info().Str("path", cfg.Storage.Path).Bool("in_memory", cfg.Storage.InMemory).Msg("Badger storage opened")

	return &stores{
		sessions: session.NewBadgerStore(db, cfg.Session.TTL),
		filters:  filters,
		db:       db,
		checks: []api.ReadinessCheck{{
			Name: "storage",
			Check: func(ctx context.Context) error {
				_, err := filters.Count(ctx)
				return err
			},
		}},
	}, nil
}

// initEnrich returns nil when enrichment is disabled.
func initEnrich(cfg *config.Config) (*enrich.Service, error) {
	if !cfg.Enrich.Enabled {
		logging.Info().Msg("Enrichment disabled")
		return nil, nil
	}
	return enrich.NewService(enrich.Config{
		Timeout:   cfg.Enrich.Timeout,
		CacheSize: cfg.Enrich.CacheSize,
		CacheTTL:  cfg.Enrich.CacheTTL,
		RateLimit: cfg.Enrich.RateLimit,
		Burst:     cfg.Enrich.Burst,
		Breaker:   enrich.DefaultBreakerSettings(),
	},
		logging.Logger(),
		enrich.NewTakeoutSource(cfg.Enrich.Delay),
		enrich.NewRecipeSource(cfg.Enrich.Delay),
	)
}

// initEvents connects the bus. With events.embedded the NATS server is
// started first and handed to the supervisor, which stops it last.
func initEvents(cfg *config.Config, tree *supervisor.SupervisorTree) (*events.Bus, error) {
	busCfg := events.DefaultBusConfig()
	busCfg.Backend = cfg.Events.Backend
	busCfg.URL = cfg.Events.NATSURL

	if cfg.Events.Backend == events.BackendNATS && cfg.Events.Embedded {
		srv, err := events.NewEmbeddedServer(events.ServerConfig{
			Host: cfg.Events.EmbeddedHost,
			Port: cfg.Events.EmbeddedPort,
		})
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS: %w", err)
		}
		busCfg.URL = srv.ClientURL()
		tree.AddMessagingService(services.NewNATSServerService(srv))
		logging.Info().Str("url", busCfg.URL).Msg("Embedded NATS server started")
	}

	bus, err := events.NewBus(busCfg, events.NewZerologAdapter(logging.WithComponent("watermill")))
	if err != nil {
		return nil, err
	}
	logging.Info().Str("backend", bus.Backend()).Msg("Event bus ready")
	return bus, nil
}

// initAnalytics returns nil when analytics is disabled.
func initAnalytics(ctx context.Context, cfg *config.Config) (*analytics.Store, error) {
	if !cfg.Analytics.Enabled {
		logging.Info().Msg("Analytics disabled")
		return nil, nil
	}
	return analytics.Open(ctx, analytics.Config{Path: cfg.Analytics.Path}, logging.WithComponent("analytics"))
}
