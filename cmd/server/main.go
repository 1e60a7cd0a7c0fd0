// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/dishpick/internal/api"
	"github.com/tomtom215/dishpick/internal/catalog"
	"github.com/tomtom215/dishpick/internal/config"
	"github.com/tomtom215/dishpick/internal/events"
	"github.com/tomtom215/dishpick/internal/logging"
	"github.com/tomtom215/dishpick/internal/recommend"
	"github.com/tomtom215/dishpick/internal/supervisor"
	"github.com/tomtom215/dishpick/internal/supervisor/services"
	ws "github.com/tomtom215/dishpick/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // sequential start-up
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("storage", cfg.Storage.Backend).
		Str("events", cfg.Events.Backend).
		Msg("Starting Dishpick")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	dishes := catalog.Default()
	engineCfg := recommend.DefaultConfig()
	engineCfg.HistorySize = cfg.Recommend.HistorySize
	engineCfg.Seed = cfg.Recommend.Seed
	engine, err := recommend.NewEngine(engineCfg, logging.WithComponent("recommend"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}
	logging.Info().Int("dishes", dishes.Len()).Msg("Catalog loaded")

	store, err := initStorage(cfg, tree)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer store.Close()

	enricher, err := initEnrich(cfg)
	if err != nil {
		store.Close()
		logging.Fatal().Err(err).Msg("Failed to initialize enrichment")
	}

	bus, err := initEvents(cfg, tree)
	if err != nil {
		store.Close()
		logging.Fatal().Err(err).Msg("Failed to initialize event bus")
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing event bus")
		}
	}()

	hub := ws.NewHub()
	handlers := []events.Handler{hub}
	checks := store.checks

	stats, err := initAnalytics(ctx, cfg)
	if err != nil {
		store.Close()
		logging.Fatal().Err(err).Msg("Failed to open analytics store")
	}
	if stats != nil {
		defer func() {
			if err := stats.Close(); err != nil {
				logging.Warn().Err(err).Msg("Error closing analytics store")
			}
		}()
		handlers = append(handlers, stats)
		checks = append(checks, api.ReadinessCheck{Name: "analytics", Check: stats.Ping})
	}

	deps := api.Deps{
		Catalog:   dishes,
		Engine:    engine,
		Sessions:  store.sessions,
		Filters:   store.filters,
		Publisher: bus,
		Hub:       hub,
		Checks:    checks,
	}
	// Typed nils must not reach the optional interfaces.
	if enricher != nil {
		deps.Enricher = enricher
	}
	if stats != nil {
		deps.Stats = stats
	}

	handler, err := api.NewHandler(deps, api.HandlerConfig{
		RecommendTimeout: cfg.Recommend.Timeout,
		RecommendDelay:   cfg.Recommend.Delay,
		AllowedOrigins:   originsForWebSocket(cfg.Security.CORSOrigins),
		Version:          version,
	})
	if err != nil {
		store.Close()
		logging.Fatal().Err(err).Msg("Failed to create API handler")
	}

	mwCfg := api.DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwCfg.RateLimitRequests = cfg.Security.RateLimitReqs
	mwCfg.RateLimitWindow = cfg.Security.RateLimitWindow
	mwCfg.RateLimitDisabled = cfg.Security.RateLimitDisabled
	router := api.NewRouter(handler, api.NewChiMiddleware(mwCfg))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree.AddMessagingService(hub)
	tree.AddMessagingService(events.NewConsumer(bus, logging.WithComponent("events"), handlers...))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	logging.Info().Msg("Dishpick stopped")
}

// originsForWebSocket drops the CORS wildcard so that websocket upgrades fall
// back to same-host checking unless origins are listed explicitly.
func originsForWebSocket(cors []string) []string {
	out := make([]string, 0, len(cors))
	for _, o := range cors {
		if o != "*" {
			out = append(out, o)
		}
	}
	return out
}
