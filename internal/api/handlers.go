// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

// Package api is the HTTP surface of Dishpick.
//
// Every JSON response uses the APIResponse envelope. Errors from the domain
// packages are mapped to status codes in errors.go and nowhere else.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dishpick/internal/analytics"
	"github.com/tomtom215/dishpick/internal/catalog"
	"github.com/tomtom215/dishpick/internal/enrich"
	"github.com/tomtom215/dishpick/internal/events"
	"github.com/tomtom215/dishpick/internal/filterstore"
	"github.com/tomtom215/dishpick/internal/recommend"
	"github.com/tomtom215/dishpick/internal/session"
	"github.com/tomtom215/dishpick/internal/websocket"
)

// ClientIDHeader scopes saved filter state to one client.
const ClientIDHeader = "X-Client-ID"

const (
	maxClientIDLength = 128
	maxBodyBytes      = 64 * 1024
)

// EventPublisher receives one event per recommendation.
type EventPublisher interface {
	PublishDishRecommended(ctx context.Context, e *events.DishRecommended) error
}

// Enricher performs guarded enrichment lookups.
type Enricher interface {
	Lookup(ctx context.Context, source, dishID string) (*enrich.Record, error)
	Sources() []string
}

// StatsStore answers analytics queries.
type StatsStore interface {
	PopularDishes(ctx context.Context, limit int) ([]analytics.DishCount, error)
	StageCounts(ctx context.Context) ([]analytics.StageCount, error)
	Summary(ctx context.Context) (analytics.Summary, error)
}

// ReadinessCheck is one dependency probed by /health/ready.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HandlerConfig tunes request handling.
type HandlerConfig struct {
	// RecommendTimeout bounds a recommend call, pacing included.
	RecommendTimeout time.Duration

	// RecommendDelay is the pacing pause before a pick is returned.
	RecommendDelay time.Duration

	// AllowedOrigins is checked on websocket upgrades. Empty allows same-host only.
	AllowedOrigins []string

	Version string
}

// Deps are the collaborators of Handler. Enricher, Publisher, Stats and Hub
// are optional.
type Deps struct {
	Catalog   *catalog.Catalog
	Engine    *recommend.Engine
	Sessions  session.Store
	Guard     *session.Guard
	Filters   filterstore.Store
	Enricher  Enricher
	Publisher EventPublisher
	Stats     StatsStore
	Hub       *websocket.Hub
	Checks    []ReadinessCheck
}

// Handler serves the API endpoints.
type Handler struct {
	catalog   *catalog.Catalog
	engine    *recommend.Engine
	sessions  session.Store
	guard     *session.Guard
	filters   filterstore.Store
	enricher  Enricher
	publisher EventPublisher
	stats     StatsStore
	hub       *websocket.Hub
	checks    []ReadinessCheck

	config    HandlerConfig
	startTime time.Time
}

// NewHandler validates deps and creates a Handler.
func NewHandler(deps Deps, cfg HandlerConfig) (*Handler, error) {
	switch {
	case deps.Catalog == nil:
		return nil, errors.New("api: catalog is required")
	case deps.Engine == nil:
		return nil, errors.New("api: engine is required")
	case deps.Sessions == nil:
		return nil, errors.New("api: session store is required")
	case deps.Filters == nil:
		return nil, errors.New("api: filter store is required")
	}
	if deps.Guard == nil {
		deps.Guard = session.NewGuard()
	}
	if cfg.RecommendTimeout <= 0 {
		cfg.RecommendTimeout = 3 * time.Second
	}

	return &Handler{
		catalog:   deps.Catalog,
		engine:    deps.Engine,
		sessions:  deps.Sessions,
		guard:     deps.Guard,
		filters:   deps.Filters,
		enricher:  deps.Enricher,
		publisher: deps.Publisher,
		stats:     deps.Stats,
		hub:       deps.Hub,
		checks:    deps.Checks,
		config:    cfg,
		startTime: time.Now(),
	}, nil
}

// clientID returns the X-Client-ID header or the default client.
func clientID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(ClientIDHeader))
	if id == "" {
		return filterstore.DefaultClient, nil
	}
	if len(id) > maxClientIDLength || strings.ContainsAny(id, ": \t\r\n") {
		return "", ErrInvalidClientID
	}
	return id, nil
}

// decodeJSON decodes an optional body into dst. An empty body leaves dst as is.
func decodeJSON(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return errors.New("request body too large")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
