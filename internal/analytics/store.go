// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

// Package analytics stores recommendation events in DuckDB and answers
// popularity and fallback-stage questions about them.
package analytics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/dishpick/internal/events"
)

// DefaultQueryTimeout bounds each analytics query.
const DefaultQueryTimeout = 10 * time.Second

// ErrClosed is returned after Close.
var ErrClosed = errors.New("analytics store is closed")

const schema = `
CREATE TABLE IF NOT EXISTS recommendation_events (
	event_id      VARCHAR PRIMARY KEY,
	session_id    VARCHAR NOT NULL,
	dish_id       VARCHAR NOT NULL,
	dish_name     VARCHAR NOT NULL,
	stage         VARCHAR NOT NULL,
	pool_size     INTEGER NOT NULL,
	history_reset BOOLEAN NOT NULL DEFAULT false,
	page          VARCHAR,
	created_at    TIMESTAMP NOT NULL
)`

// Config configures Store.
type Config struct {
	// Path is the DuckDB file. Empty means in-memory.
	Path string
}

// DishCount is one row of the popularity ranking.
type DishCount struct {
	DishID   string `json:"dish_id"`
	DishName string `json:"dish_name"`
	Count    int64  `json:"count"`
}

// StageCount is how often a fallback stage produced the pick.
type StageCount struct {
	Stage string `json:"stage"`
	Count int64  `json:"count"`
}

// Summary aggregates all recorded events.
type Summary struct {
	Events        int64 `json:"events"`
	Sessions      int64 `json:"sessions"`
	HistoryResets int64 `json:"history_resets"`
}

// Store is the DuckDB-backed analytics sink. It implements events.Handler.
type Store struct {
	conn   *sql.DB
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

var _ events.Handler = (*Store)(nil)

// Open opens (or creates) the database and applies the schema.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	// Extensions are not needed; keep DuckDB from reaching the network.
	connStr := path + "?autoinstall_known_extensions=false&autoload_known_extensions=false"

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open analytics database: %w", err)
	}
	// one writer keeps inserts serialized
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create analytics schema: %w", err)
	}

	s := &Store{
		conn:   conn,
		logger: logger.With().Str("component", "analytics").Logger(),
	}
	s.logger.Info().Str("path", path).Msg("analytics store opened")
	return s, nil
}

// Name implements events.Handler.
func (s *Store) Name() string {
	return "analytics"
}

// HandleDishRecommended implements events.Handler.
func (s *Store) HandleDishRecommended(ctx context.Context, e *events.DishRecommended) error {
	return s.Record(ctx, e)
}

// Record inserts e. Recording the same event id twice is a no-op, so
// redelivered events are not counted again.
func (s *Store) Record(ctx context.Context, e *events.DishRecommended) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	var page sql.NullString
	if e.Page != "" {
		page = sql.NullString{String: e.Page, Valid: true}
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO recommendation_events
			(event_id, session_id, dish_id, dish_name, stage, pool_size, history_reset, page, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (event_id) DO NOTHING`,
		e.EventID, e.SessionID, e.DishID, e.DishName, e.Stage, e.PoolSize, e.HistoryReset, page, e.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert recommendation event: %w", err)
	}
	return nil
}

// PopularDishes returns the most recommended dishes, most frequent first.
// Ties are broken by dish id.
func (s *Store) PopularDishes(ctx context.Context, limit int) ([]DishCount, error) {
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	rows, err := s.conn.QueryContext(ctx, `
		SELECT dish_id, arg_max(dish_name, created_at) AS dish_name, COUNT(*) AS n
		FROM recommendation_events
		GROUP BY dish_id
		ORDER BY n DESC, dish_id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query popular dishes: %w", err)
	}
	defer rows.Close()

	result := make([]DishCount, 0, limit)
	for rows.Next() {
		var dc DishCount
		if err := rows.Scan(&dc.DishID, &dc.DishName, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan popular dish: %w", err)
		}
		result = append(result, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate popular dishes: %w", err)
	}
	return result, nil
}

// StageCounts returns how often each fallback stage produced the pick,
// most frequent first.
func (s *Store) StageCounts(ctx context.Context) ([]StageCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	rows, err := s.conn.QueryContext(ctx, `
		SELECT stage, COUNT(*) AS n
		FROM recommendation_events
		GROUP BY stage
		ORDER BY n DESC, stage ASC`)
	if err != nil {
		return nil, fmt.Errorf("query stage counts: %w", err)
	}
	defer rows.Close()

	var result []StageCount
	for rows.Next() {
		var sc StageCount
		if err := rows.Scan(&sc.Stage, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan stage count: %w", err)
		}
		result = append(result, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stage counts: %w", err)
	}
	return result, nil
}

// Summary returns totals over all recorded events.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Summary{}, ErrClosed
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	var sum Summary
	err := s.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT session_id),
			COUNT(*) FILTER (WHERE history_reset)
		FROM recommendation_events`).Scan(&sum.Events, &sum.Sessions, &sum.HistoryResets)
	if err != nil {
		return Summary{}, fmt.Errorf("query summary: %w", err)
	}
	return sum, nil
}

// Ping checks the connection, for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return s.conn.PingContext(ctx)
}

// Close closes the database. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
