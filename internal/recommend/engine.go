// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/dishpick/internal/catalog"
	"github.com/tomtom215/dishpick/internal/metrics"
)

// ErrEmptyCatalog is returned when there is nothing to recommend from.
var ErrEmptyCatalog = errors.New("catalog is empty")

// Engine selects dishes. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	// Random source (protected by rngMu for concurrent access)
	rng   *rand.Rand
	rngMu sync.Mutex

	requestCount atomic.Int64
	resetCount   atomic.Int64
}

// Stats is a snapshot of engine counters.
type Stats struct {
	Requests      int64 `json:"requests"`
	HistoryResets int64 `json:"history_resets"`
}

// NewEngine creates a selection engine. A nil cfg uses DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // dish picking is not security sensitive
	}, nil
}

// Recommend draws one dish from dishes for sess under criteria.
//
// Neither dishes nor sess is modified; the updated session is returned in
// the Result. The history recorded there holds at most Config.HistorySize
// ids, oldest first.
//
//nolint:gocritic // hugeParam: criteria passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, dishes []catalog.Dish, criteria Criteria, sess Session) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.requestCount.Add(1)

	if len(dishes) == 0 {
		return nil, ErrEmptyCatalog
	}

	in := &stageInput{
		criteria: criteria,
		history:  sess.History,
		isFirst:  sess.IsFirst,
		excluded: e.config.StrictExcludedLevel,
	}
	pool, stage, reset := selectPool(dishes, in)

	// Weights use the incoming history even when the chain reset it.
	weights := make([]float64, len(pool))
	for i, d := range pool {
		weights[i] = e.weight(d, sess.History, sess.IsFirst)
	}
	idx := e.draw(weights)
	picked := pool[idx]

	next := sess
	next.History = e.nextHistory(sess.History, picked.ID, reset)
	next.IsFirst = false
	next.UpdatedAt = time.Now()

	if reset {
		e.resetCount.Add(1)
	}
	metrics.RecordRecommendation(string(stage), len(pool), reset)

	e.logger.Debug().
		Str("session_id", sess.ID).
		Str("dish_id", picked.ID).
		Str("stage", string(stage)).
		Int("pool_size", len(pool)).
		Bool("history_reset", reset).
		Msg("dish recommended")

	return &Result{
		Dish:         *picked,
		Session:      next,
		Stage:        stage,
		PoolSize:     len(pool),
		Weight:       weights[idx],
		HistoryReset: reset,
	}, nil
}

// weight applies the first matching rule: first call, recent history,
// medical condition tag, default. Factors never combine.
func (e *Engine) weight(d *catalog.Dish, history []string, isFirst bool) float64 {
	switch {
	case isFirst:
		return e.config.DefaultWeight
	case InHistory(d.ID, history):
		return e.config.HistoryWeight
	case d.HasTagCategory(catalog.TagMedicalCondition):
		return e.config.ConditionWeight
	default:
		return e.config.DefaultWeight
	}
}

// draw returns an index with probability proportional to its weight.
// weights must be non-empty.
func (e *Engine) draw(weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}

	e.rngMu.Lock()
	r := e.rng.Float64() * total
	e.rngMu.Unlock()

	var cum float64
	for i, w := range weights {
		cum += w
		if cum >= r {
			return i
		}
	}
	// rounding left r above the running sum
	return len(weights) - 1
}

// nextHistory appends id to history, or starts over from id after a reset,
// keeping only the newest HistorySize entries in a fresh slice.
func (e *Engine) nextHistory(history []string, id string, reset bool) []string {
	if reset {
		return []string{id}
	}
	out := make([]string, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, id)
	if n := len(out) - e.config.HistorySize; n > 0 {
		out = out[n:]
	}
	return out
}

// Stats returns engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests:      e.requestCount.Load(),
		HistoryResets: e.resetCount.Load(),
	}
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}
