// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package api

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/dishpick/internal/analytics"
	"github.com/tomtom215/dishpick/internal/recommend"
)

const (
	defaultPopularLimit = 10
	maxPopularLimit     = 100
)

// PopularDishes is the body of GET /stats/popular.
type PopularDishes struct {
	Dishes []analytics.DishCount `json:"dishes"`
	Limit  int                   `json:"limit"`
}

// StatsPopular returns the most recommended dishes.
func (h *Handler) StatsPopular(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.stats == nil {
		rw.Fail(ErrAnalyticsDisabled)
		return
	}

	limit := defaultPopularLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxPopularLimit {
			rw.BadRequest("limit must be an integer between 1 and 100")
			return
		}
		limit = n
	}

	dishes, err := h.stats.PopularDishes(r.Context(), limit)
	if err != nil {
		rw.Fail(err)
		return
	}
	if dishes == nil {
		dishes = []analytics.DishCount{}
	}
	rw.Success(PopularDishes{Dishes: dishes, Limit: limit})
}

// StageStats is the body of GET /stats/stages.
type StageStats struct {
	Stages []analytics.StageCount `json:"stages"`
	Engine recommend.Stats        `json:"engine"`
}

// StatsStages returns how often each fallback stage produced the pick,
// together with the in-process engine counters.
func (h *Handler) StatsStages(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.stats == nil {
		rw.Fail(ErrAnalyticsDisabled)
		return
	}
	stages, err := h.stats.StageCounts(r.Context())
	if err != nil {
		rw.Fail(err)
		return
	}
	if stages == nil {
		stages = []analytics.StageCount{}
	}
	rw.Success(StageStats{Stages: stages, Engine: h.engine.Stats()})
}

// StatsSummary returns event, session and reset totals.
func (h *Handler) StatsSummary(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.stats == nil {
		rw.Fail(ErrAnalyticsDisabled)
		return
	}
	sum, err := h.stats.Summary(r.Context())
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(sum)
}
