// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/dishpick/internal/catalog"
	"github.com/tomtom215/dishpick/internal/events"
	"github.com/tomtom215/dishpick/internal/filterstore"
	"github.com/tomtom215/dishpick/internal/logging"
	"github.com/tomtom215/dishpick/internal/metrics"
	"github.com/tomtom215/dishpick/internal/recommend"
	"github.com/tomtom215/dishpick/internal/validation"
)

// CreateSession starts a new recommendation session.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	sess, err := h.sessions.Create(r.Context())
	if err != nil {
		rw.Fail(err)
		return
	}
	logging.Ctx(r.Context()).Debug().Str("session_id", sess.ID).Msg("session created")
	rw.Created(sess)
}

// GetSession returns a session with its history.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	sess, err := h.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(sess)
}

// DeleteSession ends a session.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if err := h.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		rw.Fail(err)
		return
	}
	rw.NoContent()
}

// Recommendation is the body of a successful recommend call.
type Recommendation struct {
	Dish         catalog.Dish      `json:"dish"`
	Session      recommend.Session `json:"session"`
	Stage        recommend.Stage   `json:"stage"`
	PoolSize     int               `json:"pool_size"`
	Weight       float64           `json:"weight"`
	HistoryReset bool              `json:"history_reset"`
}

// RecommendForSession draws the next dish for a session.
//
// Calls on one session are serialized: an overlapping call gets 409. The
// whole call, pacing included, runs under RecommendTimeout. On timeout the
// session is left as it was.
func (h *Handler) RecommendForSession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id := chi.URLParam(r, "id")

	release, ok := h.guard.TryAcquire(id)
	if !ok {
		rw.Fail(ErrRecommendationInProgress)
		return
	}
	defer release()

	var req RecommendRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		rw.Fail(err)
		return
	}

	ctx, cancel := context.WithTimeout(logging.ContextWithSessionID(r.Context(), id), h.config.RecommendTimeout)
	defer cancel()

	sess, err := h.sessions.Get(ctx, id)
	if err != nil {
		rw.Fail(err)
		return
	}

	criteria, err := h.criteriaFor(ctx, r, &req)
	if err != nil {
		rw.Fail(err)
		return
	}

	result, err := h.engine.Recommend(ctx, h.catalog.All(), criteria, *sess)
	if err != nil {
		h.failRecommend(ctx, rw, err)
		return
	}

	if err := h.pace(ctx); err != nil {
		h.failRecommend(ctx, rw, err)
		return
	}

	if err := h.sessions.Save(ctx, &result.Session); err != nil {
		h.failRecommend(ctx, rw, err)
		return
	}

	h.publish(ctx, &req, result)

	rw.Success(Recommendation{
		Dish:         result.Dish,
		Session:      result.Session,
		Stage:        result.Stage,
		PoolSize:     result.PoolSize,
		Weight:       result.Weight,
		HistoryReset: result.HistoryReset,
	})
}

// criteriaFor picks the filters of a recommend call: the request body first,
// then the filters saved for the page, then none.
func (h *Handler) criteriaFor(ctx context.Context, r *http.Request, req *RecommendRequest) (recommend.Criteria, error) {
	if req.Criteria != nil {
		return req.Criteria.toCriteria(), nil
	}
	if req.Page == "" {
		return recommend.Criteria{}.Normalize(), nil
	}

	page, err := filterstore.ParsePage(req.Page)
	if err != nil {
		return recommend.Criteria{}, err
	}
	client, err := clientID(r)
	if err != nil {
		return recommend.Criteria{}, err
	}
	state, err := h.filters.Get(ctx, client, page)
	if errors.Is(err, filterstore.ErrNotFound) {
		return recommend.Criteria{}.Normalize(), nil
	}
	if err != nil {
		return recommend.Criteria{}, err
	}
	return state.Criteria.Normalize(), nil
}

// pace holds the answer back for RecommendDelay, giving up when ctx ends.
func (h *Handler) pace(ctx context.Context) error {
	if h.config.RecommendDelay <= 0 {
		return nil
	}
	t := time.NewTimer(h.config.RecommendDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Handler) failRecommend(ctx context.Context, rw *ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		metrics.RecommendationTimeouts.Inc()
		logging.Ctx(ctx).Warn().Dur("timeout", h.config.RecommendTimeout).Msg("recommendation timed out")
		err = ErrRecommendationTimeout
	}
	rw.Fail(err)
}

// publish emits the recommendation event. Failures are logged only; the
// pick has already been saved.
func (h *Handler) publish(ctx context.Context, req *RecommendRequest, result *recommend.Result) {
	if h.publisher == nil {
		return
	}
	e := events.NewDishRecommended(result.Session.ID, result.Dish.ID, result.Dish.Name, string(result.Stage), result.PoolSize)
	e.HistoryReset = result.HistoryReset
	e.Page = req.Page

	if err := h.publisher.PublishDishRecommended(context.WithoutCancel(ctx), e); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("event_id", e.EventID).Msg("failed to publish recommendation event")
	}
}
