// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/dishpick/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw uses the default middleware config.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// Handler builds the route tree.
func (router *Router) Handler() http.Handler {
	h := router.handler
	mw := router.chiMiddleware

	r := chi.NewRouter()

	// Global middleware, in order
	r.Use(middleware.RequestIDWithLogging)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(mw.CORS()) // global so OPTIONS preflight is answered everywhere

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(mw.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)

		// The live feed is hijacked, so it stays out of compression.
		r.With(mw.RateLimitCustom(RateLimitWebSocket)).Get("/ws", h.WebSocket)

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit())
			r.Use(APISecurityHeaders)
			r.Use(chimiddleware.Compress(5, "application/json"))

			r.Route("/dishes", func(r chi.Router) {
				r.Get("/", h.ListDishes)
				r.Get("/{id}", h.GetDish)
				r.Get("/{id}/health", h.GetDishHealth)
				r.Get("/{id}/enrichment", h.GetDishEnrichment)
			})

			r.Get("/knowledge", h.GetKnowledge)

			r.Route("/filters", func(r chi.Router) {
				r.Get("/options", h.GetFilterOptions)
				r.Get("/{page}", h.GetFilters)
				r.Put("/{page}", h.PutFilters)
				r.Delete("/{page}", h.DeleteFilters)
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", h.CreateSession)
				r.Get("/{id}", h.GetSession)
				r.Delete("/{id}", h.DeleteSession)
				r.With(mw.RateLimitCustom(RateLimitRecommend)).Post("/{id}/recommendations", h.RecommendForSession)
			})

			r.Route("/stats", func(r chi.Router) {
				r.Get("/popular", h.StatsPopular)
				r.Get("/stages", h.StatsStages)
				r.Get("/summary", h.StatsSummary)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
