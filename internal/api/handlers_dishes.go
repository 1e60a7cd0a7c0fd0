// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/dishpick/internal/catalog"
	"github.com/tomtom215/dishpick/internal/enrich"
	"github.com/tomtom215/dishpick/internal/logging"
)

// DishList is the body of GET /dishes.
type DishList struct {
	Dishes []catalog.Dish `json:"dishes"`
	Count  int            `json:"count"`
	Query  string         `json:"query,omitempty"`
}

// ListDishes returns the catalog, or the dishes matching ?q=.
func (h *Handler) ListDishes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	dishes := h.catalog.All()
	if q != "" {
		dishes = h.catalog.Search(q)
	}
	if dishes == nil {
		dishes = []catalog.Dish{}
	}
	NewResponseWriter(w, r).Success(DishList{Dishes: dishes, Count: len(dishes), Query: q})
}

// GetDish returns one dish. An unknown id is 404 with a redirect hint.
func (h *Handler) GetDish(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	d, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(d)
}

// DishHealth is the nutrition side panel of a dish.
type DishHealth struct {
	DishID    string             `json:"dish_id"`
	Nutrition *catalog.Nutrition `json:"nutrition"`
	Warning   *string            `json:"warning"`
	Exercise  []catalog.Exercise `json:"exercise"`
	Water     *catalog.Water     `json:"water"`
}

// GetDishHealth returns exercise equivalents and water intake for a dish.
func (h *Handler) GetDishHealth(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	d, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		rw.Fail(err)
		return
	}

	out := DishHealth{DishID: d.ID, Nutrition: d.Nutrition}
	if d.Nutrition != nil {
		out.Exercise = catalog.ExerciseEquivalents()
	}
	if d.Safety != nil {
		out.Warning = d.Safety.Warning
		water := catalog.WaterIntake(d.Safety.WaterIndex)
		out.Water = &water
	}
	rw.Success(out)
}

// Notice is a non-blocking message shown next to otherwise complete data.
type Notice struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// NoticeEnrichmentUnavailable marks a failed enrichment lookup.
const NoticeEnrichmentUnavailable = "ENRICHMENT_UNAVAILABLE"

// DishEnrichment is the body of GET /dishes/{id}/enrichment.
type DishEnrichment struct {
	DishID     string         `json:"dish_id"`
	Source     string         `json:"source"`
	Enrichment *enrich.Record `json:"enrichment"`
	Notice     *Notice        `json:"notice,omitempty"`
}

// GetDishEnrichment looks up remote details for a dish. Failures never fail
// the request: the response carries a notice and enrichment is null.
func (h *Handler) GetDishEnrichment(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	d, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		rw.Fail(err)
		return
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		source = enrich.SourceTakeout
	}
	out := DishEnrichment{DishID: d.ID, Source: source}

	if h.enricher == nil {
		out.Notice = &Notice{Code: NoticeEnrichmentUnavailable, Message: "enrichment is disabled"}
		rw.Success(out)
		return
	}

	rec, err := h.enricher.Lookup(r.Context(), source, d.ID)
	switch {
	case errors.Is(err, enrich.ErrUnknownSource):
		rw.Fail(err)
		return
	case err != nil:
		logging.Ctx(r.Context()).Debug().Err(err).Str("dish_id", d.ID).Msg("enrichment unavailable")
		out.Notice = &Notice{
			Code:      NoticeEnrichmentUnavailable,
			Message:   "additional details are temporarily unavailable",
			Retryable: true,
		}
	default:
		out.Enrichment = rec
	}
	rw.Success(out)
}
