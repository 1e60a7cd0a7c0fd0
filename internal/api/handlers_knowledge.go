// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package api

import (
	"net/http"

	"github.com/tomtom215/dishpick/internal/catalog"
)

// GetKnowledge returns the dietary knowledge for ?condition=&phase=.
// The condition defaults to functional dyspepsia.
func (h *Handler) GetKnowledge(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q := r.URL.Query()

	phase := q.Get("phase")
	if phase == "" {
		rw.BadRequest("phase is required")
		return
	}
	condition := q.Get("condition")
	if condition == "" {
		condition = catalog.ConditionFunctionalDyspepsia
	}

	k, err := catalog.PhaseKnowledge(condition, phase)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(k)
}

// GetFilterOptions returns the selectable filter values.
func (h *Handler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(catalog.FilterOptions())
}
