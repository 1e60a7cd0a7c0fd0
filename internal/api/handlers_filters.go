// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/dishpick/internal/filterstore"
	"github.com/tomtom215/dishpick/internal/validation"
)

// filterScope reads the client and page of a filter request. It writes the
// error response itself and reports false on failure.
func filterScope(rw *ResponseWriter, r *http.Request) (string, filterstore.Page, bool) {
	client, err := clientID(r)
	if err != nil {
		rw.Fail(err)
		return "", "", false
	}
	page, err := filterstore.ParsePage(chi.URLParam(r, "page"))
	if err != nil {
		rw.Fail(err)
		return "", "", false
	}
	return client, page, true
}

// GetFilters returns the saved filters of a page, read on page entry.
func (h *Handler) GetFilters(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	client, page, ok := filterScope(rw, r)
	if !ok {
		return
	}
	state, err := h.filters.Get(r.Context(), client, page)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(state)
}

// PutFilters saves the filters of a page, written on submit.
func (h *Handler) PutFilters(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	client, page, ok := filterScope(rw, r)
	if !ok {
		return
	}

	var req FilterStateRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		rw.Fail(err)
		return
	}
	if page == filterstore.PageTakeout && req.Cooking != nil {
		rw.BadRequest("cooking options only apply to the cooking page")
		return
	}

	state := req.toState()
	if err := h.filters.Save(r.Context(), client, page, state); err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(state)
}

// DeleteFilters clears the filters of a page ("reselect").
func (h *Handler) DeleteFilters(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	client, page, ok := filterScope(rw, r)
	if !ok {
		return
	}
	if err := h.filters.Delete(r.Context(), client, page); err != nil {
		rw.Fail(err)
		return
	}
	rw.NoContent()
}
