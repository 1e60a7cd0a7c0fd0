// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthStatus is the body of the health endpoints.
type HealthStatus struct {
	Status        string            `json:"status"`
	Version       string            `json:"version,omitempty"`
	UptimeSeconds float64           `json:"uptime_seconds"`
	Dishes        int               `json:"dishes"`
	Checks        map[string]string `json:"checks,omitempty"`
}

// HealthLive reports that the process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(HealthStatus{
		Status:        "alive",
		Version:       h.config.Version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Dishes:        h.catalog.Len(),
	})
}

// HealthReady reports whether the catalog is loaded and every store answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:        "ready",
		Version:       h.config.Version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Dishes:        h.catalog.Len(),
		Checks:        make(map[string]string, len(h.checks)+1),
	}

	ready := h.catalog.Len() > 0
	status.Checks["catalog"] = "ok"
	if !ready {
		status.Checks["catalog"] = "empty"
	}
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			status.Checks[c.Name] = err.Error()
			ready = false
			continue
		}
		status.Checks[c.Name] = "ok"
	}

	rw := NewResponseWriter(w, r)
	if !ready {
		status.Status = "not_ready"
		rw.Error(http.StatusServiceUnavailable, &APIError{
			Code:      ErrCodeServiceUnavailable,
			Message:   "service not ready",
			Details:   status,
			Retryable: true,
		})
		return
	}
	rw.Success(status)
}
