// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dishpick/internal/logging"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	// Code is machine-readable, e.g. NOT_FOUND.
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`

	// Retryable tells the client the same request may succeed later.
	Retryable bool `json:"retryable"`
}

// APIMeta is attached to every response.
type APIMeta struct {
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}

// Error codes.
const (
	ErrCodeBadRequest               = "BAD_REQUEST"
	ErrCodeValidation               = "VALIDATION_ERROR"
	ErrCodeNotFound                 = "NOT_FOUND"
	ErrCodeRecommendationInProgress = "RECOMMENDATION_IN_PROGRESS"
	ErrCodeRecommendationTimeout    = "RECOMMENDATION_TIMEOUT"
	ErrCodeTooManyRequests          = "TOO_MANY_REQUESTS"
	ErrCodeInternal                 = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable       = "SERVICE_UNAVAILABLE"
)

// ResponseWriter writes enveloped responses for one request.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

// NewResponseWriter wraps w for r.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r, startTime: time.Now()}
}

func (rw *ResponseWriter) meta() *APIMeta {
	return &APIMeta{
		Timestamp:  time.Now().UTC(),
		RequestID:  logging.RequestIDFromContext(rw.r.Context()),
		DurationMs: time.Since(rw.startTime).Milliseconds(),
	}
}

// Success writes 200 with data.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.writeJSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: rw.meta()})
}

// Created writes 201 with data.
func (rw *ResponseWriter) Created(data interface{}) {
	rw.writeJSON(http.StatusCreated, APIResponse{Success: true, Data: data, Meta: rw.meta()})
}

// NoContent writes 204.
func (rw *ResponseWriter) NoContent() {
	rw.w.WriteHeader(http.StatusNoContent)
}

// Error writes an error envelope.
func (rw *ResponseWriter) Error(status int, apiErr *APIError) {
	rw.writeJSON(status, APIResponse{Success: false, Error: apiErr, Meta: rw.meta()})
}

// BadRequest writes 400 BAD_REQUEST.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, &APIError{Code: ErrCodeBadRequest, Message: message})
}

// NotFound writes 404 NOT_FOUND.
func (rw *ResponseWriter) NotFound(message string, details interface{}) {
	rw.Error(http.StatusNotFound, &APIError{Code: ErrCodeNotFound, Message: message, Details: details})
}

// ServiceUnavailable writes 503 SERVICE_UNAVAILABLE.
func (rw *ResponseWriter) ServiceUnavailable(message string) {
	rw.Error(http.StatusServiceUnavailable, &APIError{Code: ErrCodeServiceUnavailable, Message: message, Retryable: true})
}

// Fail maps err to a status and error code, see classify.
func (rw *ResponseWriter) Fail(err error) {
	status, apiErr := classify(err)
	if status >= http.StatusInternalServerError && apiErr.Code == ErrCodeInternal {
		logging.Ctx(rw.r.Context()).Error().Err(err).Str("path", rw.r.URL.Path).Msg("request failed")
	}
	rw.Error(status, apiErr)
}

func (rw *ResponseWriter) writeJSON(status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		rw.w.WriteHeader(http.StatusInternalServerError)
		return
	}
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.Header().Set("Cache-Control", "no-store")
	rw.w.WriteHeader(status)
	if _, err := rw.w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("failed to write JSON response")
	}
}
