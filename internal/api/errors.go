// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/dishpick/internal/catalog"
	"github.com/tomtom215/dishpick/internal/enrich"
	"github.com/tomtom215/dishpick/internal/filterstore"
	"github.com/tomtom215/dishpick/internal/recommend"
	"github.com/tomtom215/dishpick/internal/session"
	"github.com/tomtom215/dishpick/internal/validation"
)

var (
	// ErrRecommendationInProgress rejects a recommend call that overlaps
	// another one on the same session.
	ErrRecommendationInProgress = errors.New("a recommendation is already in progress for this session")

	// ErrRecommendationTimeout is returned when a recommend call runs past
	// its deadline. The session is left unchanged.
	ErrRecommendationTimeout = errors.New("recommendation timed out")

	// ErrInvalidClientID rejects a malformed X-Client-ID header.
	ErrInvalidClientID = errors.New("invalid " + ClientIDHeader + " header")

	// ErrAnalyticsDisabled is returned by stats endpoints when analytics is off.
	ErrAnalyticsDisabled = errors.New("analytics is disabled")
)

// homeRedirect is the hint sent with not-found dishes: go back to the start page.
const homeRedirect = "/"

// classify maps errors to HTTP statuses in one place.
func classify(err error) (int, *APIError) {
	var ve *validation.RequestValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, &APIError{Code: ErrCodeValidation, Message: ve.Error(), Details: ve.Details()}

	case errors.Is(err, catalog.ErrDishNotFound):
		return http.StatusNotFound, &APIError{
			Code:    ErrCodeNotFound,
			Message: "dish not found",
			Details: map[string]string{"redirect": homeRedirect},
		}
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound, &APIError{Code: ErrCodeNotFound, Message: "session not found"}
	case errors.Is(err, filterstore.ErrNotFound):
		return http.StatusNotFound, &APIError{Code: ErrCodeNotFound, Message: "no saved filters"}
	case errors.Is(err, catalog.ErrKnowledgeNotFound):
		return http.StatusNotFound, &APIError{Code: ErrCodeNotFound, Message: "no knowledge for this condition and phase"}

	case errors.Is(err, filterstore.ErrUnknownPage),
		errors.Is(err, enrich.ErrUnknownSource),
		errors.Is(err, ErrInvalidClientID):
		return http.StatusBadRequest, &APIError{Code: ErrCodeBadRequest, Message: err.Error()}

	case errors.Is(err, ErrRecommendationInProgress):
		return http.StatusConflict, &APIError{Code: ErrCodeRecommendationInProgress, Message: err.Error(), Retryable: true}
	case errors.Is(err, ErrRecommendationTimeout),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, &APIError{
			Code:      ErrCodeRecommendationTimeout,
			Message:   "recommendation timed out, please try again",
			Retryable: true,
		}

	case errors.Is(err, ErrAnalyticsDisabled):
		return http.StatusServiceUnavailable, &APIError{Code: ErrCodeServiceUnavailable, Message: err.Error()}

	case errors.Is(err, recommend.ErrEmptyCatalog):
		return http.StatusInternalServerError, &APIError{Code: ErrCodeInternal, Message: "no dishes available"}
	}
	return http.StatusInternalServerError, &APIError{Code: ErrCodeInternal, Message: "internal server error"}
}
