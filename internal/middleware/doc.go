// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

// Package middleware holds the HTTP middleware shared by the API router.
//
// All middleware has the chi signature func(http.Handler) http.Handler:
//
//   - RequestIDWithLogging: assigns X-Request-ID and puts request and
//     correlation IDs in the logging context
//   - PrometheusMetrics: request count, duration and in-flight gauge, labeled
//     by chi route pattern so path parameters do not explode cardinality
//   - AccessLog: one structured zerolog line per request
package middleware
