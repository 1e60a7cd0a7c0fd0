// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

// Package session keeps recommendation sessions between HTTP calls.
//
// A session is the engine's explicit state: the recent history and the
// first-call flag. Sessions expire after a configurable TTL of inactivity.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/dishpick/internal/recommend"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// DefaultTTL is how long an idle session lives.
const DefaultTTL = 24 * time.Hour

const keyPrefix = "session:"

// Store persists sessions.
type Store interface {
	// Create starts a new session with empty history and IsFirst set.
	Create(ctx context.Context) (*recommend.Session, error)

	// Get returns the session, or ErrSessionNotFound.
	Get(ctx context.Context, id string) (*recommend.Session, error)

	// Save overwrites an existing session and refreshes its TTL.
	// It returns ErrSessionNotFound if the session was deleted or expired.
	Save(ctx context.Context, sess *recommend.Session) error

	// Delete ends the session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error
}
