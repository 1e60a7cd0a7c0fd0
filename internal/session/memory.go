// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/dishpick/internal/recommend"
)

type memoryEntry struct {
	sess      *recommend.Session
	expiresAt time.Time
}

// MemoryStore implements Store in process memory. Expired entries are
// dropped lazily on access and by CleanupExpired.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates an empty store. A non-positive ttl uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create stores a fresh session.
func (s *MemoryStore) Create(ctx context.Context) (*recommend.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	sess := recommend.NewSession(uuid.New().String(), now.UTC())

	s.mu.Lock()
	s.sessions[sess.ID] = memoryEntry{sess: sess.Clone(), expiresAt: now.Add(s.ttl)}
	s.mu.Unlock()
	return sess, nil
}

// Get returns a copy of the session with id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*recommend.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookupLocked(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e.sess.Clone(), nil
}

// Save overwrites an existing session.
func (s *MemoryStore) Save(ctx context.Context, sess *recommend.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookupLocked(sess.ID); !ok {
		return ErrSessionNotFound
	}
	now := s.now()
	sess.UpdatedAt = now.UTC()
	s.sessions[sess.ID] = memoryEntry{sess: sess.Clone(), expiresAt: now.Add(s.ttl)}
	return nil
}

// Delete removes the session with id.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// CleanupExpired drops expired sessions and returns how many were removed.
func (s *MemoryStore) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if now.After(e.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// lookupLocked requires s.mu.
func (s *MemoryStore) lookupLocked(id string) (memoryEntry, bool) {
	e, ok := s.sessions[id]
	if !ok {
		return memoryEntry{}, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.sessions, id)
		return memoryEntry{}, false
	}
	return e, true
}
