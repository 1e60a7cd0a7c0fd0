// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package filterstore

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// MemoryStore implements Store in process memory. Values are kept encoded so
// callers never share state with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
	now  func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte), now: time.Now}
}

// Get returns the saved state for client and page.
func (s *MemoryStore) Get(ctx context.Context, client string, page Page) (*State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, ok := s.data[Key(client, page)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Save stores state for client and page.
func (s *MemoryStore) Save(ctx context.Context, client string, page Page, state *State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	state.UpdatedAt = s.now().UTC()
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data[Key(client, page)] = data
	s.mu.Unlock()
	return nil
}

// Delete removes the state for client and page.
func (s *MemoryStore) Delete(ctx context.Context, client string, page Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.data, Key(client, page))
	s.mu.Unlock()
	return nil
}

// Count returns how many filter states are stored.
func (s *MemoryStore) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}
