// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/dishpick/internal/recommend"
)

// BadgerStore implements Store on a shared BadgerDB. Expiry is enforced by
// badger entry TTLs, so expired sessions simply disappear.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration
	now func() time.Time
}

// NewBadgerStore wraps db. A non-positive ttl uses DefaultTTL.
func NewBadgerStore(db *badger.DB, ttl time.Duration) *BadgerStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &BadgerStore{db: db, ttl: ttl, now: time.Now}
}

// Create stores a fresh session.
func (s *BadgerStore) Create(ctx context.Context) (*recommend.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sess := recommend.NewSession(uuid.New().String(), s.now().UTC())
	err := s.db.Update(func(txn *badger.Txn) error {
		return s.set(txn, sess)
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Get returns the session with id.
func (s *BadgerStore) Get(ctx context.Context, id string) (*recommend.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sess recommend.Session
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sess)
		})
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// Save overwrites an existing session.
func (s *BadgerStore) Save(ctx context.Context, sess *recommend.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyPrefix + sess.ID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		sess.UpdatedAt = s.now().UTC()
		return s.set(txn, sess)
	})
}

// Delete removes the session with id.
func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(keyPrefix + id))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

func (s *BadgerStore) set(txn *badger.Txn, sess *recommend.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	e := badger.NewEntry([]byte(keyPrefix+sess.ID), data).WithTTL(s.ttl)
	return txn.SetEntry(e)
}
