// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

// Package storage opens the BadgerDB instance shared by the filter and
// session stores and runs its value-log garbage collection.
package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// DefaultGCRatio is the discard ratio passed to RunValueLogGC.
const DefaultGCRatio = 0.5

// Options configures Open.
type Options struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in RAM; nothing survives a restart.
	InMemory bool

	// SyncWrites fsyncs every write. Filter state and sessions can be
	// recreated by the user, so the default is off.
	SyncWrites bool
}

// Open opens a badger database. Badger's own logger is disabled.
func Open(opts Options) (*badger.DB, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, errors.New("storage path is required when not in memory")
		}
		bopts = badger.DefaultOptions(opts.Path)
		bopts.Compression = options.Snappy
	}
	bopts.SyncWrites = opts.SyncWrites
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}

// RunGC runs value-log GC until badger reports nothing left to rewrite.
// It returns the number of successful passes. In-memory databases have no
// value log and always return zero.
func RunGC(db *badger.DB, ratio float64) (int, error) {
	if ratio <= 0 || ratio >= 1 {
		ratio = DefaultGCRatio
	}
	passes := 0
	for {
		err := db.RunValueLogGC(ratio)
		switch {
		case err == nil:
			passes++
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
			return passes, nil
		default:
			return passes, fmt.Errorf("run GC: %w", err)
		}
	}
}
