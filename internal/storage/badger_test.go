// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package storage

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
)

func TestOpen_InMemory(t *testing.T) {
	db, err := Open(Options{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	err = db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("k"), []byte("v"))
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	passes, err := RunGC(db, 0.5)
	if err != nil {
		t.Errorf("RunGC() on in-memory db error = %v", err)
	}
	if passes != 0 {
		t.Errorf("RunGC() passes = %d, want 0", passes)
	}
}

func TestOpen_Disk(t *testing.T) {
	db, err := Open(Options{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if _, err := RunGC(db, 0); err != nil {
		t.Errorf("RunGC() error = %v", err)
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(Options{}); err == nil {
		t.Error("Open() without path should fail")
	}
}
