// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package analytics

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/dishpick/internal/events"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), Config{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func record(t *testing.T, s *Store, session, dishID, name, stage string, reset bool) {
	t.Helper()
	e := events.NewDishRecommended(session, dishID, name, stage, 3)
	e.HistoryReset = reset
	if err := s.Record(context.Background(), e); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
}

func TestStore_PopularDishes(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	record(t, s, "s1", "gd-1", "白切鸡", "full", false)
	record(t, s, "s1", "gd-2", "虾饺", "full", false)
	record(t, s, "s2", "gd-1", "白切鸡", "relaxed", false)
	record(t, s, "s2", "gd-3", "清蒸鱼", "full-catalog", true)
	record(t, s, "s3", "gd-1", "白切鸡", "full", false)

	got, err := s.PopularDishes(context.Background(), 2)
	if err != nil {
		t.Fatalf("PopularDishes() error = %v", err)
	}
	want := []DishCount{
		{DishID: "gd-1", DishName: "白切鸡", Count: 3},
		{DishID: "gd-2", DishName: "虾饺", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("PopularDishes() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PopularDishes()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestStore_StageCountsAndSummary(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	stages, err := s.StageCounts(ctx)
	if err != nil {
		t.Fatalf("StageCounts() on empty store error = %v", err)
	}
	if len(stages) != 0 {
		t.Errorf("StageCounts() on empty store = %+v, want none", stages)
	}

	record(t, s, "s1", "gd-1", "a", "full", false)
	record(t, s, "s1", "gd-2", "b", "full", false)
	record(t, s, "s2", "gd-3", "c", "full-catalog", true)

	stages, err = s.StageCounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []StageCount{{Stage: "full", Count: 2}, {Stage: "full-catalog", Count: 1}}
	if len(stages) != len(want) || stages[0] != want[0] || stages[1] != want[1] {
		t.Errorf("StageCounts() = %+v, want %+v", stages, want)
	}

	sum, err := s.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sum != (Summary{Events: 3, Sessions: 2, HistoryResets: 1}) {
		t.Errorf("Summary() = %+v", sum)
	}
}

func TestStore_RecordIsIdempotent(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()
	e := events.NewDishRecommended("s1", "gd-1", "白切鸡", "full", 5)
	for i := 0; i < 3; i++ {
		if err := s.HandleDishRecommended(ctx, e); err != nil {
			t.Fatalf("HandleDishRecommended() error = %v", err)
		}
	}
	sum, err := s.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Events != 1 {
		t.Errorf("Events = %d, want 1", sum.Events)
	}
}

func TestStore_RejectsInvalidEvent(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	err := s.Record(context.Background(), &events.DishRecommended{DishID: "gd-1"})
	if !errors.Is(err, events.ErrInvalidEvent) {
		t.Errorf("Record() error = %v, want ErrInvalidEvent", err)
	}
}

func TestStore_Closed(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Config{}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := s.PopularDishes(context.Background(), 5); !errors.Is(err, ErrClosed) {
		t.Errorf("PopularDishes() after Close error = %v, want ErrClosed", err)
	}
	if err := s.Ping(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Ping() after Close error = %v, want ErrClosed", err)
	}
}

func TestStore_PersistsToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "analytics.duckdb")
	ctx := context.Background()

	s, err := Open(ctx, Config{Path: path}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	record(t, s, "s1", "gd-5", "x", "full", false)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(ctx, Config{Path: path}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	sum, err := s.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Events != 1 {
		t.Errorf("Events after reopen = %d, want 1", sum.Events)
	}
}
