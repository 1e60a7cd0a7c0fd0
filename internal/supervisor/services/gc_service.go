// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package services

import (
	"context"
	"time"

	"github.com/tomtom215/dishpick/internal/logging"
	"github.com/tomtom215/dishpick/internal/metrics"
)

// GCFunc runs one garbage collection round and reports how many passes
// rewrote data. storage.RunGC bound to a database satisfies it.
type GCFunc func() (int, error)

// StorageGCService runs value-log GC on a fixed interval. A failed round is
// logged and counted; it does not stop the service.
type StorageGCService struct {
	gc       GCFunc
	interval time.Duration
}

// NewStorageGCService creates the service. A non-positive interval means 5m.
func NewStorageGCService(gc GCFunc, interval time.Duration) *StorageGCService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &StorageGCService{gc: gc, interval: interval}
}

// Serve implements suture.Service.
func (s *StorageGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *StorageGCService) runOnce() {
	passes, err := s.gc()
	switch {
	case err != nil:
		metrics.StorageGCRuns.WithLabelValues("error").Inc()
		logging.Warn().Err(err).Int("passes", passes).Msg("storage GC failed")
	case passes > 0:
		metrics.StorageGCRuns.WithLabelValues("rewritten").Inc()
		logging.Debug().Int("passes", passes).Msg("storage GC rewrote value log")
	default:
		metrics.StorageGCRuns.WithLabelValues("nothing").Inc()
	}
}

func (s *StorageGCService) String() string {
	return "storage-gc"
}
