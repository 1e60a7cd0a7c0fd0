// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package services

import (
	"context"
	"errors"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/dishpick/internal/logging"
)

// ErrNATSServerStopped is returned when the embedded server dies on its own.
var ErrNATSServerStopped = errors.New("embedded NATS server stopped")

// NATSServer is the lifecycle of events.EmbeddedServer.
type NATSServer interface {
	IsRunning() bool
	Shutdown(ctx context.Context) error
}

// NATSServerService owns an embedded NATS server that was started before
// the bus connected to it. It watches the server and shuts it down when the
// tree stops.
type NATSServerService struct {
	server          NATSServer
	checkInterval   time.Duration
	shutdownTimeout time.Duration
}

// NewNATSServerService wraps a running server.
func NewNATSServerService(server NATSServer) *NATSServerService {
	return &NATSServerService{
		server:          server,
		checkInterval:   5 * time.Second,
		shutdownTimeout: 10 * time.Second,
	}
}

// Serve implements suture.Service. A server that stopped by itself cannot be
// restarted in place, since clients hold its URL, so the service is not
// restarted either.
func (s *NATSServerService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer cancel()
			if err := s.server.Shutdown(shutdownCtx); err != nil {
				logging.Warn().Err(err).Msg("embedded NATS server shutdown")
			}
			return ctx.Err()
		case <-ticker.C:
			if !s.server.IsRunning() {
				logging.Error().Msg("embedded NATS server is no longer running")
				return errors.Join(ErrNATSServerStopped, suture.ErrDoNotRestart)
			}
		}
	}
}

func (s *NATSServerService) String() string {
	return "nats-server"
}
