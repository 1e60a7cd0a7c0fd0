// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

/*
Package supervisor runs the long-lived parts of Dishpick under suture v4.

# Overview

	RootSupervisor ("dishpick")
	├── DataSupervisor ("data-layer")
	│   └── StorageGCService (badger backend only)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── NATSServerService (embedded NATS only)
	│   ├── events.Consumer
	│   └── websocket.Hub
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Each layer restarts its own children with backoff, so a crashing consumer
does not take the HTTP server down with it. Supervisor events are logged
through sutureslog into the zerolog-backed slog handler.

# Usage

	tree, _ := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMessagingService(hub)
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))
	err := tree.Serve(ctx) // returns after ctx is canceled and children stop
*/
package supervisor
