// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

/*
Package main is the Dishpick server.

Dishpick answers "what should I eat?" with a weighted random pick from a
small dish catalog, honoring allergens, foods to avoid and disease-related
restrictions, and remembering recent picks per session.

# Process Layout

	RootSupervisor ("dishpick")
	├── DataSupervisor ("data-layer")
	│   └── storage GC (badger) or session sweep (memory)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── embedded NATS server (events.embedded)
	│   ├── event consumer (analytics + live feed)
	│   └── websocket hub
	└── APISupervisor ("api-layer")
	    └── HTTP server

Start-up order:

 1. Configuration (koanf: defaults, config.yaml, environment)
 2. Logging (zerolog)
 3. Catalog and selection engine
 4. Storage: badger, or in-process maps with storage.backend=memory
 5. Enrichment sources behind a rate limiter and circuit breakers
 6. Event bus (watermill gochannel, or NATS with an optional embedded server)
 7. DuckDB analytics store
 8. Websocket hub, event consumer, HTTP router
 9. Supervisor tree, until SIGINT or SIGTERM

# Example

	export STORAGE_BACKEND=memory
	export EVENTS_BACKEND=nats
	export NATS_EMBEDDED=true
	./dishpick
*/
package main
