// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

/*
Package services adapts Dishpick components to suture.Service.

Components with a Serve(ctx) method of their own (the websocket hub and the
event consumer) are added to the tree directly. The wrappers here cover the
rest:

  - HTTPServerService: ListenAndServe with graceful Shutdown
  - NATSServerService: owns an embedded NATS server started at boot
  - StorageGCService: periodic badger value-log GC

Every wrapper returns ctx.Err() on a clean stop so suture does not count it
as a failure, and implements fmt.Stringer for the supervisor's log lines.
*/
package services
