// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

/*
Package supervisor runs the long-lived services under a suture v4 tree.

	RootSupervisor ("attackmap")
	├── "refresh-layer"
	│   └── RefreshService (refresh orchestrator)
	├── "messaging-layer"
	│   ├── WebSocketHubService
	│   └── snapshot forwarder (event bus -> hub)
	└── "api-layer"
	    └── HTTPServerService

Crashed services restart with backoff; each layer restarts independently,
so a failing event bus never takes the HTTP API down. Supervisor events are
logged through sutureslog, bridged to zerolog by logging.NewSlogLogger.

Service wrappers live in the services subpackage and adapt Start/Stop or
ListenAndServe/Shutdown lifecycles to suture's Serve(ctx) pattern.
*/
package supervisor
