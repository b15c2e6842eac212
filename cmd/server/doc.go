// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

/*
Package main is the entry point for the attackmap server.

The server periodically fetches the top attack origin/target pairs from the
Cloudflare Radar API, normalizes them into arcs, falls back to a synthetic feed
when the upstream is unavailable or empty, and serves the latest snapshot to
the dashboard.

# Startup Order

 1. Optional .env file (godotenv)
 2. Configuration (koanf: defaults, config file, environment)
 3. Logging (zerolog)
 4. Upstream client with rate limiting and circuit breaker
 5. Synthetic generator and refresh orchestrator
 6. Snapshot event bus (in-process, or NATS with -tags nats)
 7. WebSocket hub and snapshot forwarder
 8. HTTP server (chi)
 9. Supervisor tree (suture)

# Routes

	GET  /events                   latest snapshot {"arcs": [...], "meta": {...}}
	GET  /config                   {"mapboxToken": "..."}
	GET  /ws                       snapshot push channel
	GET  /api/v1/arcs              arcs with country names and coordinates
	GET  /api/v1/countries         country catalogue
	GET  /api/v1/status            refresh status
	POST /api/v1/refresh           queue an immediate refresh
	GET  /api/v1/health/live       liveness
	GET  /api/v1/health/ready      readiness (first refresh completed)
	GET  /metrics                  Prometheus metrics

# Build Tags

	go build ./cmd/server               # in-process snapshot bus
	go build -tags nats ./cmd/server    # NATS snapshot bus, optional embedded server

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains open
requests, the refresh orchestrator waits for an in-flight refresh, and the
event bus is closed last.

# Example Usage

	export CLOUDFLARE_API_TOKEN=your-radar-token
	export MAPBOX_TOKEN=pk.your-mapbox-token
	./attackmap

Without CLOUDFLARE_API_TOKEN the upstream rejects requests and the dashboard
is fed synthetic arcs.
*/
package main
