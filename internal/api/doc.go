// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

/*
Package api serves the attack map over HTTP.

Dashboard feed (bare JSON shapes the map script reads):

	GET  /events               {"arcs":[{"origin","target","value"}],"meta":{...}}
	GET  /config               {"mapboxToken":"..."}
	GET  /ws                   WebSocket snapshot push

Operator API (standard envelope, see models.APIResponse):

	GET  /api/v1/arcs          arcs with country centroids and names
	GET  /api/v1/countries     country catalogue
	GET  /api/v1/status        refresh health and circuit breaker state
	POST /api/v1/refresh       request an immediate refresh
	GET  /api/v1/health/live   liveness probe
	GET  /api/v1/health/ready  readiness probe (503 until the first refresh)
	GET  /metrics              Prometheus metrics

/events and /api/v1/arcs accept dateRange (e.g. "7d") and limit (1-100).
Without them the live snapshot is served; otherwise the refresh
orchestrator resolves the window on demand with the same fallback policy.
/events never reports upstream problems: it serves real or synthetic arcs.

Routing uses chi with go-chi/cors (open by default) and go-chi/httprate
per-IP rate limiting on the data endpoints.
*/
package api
