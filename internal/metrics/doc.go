// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

/*
Package metrics exposes the Prometheus collectors for Attackmap.

All collectors are registered with the default registry through promauto and
served by the HTTP layer at /metrics.

# Upstream

  - attackmap_upstream_requests_total{outcome}: fetch outcomes (success, empty, transport, status, parse, circuit_open)
  - attackmap_upstream_request_duration_seconds: fetch latency
  - attackmap_upstream_arcs_parsed: arcs per response
  - attackmap_upstream_records_dropped_total: records without origin or target

# Refresh

  - attackmap_refresh_total{result}: fetched, fallback, skipped
  - attackmap_fallback_total{reason}: empty or the fetch failure kind
  - attackmap_snapshot_arcs, attackmap_snapshot_synthetic
  - attackmap_snapshot_last_refresh_timestamp_seconds
  - attackmap_snapshot_last_upstream_success_timestamp_seconds

Alert on the age of the last upstream success rather than on fallbacks: a
fallback keeps the map alive, a stale upstream timestamp means the feed is fake.

# HTTP, WebSocket, events, circuit breaker

Request counters and latency per route pattern, connected dashboards, dropped
messages, snapshot events published and consumed, and the upstream breaker
state (0=closed, 1=half-open, 2=open).
*/
package metrics
