// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

/*
Package config loads attackmap configuration.

Values are layered with koanf, later layers winning:

 1. struct defaults
 2. an optional YAML file (CONFIG_PATH, config.yaml, config.yml,
    /etc/attackmap/config.yaml, /etc/attackmap/config.yml)
 3. environment variables, through an explicit name mapping

Unmapped environment variables are ignored. The process entry point loads an
optional .env file before calling Load, so .env values behave like ordinary
environment variables.

# Environment Variables

Upstream:
  - CLOUDFLARE_API_TOKEN: bearer credential (optional)
  - RADAR_BASE_URL, RADAR_PATH: upstream resource
  - RADAR_TIMEOUT: per fetch timeout (default: 20s)
  - RADAR_LIMIT: arcs per refresh, 1..100 (default: 50)
  - RADAR_WINDOW: span of the default window (default: 1h)
  - RADAR_DATE_RANGE: send a dateRange token such as 7d instead
  - RADAR_RPS, RADAR_BURST: outgoing request pacing
  - RADAR_BREAKER_*: circuit breaker tuning

Refresh:
  - REFRESH_INTERVAL (default: 1m)
  - REFRESH_WINDOW_CACHE_TTL (default: 1m)

Server and security:
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, STATIC_DIR
  - SHUTDOWN_TIMEOUT: supervisor stop budget, must exceed RADAR_TIMEOUT (default: 30s)
  - CORS_ORIGINS: comma separated (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Frontend:
  - MAPBOX_TOKEN: passed through to GET /config unmodified

Realtime:
  - WEBSOCKET_ENABLED
  - NATS_ENABLED, NATS_URL, NATS_EMBEDDED_SERVER, NATS_HOST, NATS_PORT, NATS_SUBJECT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Config is immutable after Load and safe for concurrent reads.
*/
package config
