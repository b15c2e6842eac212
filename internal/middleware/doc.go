// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

/*
Package middleware provides HTTP middleware shared by the API router.

  - RequestID: request IDs for log correlation, echoed in X-Request-ID
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled
    by chi route pattern
  - Compression: gzip for clients that accept it

All three use the http.HandlerFunc form; the api package adapts them to
chi's func(http.Handler) http.Handler with chiMiddleware:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(chiMiddleware(middleware.Compression))
*/
package middleware
