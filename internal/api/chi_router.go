// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/attackmap/internal/logging"
	"github.com/tomtom215/attackmap/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	websocket     http.Handler
	staticDir     string
}

// RouterOption customises a Router.
type RouterOption func(*Router)

// WithWebSocket mounts h at /ws.
func WithWebSocket(h http.Handler) RouterOption {
	return func(r *Router) { r.websocket = h }
}

// WithStaticDir serves dashboard assets from dir at /.
func WithStaticDir(dir string) RouterOption {
	return func(r *Router) { r.staticDir = dir }
}

// NewRouter creates a Router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware, opts ...RouterOption) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	router := &Router{handler: handler, chiMiddleware: mw}
	for _, opt := range opts {
		opt(router)
	}
	return router
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	// Dashboard feed
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))

		r.Get("/events", router.handler.Events)
		r.Get("/config", router.handler.Config)
	})

	if router.websocket != nil {
		// No response-writer wrapping middleware: the upgrade needs http.Hijacker.
		r.Get("/ws", router.websocket.ServeHTTP)
	}

	// Probes are not rate limited so orchestrators can poll freely.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))

		r.Get("/arcs", router.handler.Arcs)
		r.Get("/countries", router.handler.Countries)
		r.Get("/status", router.handler.Status)
		r.Post("/refresh", router.handler.Refresh)
	})

	r.Handle("/metrics", promhttp.Handler())

	if router.staticDir != "" {
		logging.Info().Str("dir", router.staticDir).Msg("Serving dashboard assets")
		r.Handle("/*", http.FileServer(http.Dir(router.staticDir)))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}
