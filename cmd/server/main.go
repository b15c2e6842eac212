// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomtom215/attackmap/internal/api"
	"github.com/tomtom215/attackmap/internal/config"
	"github.com/tomtom215/attackmap/internal/eventprocessor"
	"github.com/tomtom215/attackmap/internal/logging"
	"github.com/tomtom215/attackmap/internal/models"
	"github.com/tomtom215/attackmap/internal/supervisor"
	"github.com/tomtom215/attackmap/internal/supervisor/services"
	ws "github.com/tomtom215/attackmap/internal/websocket"
)

func main() {
	// A missing .env file is normal in containers.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("upstream", cfg.Upstream.BaseURL+cfg.Upstream.Path).
		Bool("credential", cfg.Upstream.Token != "").
		Int("limit", cfg.Upstream.Limit).
		Dur("interval", cfg.Refresh.Interval).
		Msg("Starting attackmap")
	if cfg.Upstream.Token == "" {
		logging.Warn().Msg("CLOUDFLARE_API_TOKEN is not set; upstream requests will likely be rejected and synthetic arcs served")
	}

	upstream, err := newUpstream(cfg, "radar-api")
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize upstream client")
	}
	lookups, err := newUpstream(cfg, "radar-lookup")
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize lookup client")
	}
	orchestrator, err := newOrchestrator(cfg, upstream, lookups)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize refresh orchestrator")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	var routerOpts []api.RouterOption
	var sink eventprocessor.Broadcaster
	if cfg.WebSocket.Enabled {
		hub := ws.NewHub()
		tree.AddMessagingService(services.NewWebSocketHubService(hub))
		routerOpts = append(routerOpts, api.WithWebSocket(ws.NewHandler(hub, orchestrator.Current, cfg.Security.CORSOrigins)))
		sink = hub
	}
	if cfg.Server.StaticDir != "" {
		routerOpts = append(routerOpts, api.WithStaticDir(cfg.Server.StaticDir))
	}

	events, err := InitEvents(cfg, orchestrator, sink, tree)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize snapshot event bus")
	}

	handler := api.NewHandler(orchestrator, models.FrontendConfig{MapboxToken: cfg.Frontend.MapboxToken})
	router := api.NewRouter(handler, api.NewChiMiddleware(middlewareConfig(cfg)), routerOpts...)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree.AddRefreshService(services.NewRefreshService(orchestrator))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	if err := waitForTree(ctx, errCh); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	if err := events.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing snapshot event bus")
	}
	orchestrator.Close()

	logging.Info().Msg("Application stopped gracefully")
}
