// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tomtom215/attackmap/internal/api"
	"github.com/tomtom215/attackmap/internal/config"
	"github.com/tomtom215/attackmap/internal/logging"
	"github.com/tomtom215/attackmap/internal/radar"
	"github.com/tomtom215/attackmap/internal/refresh"
	"github.com/tomtom215/attackmap/internal/synthetic"
)

// newUpstream builds a radar client behind its own rate limiter and circuit
// breaker. The live refresh and on-demand lookups each get one so lookup
// traffic cannot trip the breaker or drain the tokens of the live loop.
func newUpstream(cfg *config.Config, name string) (*radar.CircuitBreakerClient, error) {
	client, err := radar.NewClient(radar.Config{
		BaseURL:           cfg.Upstream.BaseURL,
		Path:              cfg.Upstream.Path,
		Token:             cfg.Upstream.Token,
		Timeout:           cfg.Upstream.Timeout,
		Window:            cfg.Upstream.Window,
		DateRange:         cfg.Upstream.DateRange,
		RequestsPerSecond: cfg.Upstream.RequestsPerSecond,
		Burst:             cfg.Upstream.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("create radar client: %w", err)
	}

	breaker := radar.DefaultBreakerConfig()
	breaker.Name = name
	breaker.MaxRequests = cfg.Upstream.Breaker.MaxRequests
	breaker.Interval = cfg.Upstream.Breaker.Interval
	breaker.Timeout = cfg.Upstream.Breaker.Timeout
	breaker.FailureRatio = cfg.Upstream.Breaker.FailureRatio
	breaker.MinRequests = cfg.Upstream.Breaker.MinRequests

	return radar.NewCircuitBreakerClient(client, breaker), nil
}

// newOrchestrator wires the live and lookup upstreams and a freshly seeded
// generator into the refresh orchestrator.
func newOrchestrator(cfg *config.Config, live, lookups refresh.Fetcher) (*refresh.Orchestrator, error) {
	seed := uint64(time.Now().UnixNano())
	generator := synthetic.New(rand.NewPCG(seed, rand.Uint64()))

	return refresh.New(refresh.Config{
		Interval:        cfg.Refresh.Interval,
		Limit:           cfg.Upstream.Limit,
		LiveRange:       cfg.Upstream.DateRange,
		WindowCacheTTL:  cfg.Refresh.WindowCacheTTL,
		WindowCacheSize: cfg.Refresh.WindowCacheSize,
	}, live, generator, refresh.WithLookupFetcher(lookups))
}

func middlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mw.RateLimitRequests = cfg.Security.RateLimitReqs
	mw.RateLimitWindow = cfg.Security.RateLimitWindow
	mw.RateLimitDisabled = cfg.Security.RateLimitDisabled
	return mw
}

// waitForTree blocks until the supervisor tree has stopped and returns its
// exit error. ServeBackground delivers exactly one value and never closes
// the channel, so it is received once on either path.
func waitForTree(ctx context.Context, errCh <-chan error) error {
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		return <-errCh
	case err := <-errCh:
		return err
	}
}
