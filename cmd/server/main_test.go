// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/attackmap/internal/config"
	"github.com/tomtom215/attackmap/internal/models"
	"github.com/tomtom215/attackmap/internal/radar"
)

func testConfig(t *testing.T, upstreamURL string) *config.Config {
	t.Helper()
	t.Setenv(config.ConfigPathEnvVar, t.TempDir()+"/none.yaml")
	t.Setenv("RADAR_BASE_URL", upstreamURL)
	t.Setenv("RADAR_PATH", "/top")
	t.Setenv("RADAR_RPS", "0")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	return cfg
}

type sink struct {
	mu    sync.Mutex
	snaps []*models.Snapshot
}

func (s *sink) BroadcastSnapshot(snap *models.Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = append(s.snaps, snap)
	return true
}

func (s *sink) first() *models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snaps[0]
}

func (s *sink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snaps)
}

func TestUpstreamAndOrchestratorFromConfig(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("limit = %q, want 50", got)
		}
		_, _ = w.Write([]byte(`{"success":true,"result":{"top_0":[{"originCountryAlpha2":"US","targetCountryAlpha2":"DE","value":"42"}]}}`))
	}))
	defer upstream.Close()

	cfg := testConfig(t, upstream.URL)
	client, err := newUpstream(cfg, "radar-api")
	if err != nil {
		t.Fatalf("newUpstream() error = %v", err)
	}
	if client.Client().Endpoint() != upstream.URL+"/top" {
		t.Errorf("Endpoint() = %q", client.Client().Endpoint())
	}

	orch, err := newOrchestrator(cfg, client, client)
	if err != nil {
		t.Fatalf("newOrchestrator() error = %v", err)
	}
	result, ran := orch.Refresh(context.Background())
	if !ran {
		t.Fatal("Refresh() did not run")
	}
	snap := orch.Current()
	if snap.Source != models.SourceUpstream {
		t.Fatalf("source = %q, want upstream (result %+v)", snap.Source, result)
	}
	if len(snap.Arcs) != 1 || snap.Arcs[0].Magnitude != 42 {
		t.Errorf("arcs = %+v", snap.Arcs)
	}
}

func TestInitEventsForwardsSnapshots(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	cfg := testConfig(t, upstream.URL)
	client, err := newUpstream(cfg, "radar-api")
	if err != nil {
		t.Fatal(err)
	}
	orch, err := newOrchestrator(cfg, client, client)
	if err != nil {
		t.Fatal(err)
	}

	out := &sink{}
	events, err := InitEvents(cfg, orch, out, nil)
	if err != nil {
		t.Fatalf("InitEvents() error = %v", err)
	}
	defer func() { _ = events.Close() }()
	if events.Forwarder == nil {
		t.Fatal("forwarder not created")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = events.Forwarder.Serve(ctx) }()

	// The in-process bus drops events published before the forwarder has
	// subscribed, so refresh until one arrives.
	deadline := time.Now().Add(3 * time.Second)
	for out.count() == 0 && time.Now().Before(deadline) {
		orch.Refresh(context.Background())
		time.Sleep(20 * time.Millisecond)
	}
	if out.count() == 0 {
		t.Fatal("no snapshot reached the sink")
	}
	if got := out.first().Source; got != models.SourceSynthetic {
		t.Errorf("forwarded source = %q, want synthetic", got)
	}
}

func TestInitEventsDisabled(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	client := radar.NewCircuitBreakerClient(mustClient(t), radar.DefaultBreakerConfig())
	orch, err := newOrchestrator(cfg, client, client)
	if err != nil {
		t.Fatal(err)
	}
	events, err := InitEvents(cfg, orch, nil, nil)
	if err != nil || events != nil {
		t.Fatalf("InitEvents() = %v, %v; want nil, nil", events, err)
	}
	if err := events.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}
}

func mustClient(t *testing.T) *radar.Client {
	t.Helper()
	c, err := radar.NewClient(radar.Config{})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestMiddlewareConfig(t *testing.T) {
	cfg := testConfig(t, "https://example.com")
	cfg.Security.CORSOrigins = []string{"https://dash.example"}
	cfg.Security.RateLimitDisabled = true

	mw := middlewareConfig(cfg)
	if len(mw.CORSAllowedOrigins) != 1 || mw.CORSAllowedOrigins[0] != "https://dash.example" {
		t.Errorf("CORSAllowedOrigins = %v", mw.CORSAllowedOrigins)
	}
	if !mw.RateLimitDisabled {
		t.Error("RateLimitDisabled not carried over")
	}
}

func TestWaitForTreeReceivesOnce(t *testing.T) {
	// Mirrors ServeBackground: one value, channel left open.
	errCh := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		cancel()
		time.Sleep(10 * time.Millisecond)
		errCh <- context.Canceled
	}()

	done := make(chan error, 1)
	go func() { done <- waitForTree(ctx, errCh) }()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("waitForTree() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("waitForTree() blocked on an unclosed channel after shutdown")
	}
}

func TestWaitForTreeReturnsTreeError(t *testing.T) {
	boom := errors.New("tree failed")
	errCh := make(chan error, 1)
	errCh <- boom

	done := make(chan error, 1)
	go func() { done <- waitForTree(context.Background(), errCh) }()

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Errorf("waitForTree() = %v, want %v", err, boom)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("waitForTree() did not return the tree error")
	}
}

func TestSeparateUpstreamBreakers(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("dateRange") == "52w" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"result":{"top_0":[{"originCountryAlpha2":"US","targetCountryAlpha2":"DE","value":"42"}]}}`))
	}))
	defer upstream.Close()

	cfg := testConfig(t, upstream.URL)
	live, err := newUpstream(cfg, "radar-api")
	if err != nil {
		t.Fatal(err)
	}
	lookups, err := newUpstream(cfg, "radar-lookup")
	if err != nil {
		t.Fatal(err)
	}
	if live.Name() == lookups.Name() {
		t.Fatalf("both breakers are named %q", live.Name())
	}
	orch, err := newOrchestrator(cfg, live, lookups)
	if err != nil {
		t.Fatal(err)
	}
	defer orch.Close()

	for limit := 1; limit <= 5; limit++ {
		if _, err := orch.Lookup(context.Background(), radar.RangeWindow("52w"), limit); err != nil {
			t.Fatalf("Lookup() error = %v", err)
		}
	}
	if lookups.State() != "open" {
		t.Errorf("lookup breaker = %q, want open", lookups.State())
	}

	result, _ := orch.Refresh(context.Background())
	if result.Kind != models.RefreshFetched {
		t.Fatalf("Refresh() = %+v (cause %v), want fetched", result, result.Cause)
	}
	if live.State() != "closed" {
		t.Errorf("live breaker = %q, want closed", live.State())
	}
}
