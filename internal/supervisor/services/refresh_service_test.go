// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeManager struct {
	startErr error
	stopErr  error
	starts   atomic.Int32
	stops    atomic.Int32
}

func (f *fakeManager) Start(context.Context) error {
	f.starts.Add(1)
	return f.startErr
}

func (f *fakeManager) Stop() error {
	f.stops.Add(1)
	return f.stopErr
}

func TestRefreshService_Lifecycle(t *testing.T) {
	mgr := &fakeManager{}
	svc := NewRefreshService(mgr)
	if svc.String() != "refresh-orchestrator" {
		t.Errorf("String() = %q", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(time.Second)
	for mgr.starts.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
	if mgr.starts.Load() != 1 || mgr.stops.Load() != 1 {
		t.Errorf("starts=%d stops=%d, want 1/1", mgr.starts.Load(), mgr.stops.Load())
	}
}

func TestRefreshService_StartError(t *testing.T) {
	boom := errors.New("boom")
	mgr := &fakeManager{startErr: boom}

	err := NewRefreshService(mgr).Serve(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Serve() error = %v, want %v", err, boom)
	}
	if mgr.stops.Load() != 0 {
		t.Error("Stop called after failed Start")
	}
}

func TestRefreshService_StopError(t *testing.T) {
	boom := errors.New("stop failed")
	mgr := &fakeManager{stopErr: boom}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewRefreshService(mgr).Serve(ctx); !errors.Is(err, boom) {
		t.Errorf("Serve() error = %v, want %v", err, boom)
	}
}

type hubFunc func(ctx context.Context) error

func (f hubFunc) RunWithContext(ctx context.Context) error { return f(ctx) }

func TestWebSocketHubService_Delegates(t *testing.T) {
	var called atomic.Bool
	svc := NewWebSocketHubService(hubFunc(func(ctx context.Context) error {
		called.Store(true)
		<-ctx.Done()
		return ctx.Err()
	}))
	if svc.String() != "websocket-hub" {
		t.Errorf("String() = %q", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v", err)
	}
	if !called.Load() {
		t.Error("hub was not run")
	}
}
