// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package services

import (
	"context"
	"fmt"
)

// StartStopManager matches the refresh orchestrator lifecycle.
type StartStopManager interface {
	Start(ctx context.Context) error
	Stop() error
}

// RefreshService adapts the orchestrator's Start/Stop lifecycle to suture:
// Start, wait for cancellation, then Stop, which blocks until an in-flight
// refresh has finished or timed out.
type RefreshService struct {
	manager StartStopManager
	name    string
}

// NewRefreshService creates a new refresh service wrapper.
func NewRefreshService(manager StartStopManager) *RefreshService {
	return &RefreshService{
		manager: manager,
		name:    "refresh-orchestrator",
	}
}

// Serve implements suture.Service. A failed Start is returned so suture
// restarts the service with backoff.
func (s *RefreshService) Serve(ctx context.Context) error {
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("refresh orchestrator start failed: %w", err)
	}

	<-ctx.Done()

	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("refresh orchestrator stop failed: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logs.
func (s *RefreshService) String() string {
	return s.name
}
