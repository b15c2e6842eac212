// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package api

import (
	"context"
	"time"

	"github.com/tomtom215/attackmap/internal/models"
	"github.com/tomtom215/attackmap/internal/radar"
)

// SnapshotService is the read side of the refresh orchestrator.
type SnapshotService interface {
	Current() *models.Snapshot
	Limit() int
	Lookup(ctx context.Context, window radar.Window, limit int) (*models.Snapshot, error)
	Status() models.RefreshStatus
	Ready() bool
	TriggerRefresh() bool
}

// Handler holds the HTTP handlers and their collaborators.
type Handler struct {
	snapshots SnapshotService
	frontend  models.FrontendConfig
	startTime time.Time
}

// NewHandler creates a Handler reading snapshots from svc.
func NewHandler(svc SnapshotService, frontend models.FrontendConfig) *Handler {
	return &Handler{
		snapshots: svc,
		frontend:  frontend,
		startTime: time.Now(),
	}
}
