// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/attackmap/internal/geo"
	"github.com/tomtom215/attackmap/internal/logging"
	"github.com/tomtom215/attackmap/internal/models"
)

// Events serves the dashboard feed. Upstream problems never surface here:
// the orchestrator always has a real or synthetic snapshot to hand out.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.resolveSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, "no-cache", models.NewEventsResponse(snap))
}

// Config passes the frontend settings through unmodified.
func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, "public, max-age=300", h.frontend)
}

// Arcs returns the snapshot with country centroids for map placement.
func (h *Handler) Arcs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	snap, ok := h.resolveSnapshot(w, r)
	if !ok {
		return
	}

	respondSuccess(w, http.StatusOK, models.ArcsResponse{
		SnapshotID:  snap.ID,
		Source:      snap.Source,
		Window:      snap.Window,
		GeneratedAt: snap.GeneratedAt,
		Arcs:        geo.Enrich(snap.Arcs),
		Meta:        snap.Meta,
	}, start)
}

// Countries lists the country catalogue.
func (h *Handler) Countries(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, geo.Countries(), time.Now())
}

// resolveSnapshot validates the window parameters and returns the live or
// on-demand snapshot. It writes the error response itself.
func (h *Handler) resolveSnapshot(w http.ResponseWriter, r *http.Request) (*models.Snapshot, bool) {
	req, apiErr := parseWindowRequest(r, h.snapshots.Limit())
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return nil, false
	}

	snap, err := h.snapshots.Lookup(r.Context(), req.Window(), req.Limit)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return nil, false
	}
	if snap == nil {
		// Lookup always returns a snapshot; guard against a nil service result.
		logging.Ctx(r.Context()).Warn().Msg("Snapshot lookup returned nil, serving empty feed")
		snap = models.EmptySnapshot()
	}
	return snap, true
}
