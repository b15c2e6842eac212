// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package api

import (
	"errors"
	"net/http"
	"time"
)

var errNotReady = errors.New("first refresh has not completed")

// HealthLive is the liveness probe. It answers 200 while the process runs.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Now())
}

// HealthReady answers 200 once the first refresh has installed a snapshot
// and 503 before that.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.snapshots.Ready() {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", errNotReady.Error(), nil)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"ready": true,
	}, time.Now())
}

// Status reports refresh health and the circuit breaker state.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, h.snapshots.Status(), time.Now())
}

// Refresh asks the orchestrator for an immediate refresh. The request is
// accepted even when a refresh is already pending; ticks are coalesced.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	queued := h.snapshots.TriggerRefresh()
	respondSuccess(w, http.StatusAccepted, map[string]interface{}{
		"queued": queued,
	}, time.Now())
}
