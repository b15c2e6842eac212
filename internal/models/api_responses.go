// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package models

import (
	"time"
)

// APIResponse is the envelope used by every /api/v1 endpoint. The dashboard
// feed endpoints (/events, /config) keep the bare shapes the map script reads.
//
// Example success:
//
//	{
//	  "status": "success",
//	  "data": {...},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response bookkeeping.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// EventsResponse is the dashboard feed: {"arcs": [...], "meta": {...}}.
// Meta is omitted when upstream sent none.
type EventsResponse struct {
	Arcs []Arc                  `json:"arcs"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

// NewEventsResponse renders a snapshot in the dashboard feed shape.
func NewEventsResponse(s *Snapshot) EventsResponse {
	if s == nil || s.Arcs == nil {
		return EventsResponse{Arcs: []Arc{}}
	}
	return EventsResponse{Arcs: s.Arcs, Meta: s.Meta}
}

// FrontendConfig is passed through to the map script unmodified.
type FrontendConfig struct {
	MapboxToken string `json:"mapboxToken"`
}

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// GeoArc is an arc with the country centroids the map draws it between.
// Coordinates are nil for codes missing from the country catalogue.
type GeoArc struct {
	Origin      string    `json:"origin"`
	OriginName  string    `json:"origin_name,omitempty"`
	OriginPoint *GeoPoint `json:"origin_point"`
	Target      string    `json:"target"`
	TargetName  string    `json:"target_name,omitempty"`
	TargetPoint *GeoPoint `json:"target_point"`
	Value       float64   `json:"value"`
}

// ArcsResponse is the data payload of GET /api/v1/arcs.
type ArcsResponse struct {
	SnapshotID  string                 `json:"snapshot_id"`
	Source      Source                 `json:"source"`
	Window      string                 `json:"window,omitempty"`
	GeneratedAt time.Time              `json:"generated_at"`
	Arcs        []GeoArc               `json:"arcs"`
	Meta        map[string]interface{} `json:"meta,omitempty"`
}

// RefreshStatus is the data payload of GET /api/v1/status.
type RefreshStatus struct {
	Ready                bool      `json:"ready"`
	Source               Source    `json:"source"`
	SnapshotID           string    `json:"snapshot_id,omitempty"`
	ArcCount             int       `json:"arc_count"`
	LastRefresh          time.Time `json:"last_refresh,omitempty"`
	LastDurationMS       int64     `json:"last_duration_ms"`
	LastFailure          string    `json:"last_failure,omitempty"`
	LastFailureKind      string    `json:"last_failure_kind,omitempty"`
	ConsecutiveFallbacks int       `json:"consecutive_fallbacks"`
	Refreshes            uint64    `json:"refreshes"`
	Skipped              uint64    `json:"skipped"`
	CircuitBreaker       string    `json:"circuit_breaker,omitempty"`
	NextRefresh          time.Time `json:"next_refresh,omitempty"`
}
