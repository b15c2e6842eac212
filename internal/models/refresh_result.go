// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package models

import "time"

// RefreshKind distinguishes a real fetch from a synthetic fallback.
type RefreshKind int

const (
	// RefreshFetched means the upstream API returned at least one usable arc.
	RefreshFetched RefreshKind = iota
	// RefreshFallback means the upstream call failed or returned nothing usable.
	RefreshFallback
)

// String returns "fetched" or "fallback".
func (k RefreshKind) String() string {
	if k == RefreshFetched {
		return "fetched"
	}
	return "fallback"
}

// RefreshResult is the outcome of one refresh attempt. An empty fetched
// result is never built: callers turn it into a fallback instead.
type RefreshResult struct {
	Kind  RefreshKind
	Arcs  []Arc
	Meta  map[string]interface{}
	Cause error // why the fallback was taken; nil for fetched results
}

// Fetched builds a result from upstream data.
func Fetched(arcs []Arc, meta map[string]interface{}) RefreshResult {
	return RefreshResult{Kind: RefreshFetched, Arcs: arcs, Meta: meta}
}

// Fallback builds a result from generated data.
func Fallback(arcs []Arc, cause error) RefreshResult {
	return RefreshResult{Kind: RefreshFallback, Arcs: arcs, Cause: cause}
}

// Source maps the result kind onto a snapshot source.
func (r RefreshResult) Source() Source {
	if r.Kind == RefreshFetched {
		return SourceUpstream
	}
	return SourceSynthetic
}

// Snapshot freezes the result into a snapshot.
func (r RefreshResult) Snapshot(id, window string, at time.Time) *Snapshot {
	s := NewSnapshot(id, r.Source(), r.Arcs, r.Meta, at)
	s.Window = window
	return s
}
