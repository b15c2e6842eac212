// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package models

import (
	"time"
)

// Source identifies where the arcs of a snapshot came from.
type Source string

const (
	// SourceNone marks the empty snapshot installed at process start.
	SourceNone Source = "none"
	// SourceUpstream marks arcs fetched from the threat-intelligence API.
	SourceUpstream Source = "upstream"
	// SourceSynthetic marks arcs produced by the synthetic generator.
	SourceSynthetic Source = "synthetic"
)

// Snapshot is the serving unit: an ordered list of arcs plus the upstream
// metadata that came with them. A snapshot is immutable once built; the
// refresh orchestrator replaces it as a whole and never edits it in place.
type Snapshot struct {
	ID          string                 `json:"id"`
	Arcs        []Arc                  `json:"arcs"`
	Meta        map[string]interface{} `json:"meta,omitempty"`
	Source      Source                 `json:"source"`
	Window      string                 `json:"window,omitempty"` // dateRange token or start/end label
	GeneratedAt time.Time              `json:"generated_at"`
}

// EmptySnapshot returns the snapshot served before the first refresh.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Arcs:   []Arc{},
		Source: SourceNone,
	}
}

// NewSnapshot copies arcs and meta into a new snapshot so later changes to
// the caller's slices cannot leak into a published value.
func NewSnapshot(id string, source Source, arcs []Arc, meta map[string]interface{}, generatedAt time.Time) *Snapshot {
	s := &Snapshot{
		ID:          id,
		Arcs:        make([]Arc, len(arcs)),
		Source:      source,
		GeneratedAt: generatedAt.UTC(),
	}
	copy(s.Arcs, arcs)
	if len(meta) > 0 {
		s.Meta = make(map[string]interface{}, len(meta))
		for k, v := range meta {
			s.Meta[k] = v
		}
	}
	return s
}

// Len returns the number of arcs.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Arcs)
}

// IsEmpty reports whether the snapshot has no arcs.
func (s *Snapshot) IsEmpty() bool {
	return s.Len() == 0
}

// TotalMagnitude sums the magnitudes of all arcs.
func (s *Snapshot) TotalMagnitude() float64 {
	if s == nil {
		return 0
	}
	var total float64
	for _, a := range s.Arcs {
		total += a.Magnitude
	}
	return total
}
