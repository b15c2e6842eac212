// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/attackmap/internal/models"
)

// SchemaVersion is the current snapshot event schema version.
const SchemaVersion = 1

// TopicSnapshots carries every installed live snapshot.
const TopicSnapshots = "attackmap.snapshots"

// SnapshotEvent announces that a new live snapshot was installed.
type SnapshotEvent struct {
	SchemaVersion int                    `json:"schema_version"`
	EventID       string                 `json:"event_id"`
	SnapshotID    string                 `json:"snapshot_id"`
	Source        models.Source          `json:"source"`
	Window        string                 `json:"window,omitempty"`
	GeneratedAt   time.Time              `json:"generated_at"`
	Arcs          []models.Arc           `json:"arcs"`
	Meta          map[string]interface{} `json:"meta,omitempty"`
}

// NewSnapshotEvent wraps s in an event with a fresh event ID.
func NewSnapshotEvent(s *models.Snapshot) *SnapshotEvent {
	if s == nil {
		s = models.EmptySnapshot()
	}
	arcs := s.Arcs
	if arcs == nil {
		arcs = []models.Arc{}
	}
	return &SnapshotEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.NewString(),
		SnapshotID:    s.ID,
		Source:        s.Source,
		Window:        s.Window,
		GeneratedAt:   s.GeneratedAt,
		Arcs:          arcs,
		Meta:          s.Meta,
	}
}

// Validate checks the fields consumers rely on.
func (e *SnapshotEvent) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: nil event", ErrInvalidEvent)
	}
	if e.EventID == "" {
		return fmt.Errorf("%w: missing event_id", ErrInvalidEvent)
	}
	switch e.Source {
	case models.SourceUpstream, models.SourceSynthetic, models.SourceNone:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidEvent, e.Source)
	}
	for i, arc := range e.Arcs {
		if arc.Origin == "" || arc.Target == "" {
			return fmt.Errorf("%w: arc %d missing country code", ErrInvalidEvent, i)
		}
	}
	return nil
}

// Snapshot rebuilds the snapshot carried by the event.
func (e *SnapshotEvent) Snapshot() *models.Snapshot {
	s := models.NewSnapshot(e.SnapshotID, e.Source, e.Arcs, e.Meta, e.GeneratedAt)
	s.Window = e.Window
	return s
}
