// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package refresh

import (
	"sync/atomic"

	"github.com/tomtom215/attackmap/internal/models"
)

// Store holds the live snapshot. It has one writer (the orchestrator) and
// any number of readers; a read returns either the previous snapshot or the
// next one in full, never a mix.
type Store struct {
	current atomic.Pointer[models.Snapshot]
}

// NewStore returns a store holding the empty initial snapshot.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(models.EmptySnapshot())
	return s
}

// Load returns the current snapshot without blocking. The result must be
// treated as read-only.
func (s *Store) Load() *models.Snapshot {
	return s.current.Load()
}

// Swap installs snap and returns the snapshot it replaced.
func (s *Store) Swap(snap *models.Snapshot) *models.Snapshot {
	if snap == nil {
		snap = models.EmptySnapshot()
	}
	return s.current.Swap(snap)
}
