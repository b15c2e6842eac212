// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

/*
Package cache provides a generic thread-safe in-memory cache with TTL
expiry.

The refresh orchestrator uses it to hold snapshots fetched on demand for
windows other than the live one, keyed by window label and limit, so that a
dashboard switching to "7d" does not hit the upstream on every request.

Features:
  - Type-safe values via generics (Cache[V])
  - Lazy expiry on Get plus a periodic background sweep
  - Optional size bound that evicts the entry closest to expiry
  - Hit, miss and eviction counters

Usage:

	c := cache.New[*models.Snapshot](time.Minute, cache.WithMaxEntries(64))
	defer c.Close()

	c.Set(key, snap)
	if snap, ok := c.Get(key); ok {
	    return snap
	}

All methods are safe for concurrent use.
*/
package cache
