// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

/*
Package refresh owns the live snapshot of attack arcs.

The Orchestrator runs one refresh immediately and then on a fixed interval
(one minute by default). Each refresh asks the upstream client for the top
attacks in the default window. When the call fails, or succeeds with no
usable arcs, the synthetic generator fills in with the same limit, so the
installed snapshot is never empty after the first refresh.

Snapshots are immutable and installed with an atomic pointer swap. Readers
call Current and never wait on network I/O. A tick that fires while a
refresh is still running is skipped rather than queued.

	o, err := refresh.New(refresh.Config{Interval: time.Minute, Limit: 50}, client, synthetic.New(nil))
	o.OnSnapshot(func(s *models.Snapshot) { hub.BroadcastSnapshot(s) })
	go o.Serve(ctx)

	snap := o.Current()

Lookup serves windows other than the live one by fetching on demand with the
same fallback policy and caching the result for a short TTL.
*/
package refresh
