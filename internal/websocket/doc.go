// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

/*
Package websocket pushes snapshot updates to connected dashboards.

A Hub owns the set of clients and fans out messages; each Client runs a
read pump (client pings, pong deadline) and a write pump (queued messages,
server pings). Handler upgrades GET /ws and queues the current snapshot
before the client joins the hub, so a dashboard never starts blank.

Messages are JSON objects of the form {"type": ..., "data": ...}:

  - snapshot: sent once on connect
  - snapshot_updated: sent after every installed refresh
  - pong: reply to a client {"type":"ping"}

Broadcasts never block the caller. A client whose send buffer is full is
disconnected and counted in attackmap_websocket_messages_dropped_total.
*/
package websocket
