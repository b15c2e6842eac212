// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

// Package eventprocessor carries snapshot events on a Watermill bus.
//
// The refresh orchestrator's listener publishes one SnapshotEvent per
// installed live snapshot on topic attackmap.snapshots. A Forwarder consumes
// the topic and broadcasts each snapshot to the WebSocket hub.
//
// The default build uses Watermill's in-process GoChannel pub/sub. Building
// with -tags nats adds a NATS transport (watermill-nats, core NATS without
// JetStream) and an optional embedded nats-server, so that several instances
// behind a load balancer push the same stream to their dashboards:
//
//	go build ./cmd/server              # in-process bus
//	go build -tags nats ./cmd/server   # NATS bus
//
// Snapshot events are fire-and-forget. A lost event only delays a dashboard
// until the next refresh.
package eventprocessor
