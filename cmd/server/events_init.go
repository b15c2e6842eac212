// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package main

import (
	"github.com/tomtom215/attackmap/internal/config"
	"github.com/tomtom215/attackmap/internal/eventprocessor"
	"github.com/tomtom215/attackmap/internal/logging"
	"github.com/tomtom215/attackmap/internal/refresh"
	"github.com/tomtom215/attackmap/internal/supervisor"
)

// EventComponents holds the snapshot event pipeline: the orchestrator
// publishes every new snapshot on the bus and the forwarder pushes events
// from the bus to WebSocket clients.
type EventComponents struct {
	Bus       *eventprocessor.Bus
	Publisher *eventprocessor.SnapshotPublisher
	Forwarder *eventprocessor.Forwarder
}

// InitEvents builds the bus and registers the publisher on the orchestrator.
// sink may be nil when WebSocket push is disabled; no forwarder is started
// then. Returns nil, nil when there is nothing to publish to.
func InitEvents(cfg *config.Config, orchestrator *refresh.Orchestrator, sink eventprocessor.Broadcaster, tree *supervisor.SupervisorTree) (*EventComponents, error) {
	if sink == nil && !cfg.NATS.Enabled {
		logging.Info().Msg("Snapshot event bus disabled (no WebSocket and no NATS)")
		return nil, nil
	}

	busCfg := eventprocessor.DefaultConfig()
	busCfg.NATSEnabled = cfg.NATS.Enabled
	busCfg.URL = cfg.NATS.URL
	busCfg.EmbeddedServer = cfg.NATS.EmbeddedServer
	busCfg.ServerHost = cfg.NATS.Host
	busCfg.ServerPort = cfg.NATS.Port
	busCfg.Topic = cfg.NATS.Subject
	if cfg.NATS.ReconnectWait > 0 {
		busCfg.ReconnectWait = cfg.NATS.ReconnectWait
	}
	if cfg.NATS.CloseTimeout > 0 {
		busCfg.CloseTimeout = cfg.NATS.CloseTimeout
	}

	bus, err := eventprocessor.NewBus(busCfg, logging.NewWatermillLogger())
	if err != nil {
		return nil, err
	}

	c := &EventComponents{
		Bus:       bus,
		Publisher: eventprocessor.NewSnapshotPublisher(bus),
	}
	orchestrator.OnSnapshot(c.Publisher.OnSnapshot)

	if sink != nil {
		c.Forwarder = eventprocessor.NewForwarder(bus, sink)
		if tree != nil {
			tree.AddMessagingService(c.Forwarder)
		}
	}

	logging.Info().
		Str("transport", bus.Transport).
		Str("topic", bus.Topic).
		Bool("forwarding", c.Forwarder != nil).
		Msg("Snapshot event bus initialized")
	return c, nil
}

// Close stops publishing and closes the bus. Safe on a nil receiver.
func (c *EventComponents) Close() error {
	if c == nil {
		return nil
	}
	c.Publisher.Close()
	return c.Bus.Close()
}
