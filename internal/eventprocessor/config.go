// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package eventprocessor

import (
	"time"
)

// Config selects and tunes the snapshot event bus.
type Config struct {
	// NATSEnabled switches from the in-process bus to NATS.
	NATSEnabled bool
	// URL of the NATS server. Ignored when EmbeddedServer is set.
	URL string
	// EmbeddedServer starts a NATS server inside the process.
	EmbeddedServer bool
	// ServerHost and ServerPort bind the embedded server.
	ServerHost string
	ServerPort int
	// Topic is the subject snapshot events are published on.
	Topic string

	MaxReconnects int
	ReconnectWait time.Duration
	CloseTimeout  time.Duration

	// BufferSize is the output buffer of the in-process bus.
	BufferSize int64
}

// DefaultConfig returns an in-process bus on TopicSnapshots.
func DefaultConfig() Config {
	return Config{
		NATSEnabled:    false,
		URL:            "nats://127.0.0.1:4222",
		EmbeddedServer: true,
		ServerHost:     "127.0.0.1",
		ServerPort:     4222,
		Topic:          TopicSnapshots,
		MaxReconnects:  -1,
		ReconnectWait:  2 * time.Second,
		CloseTimeout:   10 * time.Second,
		BufferSize:     64,
	}
}

func (c Config) topic() string {
	if c.Topic == "" {
		return TopicSnapshots
	}
	return c.Topic
}
