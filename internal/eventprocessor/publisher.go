// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package eventprocessor

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/attackmap/internal/logging"
	"github.com/tomtom215/attackmap/internal/metrics"
	"github.com/tomtom215/attackmap/internal/models"
)

// SnapshotPublisher publishes installed snapshots on the bus.
type SnapshotPublisher struct {
	publisher  message.Publisher
	topic      string
	serializer *Serializer
	closed     atomic.Bool
}

// NewSnapshotPublisher publishes on bus.Topic.
func NewSnapshotPublisher(bus *Bus) *SnapshotPublisher {
	return &SnapshotPublisher{
		publisher:  bus.Publisher,
		topic:      bus.Topic,
		serializer: NewSerializer(),
	}
}

// Publish sends one snapshot event.
func (p *SnapshotPublisher) Publish(ctx context.Context, s *models.Snapshot) error {
	if p.closed.Load() {
		return ErrBusClosed
	}
	msg, err := p.serializer.NewMessage(NewSnapshotEvent(s))
	if err != nil {
		metrics.RecordEventPublished(err)
		return err
	}
	msg.SetContext(ctx)

	err = p.publisher.Publish(p.topic, msg)
	metrics.RecordEventPublished(err)
	if err != nil {
		return fmt.Errorf("publish snapshot event: %w", err)
	}
	return nil
}

// OnSnapshot is a refresh listener: it publishes s and logs failures.
// The refresh path never fails because the bus is unavailable.
func (p *SnapshotPublisher) OnSnapshot(s *models.Snapshot) {
	if err := p.Publish(context.Background(), s); err != nil {
		logging.Warn().Err(err).Str("snapshot_id", s.ID).Msg("Failed to publish snapshot event")
	}
}

// Close stops further publishing. The bus itself is closed by its owner.
func (p *SnapshotPublisher) Close() {
	p.closed.Store(true)
}
