// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package eventprocessor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/attackmap/internal/logging"
	"github.com/tomtom215/attackmap/internal/metrics"
	"github.com/tomtom215/attackmap/internal/models"
)

// Broadcaster receives snapshots consumed from the bus.
type Broadcaster interface {
	BroadcastSnapshot(s *models.Snapshot) bool
}

// Forwarder subscribes to snapshot events and hands them to a Broadcaster,
// typically the WebSocket hub.
type Forwarder struct {
	subscriber message.Subscriber
	topic      string
	sink       Broadcaster
	serializer *Serializer
}

// NewForwarder creates a Forwarder reading bus.Topic.
func NewForwarder(bus *Bus, sink Broadcaster) *Forwarder {
	return &Forwarder{
		subscriber: bus.Subscriber,
		topic:      bus.Topic,
		sink:       sink,
		serializer: NewSerializer(),
	}
}

// Serve implements suture.Service. It returns when ctx is done or the
// subscription channel closes.
func (f *Forwarder) Serve(ctx context.Context) error {
	messages, err := f.subscriber.Subscribe(ctx, f.topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", f.topic, err)
	}
	logging.Info().Str("topic", f.topic).Msg("Snapshot forwarder subscribed")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.New("snapshot subscription closed")
			}
			f.handle(msg)
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (f *Forwarder) String() string {
	return "snapshot-forwarder"
}

// handle always acks: a malformed event will not become valid on redelivery.
func (f *Forwarder) handle(msg *message.Message) {
	defer msg.Ack()

	event, err := f.serializer.Unmarshal(msg.Payload)
	if err != nil {
		metrics.EventsConsumed.WithLabelValues("invalid").Inc()
		logging.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Discarding invalid snapshot event")
		return
	}
	metrics.EventsConsumed.WithLabelValues("ok").Inc()
	f.sink.BroadcastSnapshot(event.Snapshot())
}
