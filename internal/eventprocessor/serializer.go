// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package eventprocessor

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
)

// MetadataSource is the message metadata key holding the snapshot source.
const MetadataSource = "source"

// Serializer handles event encoding/decoding for bus messages.
type Serializer struct{}

// NewSerializer creates a new serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Marshal converts an event to JSON bytes.
func (s *Serializer) Marshal(event *SnapshotEvent) ([]byte, error) {
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// Unmarshal converts JSON bytes to a validated event.
func (s *Serializer) Unmarshal(data []byte) (*SnapshotEvent, error) {
	var event SnapshotEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return &event, nil
}

// NewMessage builds the Watermill message for event. The message UUID is
// the event ID.
func (s *Serializer) NewMessage(event *SnapshotEvent) (*message.Message, error) {
	data, err := s.Marshal(event)
	if err != nil {
		return nil, err
	}
	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set(MetadataSource, string(event.Source))
	return msg, nil
}
