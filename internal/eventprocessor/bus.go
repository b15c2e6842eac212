// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package eventprocessor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Bus pairs a Watermill publisher and subscriber on one transport.
type Bus struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	Topic      string
	Transport  string

	closeOnce sync.Once
	closers   []func() error
	closeErr  error
}

// NewBus builds the bus described by cfg: NATS when cfg.NATSEnabled,
// otherwise an in-process GoChannel pub/sub.
func NewBus(cfg Config, logger watermill.LoggerAdapter) (*Bus, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if cfg.NATSEnabled {
		return newNATSBus(cfg, logger)
	}
	return NewLocalBus(cfg, logger), nil
}

// NewLocalBus returns an in-process bus. Messages reach subscribers of the
// same process only.
func NewLocalBus(cfg Config, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	buffer := cfg.BufferSize
	if buffer <= 0 {
		buffer = DefaultConfig().BufferSize
	}
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            buffer,
		BlockPublishUntilSubscriberAck: false,
	}, logger)

	return &Bus{
		Publisher:  pubSub,
		Subscriber: pubSub,
		Topic:      cfg.topic(),
		Transport:  "gochannel",
		closers:    []func() error{pubSub.Close},
	}
}

// Close releases the transport. It is safe to call more than once.
func (b *Bus) Close() error {
	b.closeOnce.Do(func() {
		var errs []error
		for _, closeFn := range b.closers {
			if err := closeFn(); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			b.closeErr = fmt.Errorf("close %s bus: %w", b.Transport, errors.Join(errs...))
		}
	})
	return b.closeErr
}
