// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

//go:build nats

package eventprocessor

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	natsgo "github.com/nats-io/nats.go"
)

// newNATSBus connects a core NATS publisher and subscriber. Every instance
// subscribes without a queue group so all dashboards see every snapshot.
func newNATSBus(cfg Config, logger watermill.LoggerAdapter) (*Bus, error) {
	var closers []func() error

	url := cfg.URL
	if cfg.EmbeddedServer {
		srv, err := NewEmbeddedServer(cfg.ServerHost, cfg.ServerPort)
		if err != nil {
			return nil, err
		}
		url = srv.ClientURL()
		closers = append(closers, srv.Close)
		logger.Info("Embedded NATS server started", watermill.LogFields{"url": url})
	}

	natsOpts := []natsgo.Option{
		natsgo.Name("attackmap"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		closeAll(closers)
		return nil, fmt.Errorf("create NATS publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		SubscribersCount: 1,
		CloseTimeout:     cfg.CloseTimeout,
		AckWaitTimeout:   cfg.CloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		_ = pub.Close()
		closeAll(closers)
		return nil, fmt.Errorf("create NATS subscriber: %w", err)
	}

	// Clients close before the embedded server they talk to.
	closers = append([]func() error{sub.Close, pub.Close}, closers...)

	return &Bus{
		Publisher:  pub,
		Subscriber: sub,
		Topic:      cfg.topic(),
		Transport:  "nats",
		closers:    closers,
	}, nil
}

func closeAll(closers []func() error) {
	for _, closeFn := range closers {
		_ = closeFn()
	}
}
