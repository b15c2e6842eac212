// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

//go:build !nats

package eventprocessor

import (
	"github.com/ThreeDotsLabs/watermill"
)

func newNATSBus(_ Config, _ watermill.LoggerAdapter) (*Bus, error) {
	return nil, ErrNATSNotEnabled
}
