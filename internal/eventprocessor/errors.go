// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package eventprocessor

import "errors"

// ErrNATSNotEnabled is returned when NATS transport is requested in a build
// without the nats tag.
var ErrNATSNotEnabled = errors.New("NATS event transport not enabled (build with -tags nats)")

// ErrInvalidEvent is returned for snapshot events that fail validation.
var ErrInvalidEvent = errors.New("invalid snapshot event")

// ErrBusClosed is returned when publishing on a closed bus.
var ErrBusClosed = errors.New("event bus is closed")
