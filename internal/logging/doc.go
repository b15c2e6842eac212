// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

/*
Package logging provides structured logging for Attackmap on top of zerolog.

A single process-wide logger is configured once at startup with Init and is
then shared by every package through the level helpers:

	logging.Init(logging.Config{Level: "debug", Format: "console"})
	logging.Info().Str("addr", addr).Msg("HTTP server listening")

Components that log frequently take a child logger that carries their name:

	log := logging.WithComponent("refresh")
	log.Warn().Err(err).Msg("upstream fetch failed")

Request scoped logging reads the request and correlation IDs stored in the
context by the HTTP middleware:

	logging.Ctx(r.Context()).Info().Msg("window lookup")

# Adapters

Two adapters route third-party logging through the same zerolog output:

  - NewSlogLogger returns a *slog.Logger for the suture supervisor (sutureslog).
  - NewWatermillLogger returns a watermill.LoggerAdapter for the snapshot event bus.

# Output

JSON is the default format. Field names are fixed (time, level, message, error,
caller) so log shippers can rely on them. The console format is meant for local
development only.
*/
package logging
