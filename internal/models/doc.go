// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

/*
Package models defines the data shapes shared by every Attackmap component.

  - Arc: one directed origin -> target attack record with a magnitude.
  - Snapshot: the immutable set of arcs currently served to dashboards.
  - RefreshResult: the outcome of one refresh attempt (fetched or fallback).
  - APIResponse and the response DTOs returned by the HTTP layer.

Arcs serialise their magnitude as "value" because that is the field the map
script reads:

	{"origin": "US", "target": "DE", "value": 42}
*/
package models
