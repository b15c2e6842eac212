// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

// Package synthetic generates stand-in attack arcs used when the upstream
// feed fails or comes back empty.
//
// Each call draws a base count from a normal distribution (mean 4.5, sd 3,
// floored at 3), creates that many origin->target arcs with magnitudes in
// [20, 500], and with probability 0.2 per arc adds a burst of 1 to 4 extra
// arcs from other origins onto the same target with magnitudes in [50, 400].
// The list is shuffled and truncated to the requested maximum. Origins and
// targets are always distinct.
package synthetic
