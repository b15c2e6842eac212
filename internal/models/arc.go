// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package models

import (
	"math"
	"strings"
)

// Arc is one directed origin -> target attack record. Magnitude is carried on
// the wire as "value", the field name the dashboard reads.
type Arc struct {
	Origin    string  `json:"origin"` // ISO 3166-1 alpha-2 code of the attack source
	Target    string  `json:"target"` // ISO 3166-1 alpha-2 code of the attacked location
	Magnitude float64 `json:"value"`  // Non-negative attack volume
}

// NewArc normalises the country codes (trimmed, upper case) and clamps the
// magnitude to a finite, non-negative value.
func NewArc(origin, target string, magnitude float64) Arc {
	return Arc{
		Origin:    NormalizeCountryCode(origin),
		Target:    NormalizeCountryCode(target),
		Magnitude: ClampMagnitude(magnitude),
	}
}

// Valid reports whether both endpoints are present and the magnitude is a
// finite non-negative number.
func (a Arc) Valid() bool {
	return a.Origin != "" && a.Target != "" &&
		a.Magnitude >= 0 && !math.IsInf(a.Magnitude, 0) && !math.IsNaN(a.Magnitude)
}

// SelfTargeted reports whether origin and target are the same country.
// Upstream data may contain such arcs; generated data never does.
func (a Arc) SelfTargeted() bool {
	return a.Origin == a.Target
}

// NormalizeCountryCode trims and upper-cases a country code.
func NormalizeCountryCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ClampMagnitude maps NaN, infinities and negative values to 0.
func ClampMagnitude(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// RoundTenth rounds v to one decimal place.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
