// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

// Package geo holds the country catalogue the map uses to place arcs: ISO
// 3166-1 alpha-2 code, display name and the centroid the arc is drawn from.
package geo

import (
	"sort"

	"github.com/tomtom215/attackmap/internal/models"
)

// Country is one catalogue entry.
type Country struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Point returns the centroid as a models.GeoPoint.
func (c Country) Point() *models.GeoPoint {
	return &models.GeoPoint{Latitude: c.Latitude, Longitude: c.Longitude}
}

var catalogue = []Country{
	{"AE", "United Arab Emirates", 23.424076, 53.847818},
	{"AR", "Argentina", -38.416097, -63.616672},
	{"AT", "Austria", 47.516231, 14.550072},
	{"AU", "Australia", -25.274398, 133.775136},
	{"BD", "Bangladesh", 23.684994, 90.356331},
	{"BE", "Belgium", 50.503887, 4.469936},
	{"BG", "Bulgaria", 42.733883, 25.48583},
	{"BR", "Brazil", -14.235004, -51.92528},
	{"BY", "Belarus", 53.709807, 27.953389},
	{"CA", "Canada", 56.130366, -106.346771},
	{"CH", "Switzerland", 46.818188, 8.227512},
	{"CL", "Chile", -35.675147, -71.542969},
	{"CN", "China", 35.86166, 104.195397},
	{"CO", "Colombia", 4.570868, -74.297333},
	{"CZ", "Czechia", 49.817492, 15.472962},
	{"DE", "Germany", 51.165691, 10.451526},
	{"DK", "Denmark", 56.26392, 9.501785},
	{"EG", "Egypt", 26.820553, 30.802498},
	{"ES", "Spain", 40.463667, -3.74922},
	{"FI", "Finland", 61.92411, 25.748151},
	{"FR", "France", 46.227638, 2.213749},
	{"GB", "United Kingdom", 55.378051, -3.435973},
	{"GR", "Greece", 39.074208, 21.824312},
	{"HK", "Hong Kong", 22.396428, 114.109497},
	{"HU", "Hungary", 47.162494, 19.503304},
	{"ID", "Indonesia", -0.789275, 113.921327},
	{"IE", "Ireland", 53.41291, -8.24389},
	{"IL", "Israel", 31.046051, 34.851612},
	{"IN", "India", 20.593684, 78.96288},
	{"IR", "Iran", 32.427908, 53.688046},
	{"IT", "Italy", 41.87194, 12.56738},
	{"JP", "Japan", 36.204824, 138.252924},
	{"KE", "Kenya", -0.023559, 37.906193},
	{"KR", "South Korea", 35.907757, 127.766922},
	{"KZ", "Kazakhstan", 48.019573, 66.923684},
	{"LT", "Lithuania", 55.169438, 23.881275},
	{"MA", "Morocco", 31.791702, -7.09262},
	{"MX", "Mexico", 23.634501, -102.552784},
	{"MY", "Malaysia", 4.210484, 101.975766},
	{"NG", "Nigeria", 9.081999, 8.675277},
	{"NL", "Netherlands", 52.132633, 5.291266},
	{"NO", "Norway", 60.472024, 8.468946},
	{"NZ", "New Zealand", -40.900557, 174.885971},
	{"PE", "Peru", -9.189967, -75.015152},
	{"PH", "Philippines", 12.879721, 121.774017},
	{"PK", "Pakistan", 30.375321, 69.345116},
	{"PL", "Poland", 51.919438, 19.145136},
	{"PT", "Portugal", 39.399872, -8.224454},
	{"RO", "Romania", 45.943161, 24.96676},
	{"RS", "Serbia", 44.016521, 21.005859},
	{"RU", "Russia", 61.52401, 105.318756},
	{"SA", "Saudi Arabia", 23.885942, 45.079162},
	{"SE", "Sweden", 60.128161, 18.643501},
	{"SG", "Singapore", 1.352083, 103.819836},
	{"TH", "Thailand", 15.870032, 100.992541},
	{"TR", "Turkey", 38.963745, 35.243322},
	{"TW", "Taiwan", 23.69781, 120.960515},
	{"UA", "Ukraine", 48.379433, 31.16558},
	{"US", "United States", 37.09024, -95.712891},
	{"VE", "Venezuela", 6.42375, -66.58973},
	{"VN", "Vietnam", 14.058324, 108.277199},
	{"ZA", "South Africa", -30.559482, 22.937506},
}

var byCode = func() map[string]Country {
	m := make(map[string]Country, len(catalogue))
	for _, c := range catalogue {
		m[c.Code] = c
	}
	return m
}()

// Lookup returns the catalogue entry for code. The code is normalised first.
func Lookup(code string) (Country, bool) {
	c, ok := byCode[models.NormalizeCountryCode(code)]
	return c, ok
}

// Countries returns a copy of the catalogue sorted by code.
func Countries() []Country {
	out := make([]Country, len(catalogue))
	copy(out, catalogue)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Codes returns every catalogue code, sorted.
func Codes() []string {
	codes := make([]string, 0, len(catalogue))
	for _, c := range catalogue {
		codes = append(codes, c.Code)
	}
	sort.Strings(codes)
	return codes
}

// Enrich attaches centroids and names to arcs. Codes missing from the
// catalogue keep nil points so the dashboard can skip them.
func Enrich(arcs []models.Arc) []models.GeoArc {
	out := make([]models.GeoArc, 0, len(arcs))
	for _, a := range arcs {
		ga := models.GeoArc{Origin: a.Origin, Target: a.Target, Value: a.Magnitude}
		if c, ok := Lookup(a.Origin); ok {
			ga.OriginName = c.Name
			ga.OriginPoint = c.Point()
		}
		if c, ok := Lookup(a.Target); ok {
			ga.TargetName = c.Name
			ga.TargetPoint = c.Point()
		}
		out = append(out, ga)
	}
	return out
}
