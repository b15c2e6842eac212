// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateETag(t *testing.T) {
	a := generateETag([]byte(`{"arcs":[]}`))
	b := generateETag([]byte(`{"arcs":[]}`))
	c := generateETag([]byte(`{"arcs":[{}]}`))
	if a == "" || a != b {
		t.Errorf("ETag not stable: %q vs %q", a, b)
	}
	if a == c {
		t.Errorf("different bodies share ETag %q", a)
	}
	// FNV-1a 32-bit of "hello".
	if got := generateETag([]byte("hello")); got != "4f9f2cab" {
		t.Errorf("generateETag(hello) = %q, want 4f9f2cab", got)
	}
}

func TestSanitizeLogValue(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"line\nbreak", "line\\x0abreak"},
		{"tab\there", "tab\\x09here"},
		{"del\x7f", "del\\x7f"},
	}
	for _, tt := range tests {
		if got := sanitizeLogValue(tt.in); got != tt.want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseWindowRequest(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantLimit int
		wantRange string
		wantErr   bool
	}{
		{"defaults", "", 50, "", false},
		{"explicit", "limit=10&dateRange=7d", 10, "7d", false},
		{"trimmed", "limit=%2010%20", 10, "", false},
		{"max", "limit=100", 100, "", false},
		{"too big", "limit=101", 0, "", true},
		{"negative", "limit=-1", 0, "", true},
		{"float", "limit=1.5", 0, "", true},
		{"control suffix", "dateRange=1dControl", 50, "1dControl", false},
		{"bad range", "dateRange=0d", 0, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/events?"+tt.query, nil)
			req, apiErr := parseWindowRequest(r, 50)
			if tt.wantErr {
				if apiErr == nil || apiErr.Code != "VALIDATION_ERROR" {
					t.Fatalf("apiErr = %+v, want VALIDATION_ERROR", apiErr)
				}
				return
			}
			if apiErr != nil {
				t.Fatalf("unexpected error %+v", apiErr)
			}
			if req.Limit != tt.wantLimit || req.DateRange != tt.wantRange {
				t.Errorf("req = %+v", req)
			}
			if (req.Window().Range != "") != (tt.wantRange != "") {
				t.Errorf("Window() = %+v", req.Window())
			}
		})
	}
}
