// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/attackmap/internal/radar"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one non-nil instance")
	}
}

type windowRequest struct {
	Limit     int    `validate:"min=1,max=100"`
	DateRange string `validate:"omitempty,daterange"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   windowRequest
		wantErr bool
		field   string
		tag     string
	}{
		{name: "defaults", input: windowRequest{Limit: 50}},
		{name: "hour token", input: windowRequest{Limit: 1, DateRange: "1h"}},
		{name: "control token", input: windowRequest{Limit: 100, DateRange: "7dControl"}},
		{name: "weeks", input: windowRequest{Limit: 10, DateRange: "52w"}},
		{name: "limit too low", input: windowRequest{Limit: 0}, wantErr: true, field: "Limit", tag: "min"},
		{name: "limit too high", input: windowRequest{Limit: 101}, wantErr: true, field: "Limit", tag: "max"},
		{name: "bad token", input: windowRequest{Limit: 5, DateRange: "yesterday"}, wantErr: true, field: "DateRange", tag: "daterange"},
		{name: "zero token", input: windowRequest{Limit: 5, DateRange: "0d"}, wantErr: true, field: "DateRange", tag: "daterange"},
		{name: "unsupported length", input: windowRequest{Limit: 5, DateRange: "3d"}, wantErr: true, field: "DateRange", tag: "daterange"},
		{name: "weeks out of range", input: windowRequest{Limit: 5, DateRange: "999w"}, wantErr: true, field: "DateRange", tag: "daterange"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), err)
			}
			if errs[0].Field() != tt.field || errs[0].Tag() != tt.tag {
				t.Errorf("error = %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.field, tt.tag)
			}
		})
	}
}

func TestToAPIError_Single(t *testing.T) {
	err := ValidateStruct(&windowRequest{Limit: 500})
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if apiErr.Message != "Limit must be at most 100" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "Limit" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_Multiple(t *testing.T) {
	err := ValidateStruct(&windowRequest{Limit: -1, DateRange: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr := err.ToAPIError()
	if !strings.Contains(apiErr.Message, "Limit: ") || !strings.Contains(apiErr.Message, "DateRange: ") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Errorf("Details = %#v", apiErr.Details)
	}
	if !strings.Contains(err.Error(), "; ") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestTranslateError_DateRangeMessage(t *testing.T) {
	err := ValidateStruct(&windowRequest{Limit: 1, DateRange: "soon"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Errors()[0].Error(); got != "DateRange must be a relative range such as 1h, 7d or 12w" {
		t.Errorf("message = %q", got)
	}
}

func TestEmptyRequestValidationError(t *testing.T) {
	var ve RequestValidationError
	if ve.Error() != "validation failed" {
		t.Errorf("Error() = %q", ve.Error())
	}
	if ve.ToAPIError().Code != "VALIDATION_ERROR" {
		t.Error("empty error should still map to VALIDATION_ERROR")
	}
}

func TestDateRangeTagMatchesUpstreamTokens(t *testing.T) {
	for _, token := range []string{"1h", "1d", "2d", "7d", "14d", "28d", "12w", "24w", "52w", "28dControl"} {
		if !radar.ValidDateRange(token) {
			t.Fatalf("radar.ValidDateRange(%q) = false", token)
		}
		if err := ValidateStruct(&windowRequest{Limit: 1, DateRange: token}); err != nil {
			t.Errorf("DateRange %q rejected: %v", token, err)
		}
	}
}
