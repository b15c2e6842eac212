// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/attackmap/internal/models"
	"github.com/tomtom215/attackmap/internal/radar"
)

// WindowRequest holds the validated window parameters of /events and
// /api/v1/arcs.
type WindowRequest struct {
	Limit     int    `validate:"min=1,max=100"`
	DateRange string `validate:"omitempty,daterange"`
}

// Window returns the upstream window the request asks for. An empty
// dateRange selects the configured default window.
func (req WindowRequest) Window() radar.Window {
	if req.DateRange == "" {
		return radar.Window{}
	}
	return radar.RangeWindow(req.DateRange)
}

// parseWindowRequest reads dateRange and limit. A missing limit means the
// configured live limit.
func parseWindowRequest(r *http.Request, defaultLimit int) (WindowRequest, *models.APIError) {
	q := r.URL.Query()
	req := WindowRequest{
		Limit:     defaultLimit,
		DateRange: strings.TrimSpace(q.Get("dateRange")),
	}

	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return req, &models.APIError{
				Code:    "VALIDATION_ERROR",
				Message: "limit must be an integer",
				Details: map[string]interface{}{"field": "limit", "value": sanitizeLogValue(raw)},
			}
		}
		req.Limit = limit
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		return req, apiErr
	}
	return req, nil
}
