// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

/*
Package validation provides struct validation using go-playground/validator
v10 behind a thread-safe singleton.

Query parameters are bound into small request structs and validated with
struct tags. Besides the built-in tags, one domain tag is registered:

  - daterange: a relative window token the upstream accepts ("1h", "7d",
    "12w", "1dControl"), checked with radar.ValidDateRange

Failures convert to the VALIDATION_ERROR API error format:

	type EventsRequest struct {
	    Limit     int    `validate:"min=1,max=100"`
	    DateRange string `validate:"omitempty,daterange"`
	}

	if err := validation.ValidateStruct(&req); err != nil {
	    apiErr := err.ToAPIError()
	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
	    return
	}
*/
package validation
