// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package radar

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// FailureKind classifies a fetch failure.
type FailureKind string

const (
	// KindTransport covers network errors and timeouts.
	KindTransport FailureKind = "transport"
	// KindStatus covers non-2xx responses.
	KindStatus FailureKind = "status"
	// KindParse covers bodies that are not the expected JSON envelope.
	KindParse FailureKind = "parse"
	// KindCircuitOpen means the request was not attempted because the
	// circuit breaker is open.
	KindCircuitOpen FailureKind = "circuit_open"
)

// ErrCircuitOpen is wrapped by fetch errors rejected by the circuit breaker.
var ErrCircuitOpen = errors.New("upstream circuit breaker is open")

// FetchError is the single error type returned by Fetch. Every FetchError is
// recoverable: callers fall back to synthetic data and carry on.
type FetchError struct {
	Kind       FailureKind
	StatusCode int // set for KindStatus
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("upstream %s failure (HTTP %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream %s failure: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a deadline or network timeout.
func (e *FetchError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// IsFetchFailure reports whether err is (or wraps) a FetchError.
func IsFetchFailure(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// KindOf returns the failure kind of err, or "" when err is not a FetchError.
func KindOf(err error) FailureKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// IsRequestRejected reports whether the upstream refused the request itself
// (a 4xx other than 401, 403 or 429). Such a failure describes the request,
// not upstream health.
func IsRequestRejected(err error) bool {
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Kind != KindStatus {
		return false
	}
	switch fe.StatusCode {
	case 401, 403, 429:
		return false
	}
	return fe.StatusCode >= 400 && fe.StatusCode < 500
}

func transportError(err error) *FetchError {
	return &FetchError{Kind: KindTransport, Err: err}
}

func parseError(format string, args ...interface{}) *FetchError {
	return &FetchError{Kind: KindParse, Err: fmt.Errorf(format, args...)}
}
