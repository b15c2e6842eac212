// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package radar

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/attackmap/internal/logging"
	"github.com/tomtom215/attackmap/internal/metrics"
)

// BreakerConfig tunes the circuit breaker placed in front of the upstream.
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32        // probes allowed while half-open
	Interval     time.Duration // closed-state count reset period
	Timeout      time.Duration // open duration before probing
	FailureRatio float64
	MinRequests  uint32
}

// DefaultBreakerConfig trips after 60% failures over at least 3 requests and
// probes again after two minutes.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "radar-api",
		MaxRequests:  1,
		Interval:     5 * time.Minute,
		Timeout:      2 * time.Minute,
		FailureRatio: 0.6,
		MinRequests:  3,
	}
}

// CircuitBreakerClient wraps Client with a circuit breaker so a dead upstream
// is not hammered on every refresh. While the circuit is open, Fetch fails
// fast with a KindCircuitOpen error and callers fall back as usual.
//
// The breaker uses real time for its interval and timeout; tests drive it
// through request counts rather than clocks.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[*Result]
	name   string
}

// NewCircuitBreakerClient wraps client. Zero config fields take the defaults.
func NewCircuitBreakerClient(client *Client, cfg BreakerConfig) *CircuitBreakerClient {
	def := DefaultBreakerConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.FailureRatio <= 0 || cfg.FailureRatio > 1 {
		cfg.FailureRatio = def.FailureRatio
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = def.MinRequests
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cfg.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[*Result](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := ratio >= cfg.FailureRatio
			if trip {
				logging.Warn().
					Str("breaker", cfg.Name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("Opening upstream circuit")
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("Circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
		// Shutdown cancellation and rejected requests say nothing about
		// upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || IsRequestRejected(err)
		},
	})

	return &CircuitBreakerClient{client: client, cb: cb, name: cfg.Name}
}

// Fetch runs Client.Fetch through the breaker.
func (c *CircuitBreakerClient) Fetch(ctx context.Context, opts FetchOptions) (*Result, error) {
	res, err := c.cb.Execute(func() (*Result, error) {
		return c.client.Fetch(ctx, opts)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
			metrics.RecordUpstreamRequest(string(KindCircuitOpen), 0)
			return nil, &FetchError{Kind: KindCircuitOpen, Err: errors.Join(ErrCircuitOpen, err)}
		}
		if IsRequestRejected(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "bad_request").Inc()
			return nil, err
		}
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(c.name).Set(float64(c.cb.Counts().ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(c.name).Set(0)
	return res, nil
}

// Client returns the wrapped client.
func (c *CircuitBreakerClient) Client() *Client {
	return c.client
}

// State returns the breaker state as "closed", "half-open" or "open".
func (c *CircuitBreakerClient) State() string {
	return stateToString(c.cb.State())
}

// Name returns the breaker name used in metrics.
func (c *CircuitBreakerClient) Name() string {
	return c.name
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
