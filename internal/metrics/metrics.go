// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream (threat-intelligence API) metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attackmap_upstream_requests_total",
			Help: "Total upstream fetches by outcome",
		},
		[]string{"outcome"}, // "success", "empty", "transport", "status", "parse", "circuit_open"
	)

	UpstreamRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "attackmap_upstream_request_duration_seconds",
			Help:    "Duration of upstream fetches in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
	)

	UpstreamArcsParsed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "attackmap_upstream_arcs_parsed",
			Help:    "Number of arcs extracted from one upstream response",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	UpstreamRecordsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "attackmap_upstream_records_dropped_total",
			Help: "Upstream records dropped for missing origin or target",
		},
	)

	// Refresh orchestrator metrics
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attackmap_refresh_total",
			Help: "Refresh ticks by result",
		},
		[]string{"result"}, // "fetched", "fallback", "skipped"
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "attackmap_refresh_duration_seconds",
			Help:    "Duration of a refresh tick including fallback generation",
			Buckets: prometheus.DefBuckets,
		},
	)

	FallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attackmap_fallback_total",
			Help: "Synthetic fallbacks by trigger",
		},
		[]string{"reason"}, // "empty" or a fetch failure kind
	)

	SnapshotArcs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "attackmap_snapshot_arcs",
			Help: "Number of arcs in the live snapshot",
		},
	)

	SnapshotSynthetic = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "attackmap_snapshot_synthetic",
			Help: "1 when the live snapshot holds synthetic data, 0 when it holds upstream data",
		},
	)

	SnapshotLastRefresh = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "attackmap_snapshot_last_refresh_timestamp_seconds",
			Help: "Unix time of the last installed snapshot",
		},
	)

	SnapshotLastUpstreamSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "attackmap_snapshot_last_upstream_success_timestamp_seconds",
			Help: "Unix time of the last snapshot built from upstream data",
		},
	)

	WindowLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attackmap_window_lookups_total",
			Help: "On-demand window lookups by cache result",
		},
		[]string{"cache"}, // "live", "hit", "miss"
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attackmap_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "attackmap_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "attackmap_api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)

	// WebSocket metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "attackmap_websocket_connections",
			Help: "Current number of connected dashboards",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "attackmap_websocket_messages_sent_total",
			Help: "Total number of WebSocket messages queued to clients",
		},
	)

	WSMessagesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attackmap_websocket_messages_dropped_total",
			Help: "WebSocket messages dropped because a buffer was full",
		},
		[]string{"stage"}, // "hub", "client"
	)

	// Snapshot event bus metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attackmap_events_published_total",
			Help: "Snapshot events published to the event bus",
		},
		[]string{"status"}, // "ok", "error"
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attackmap_events_consumed_total",
			Help: "Snapshot events consumed from the event bus",
		},
		[]string{"status"}, // "ok", "invalid"
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "attackmap_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attackmap_circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected", "bad_request"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "attackmap_circuit_breaker_consecutive_failures",
			Help: "Current consecutive failures seen by the circuit breaker",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attackmap_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordUpstreamRequest records the outcome and latency of one upstream fetch.
func RecordUpstreamRequest(outcome string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(outcome).Inc()
	UpstreamRequestDuration.Observe(duration.Seconds())
}

// RecordRefresh records one completed refresh tick.
func RecordRefresh(result string, arcs int, synthetic bool, duration time.Duration) {
	RefreshTotal.WithLabelValues(result).Inc()
	RefreshDuration.Observe(duration.Seconds())
	SnapshotArcs.Set(float64(arcs))
	SnapshotLastRefresh.SetToCurrentTime()
	if synthetic {
		SnapshotSynthetic.Set(1)
	} else {
		SnapshotSynthetic.Set(0)
		SnapshotLastUpstreamSuccess.SetToCurrentTime()
	}
}

// RecordRefreshSkipped records a tick that was dropped because a refresh was
// already in flight.
func RecordRefreshSkipped() {
	RefreshTotal.WithLabelValues("skipped").Inc()
}

// RecordFallback records why synthetic data was served.
func RecordFallback(reason string) {
	FallbackTotal.WithLabelValues(reason).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordEventPublished records a snapshot event publish attempt.
func RecordEventPublished(err error) {
	if err != nil {
		EventsPublished.WithLabelValues("error").Inc()
		return
	}
	EventsPublished.WithLabelValues("ok").Inc()
}
