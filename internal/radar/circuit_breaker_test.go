// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package radar

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, nil)

	cbc := NewCircuitBreakerClient(client, BreakerConfig{
		Name:        "test-opens",
		MinRequests: 3,
		Timeout:     time.Minute,
	})
	if cbc.State() != "closed" {
		t.Fatalf("initial State() = %q", cbc.State())
	}

	for i := 0; i < 3; i++ {
		_, err := cbc.Fetch(context.Background(), FetchOptions{})
		if KindOf(err) != KindStatus {
			t.Fatalf("fetch %d: KindOf = %q, want status", i, KindOf(err))
		}
	}
	if cbc.State() != "open" {
		t.Fatalf("State() = %q after 3 failures, want open", cbc.State())
	}

	_, err := cbc.Fetch(context.Background(), FetchOptions{})
	if KindOf(err) != KindCircuitOpen {
		t.Errorf("KindOf = %q, want circuit_open", KindOf(err))
	}
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("err = %v, want ErrCircuitOpen", err)
	}
	if hits.Load() != 3 {
		t.Errorf("upstream hit %d times, want 3", hits.Load())
	}
}

func TestCircuitBreaker_SuccessKeepsClosed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(scenarioBody))
	}, nil)
	cbc := NewCircuitBreakerClient(client, BreakerConfig{Name: "test-success", MinRequests: 2})

	for i := 0; i < 5; i++ {
		res, err := cbc.Fetch(context.Background(), FetchOptions{})
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if len(res.Arcs) != 1 {
			t.Fatalf("got %d arcs", len(res.Arcs))
		}
	}
	if cbc.State() != "closed" {
		t.Errorf("State() = %q, want closed", cbc.State())
	}
	if cbc.Client() != client {
		t.Error("Client() should return the wrapped client")
	}
}

func TestCircuitBreaker_CancellationDoesNotTrip(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(scenarioBody))
	}, nil)
	cbc := NewCircuitBreakerClient(client, BreakerConfig{Name: "test-cancel", MinRequests: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 3; i++ {
		if _, err := cbc.Fetch(ctx, FetchOptions{}); err == nil {
			t.Fatal("Fetch() with canceled context should fail")
		}
	}
	if cbc.State() != "closed" {
		t.Errorf("State() = %q, want closed", cbc.State())
	}
}

func TestBreakerConfigDefaults(t *testing.T) {
	cbc := NewCircuitBreakerClient(&Client{}, BreakerConfig{})
	if cbc.Name() != "radar-api" {
		t.Errorf("Name() = %q", cbc.Name())
	}
}

func TestCircuitBreaker_RejectedRequestsDoNotTrip(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("dateRange") == "52w" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"success":false,"errors":[{"message":"range not allowed"}]}`))
			return
		}
		_, _ = w.Write([]byte(scenarioBody))
	}, nil)

	cbc := NewCircuitBreakerClient(client, BreakerConfig{Name: "test-bad-request", MinRequests: 3, Timeout: time.Minute})
	for i := 0; i < 5; i++ {
		_, err := cbc.Fetch(context.Background(), FetchOptions{Window: RangeWindow("52w")})
		if !IsRequestRejected(err) {
			t.Fatalf("fetch %d: err = %v, want rejected request", i, err)
		}
	}
	if cbc.State() != "closed" {
		t.Fatalf("State() = %q after rejected requests, want closed", cbc.State())
	}

	res, err := cbc.Fetch(context.Background(), FetchOptions{})
	if err != nil || len(res.Arcs) != 1 {
		t.Errorf("default window fetch = %v, %v; want one arc", res, err)
	}
}

func TestIsRequestRejected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"bad request", &FetchError{Kind: KindStatus, StatusCode: 400}, true},
		{"not found", &FetchError{Kind: KindStatus, StatusCode: 404}, true},
		{"unauthorized", &FetchError{Kind: KindStatus, StatusCode: 401}, false},
		{"forbidden", &FetchError{Kind: KindStatus, StatusCode: 403}, false},
		{"rate limited", &FetchError{Kind: KindStatus, StatusCode: 429}, false},
		{"server error", &FetchError{Kind: KindStatus, StatusCode: 502}, false},
		{"transport", &FetchError{Kind: KindTransport, Err: errors.New("refused")}, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRequestRejected(tt.err); got != tt.want {
				t.Errorf("IsRequestRejected() = %v, want %v", got, tt.want)
			}
		})
	}
}
