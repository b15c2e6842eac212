// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package websocket

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/attackmap/internal/logging"
	"github.com/tomtom215/attackmap/internal/metrics"
	"github.com/tomtom215/attackmap/internal/models"
)

//nolint:gochecknoinits // keep test output quiet
func init() {
	logging.Init(logging.Config{Level: "error", Format: "console", Output: io.Discard})
}

func setupHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.GetClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) (Message, bool) {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		return msg, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}, false
	}
}

func TestBroadcastReachesRegisteredClients(t *testing.T) {
	hub := setupHub(t)
	a := newClient(hub, nil, 4)
	b := newClient(hub, nil, 4)
	hub.Register <- a
	hub.Register <- b
	waitForClients(t, hub, 2)

	snap := models.NewSnapshot("snap-1", models.SourceUpstream,
		[]models.Arc{{Origin: "US", Target: "DE", Magnitude: 42}}, nil, time.Now())
	if !hub.BroadcastSnapshot(snap) {
		t.Fatal("BroadcastSnapshot() = false")
	}

	for _, c := range []*Client{a, b} {
		msg, ok := receive(t, c)
		if !ok {
			t.Fatal("send channel closed")
		}
		if msg.Type != MessageTypeSnapshotUpdated {
			t.Errorf("type = %q, want %q", msg.Type, MessageTypeSnapshotUpdated)
		}
		payload, isSnap := msg.Data.(SnapshotMessage)
		if !isSnap {
			t.Fatalf("data type = %T", msg.Data)
		}
		if payload.ID != "snap-1" || len(payload.Arcs) != 1 || payload.Arcs[0].Magnitude != 42 {
			t.Errorf("payload = %+v", payload)
		}
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := setupHub(t)
	fast := newClient(hub, nil, 4)
	slow := newClient(hub, nil, 1)
	hub.Register <- fast
	hub.Register <- slow
	waitForClients(t, hub, 2)

	if !slow.Queue(Message{Type: MessageTypeSnapshot}) {
		t.Fatal("could not fill slow client buffer")
	}
	before := testutil.ToFloat64(metrics.WSMessagesDropped.WithLabelValues("client"))

	hub.BroadcastJSON(MessageTypeSnapshotUpdated, nil)
	waitForClients(t, hub, 1)

	if msg, ok := receive(t, fast); !ok || msg.Type != MessageTypeSnapshotUpdated {
		t.Errorf("fast client got %+v (open=%v)", msg, ok)
	}

	// The buffered message is still delivered, then the channel is closed.
	if msg, ok := receive(t, slow); !ok || msg.Type != MessageTypeSnapshot {
		t.Errorf("slow client first message = %+v (open=%v)", msg, ok)
	}
	if _, ok := receive(t, slow); ok {
		t.Error("slow client channel should be closed")
	}

	after := testutil.ToFloat64(metrics.WSMessagesDropped.WithLabelValues("client"))
	if after-before != 1 {
		t.Errorf("dropped counter delta = %v, want 1", after-before)
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	hub := setupHub(t)
	c := newClient(hub, nil, 1)
	hub.Register <- c
	waitForClients(t, hub, 1)

	hub.Unregister <- c
	waitForClients(t, hub, 0)
	if _, ok := receive(t, c); ok {
		t.Error("send channel should be closed after unregister")
	}
}

func TestShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- hub.RunWithContext(ctx) }()

	c := newClient(hub, nil, 1)
	hub.Register <- c
	waitForClients(t, hub, 1)

	cancel()
	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("RunWithContext() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
	if hub.GetClientCount() != 0 {
		t.Errorf("clients after shutdown = %d", hub.GetClientCount())
	}
	if _, ok := receive(t, c); ok {
		t.Error("send channel should be closed after shutdown")
	}
}

func TestBroadcastDropsWhenQueueFull(t *testing.T) {
	hub := NewHub() // not running, so nothing drains the queue
	for i := 0; i < defaultBroadcastBuffer; i++ {
		if !hub.BroadcastJSON(MessageTypeSnapshotUpdated, i) {
			t.Fatalf("broadcast %d rejected before queue was full", i)
		}
	}
	if hub.BroadcastJSON(MessageTypeSnapshotUpdated, "overflow") {
		t.Error("BroadcastJSON() on a full queue = true, want false")
	}
}

func TestNewSnapshotMessage(t *testing.T) {
	msg := NewSnapshotMessage(nil)
	if msg.Arcs == nil || len(msg.Arcs) != 0 {
		t.Errorf("nil snapshot arcs = %#v, want empty slice", msg.Arcs)
	}
	if msg.Source != models.SourceNone {
		t.Errorf("source = %q, want %q", msg.Source, models.SourceNone)
	}
	if msg.GeneratedAt != "" {
		t.Errorf("generated_at = %q, want empty", msg.GeneratedAt)
	}

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msg = NewSnapshotMessage(models.NewSnapshot("x", models.SourceSynthetic, nil, nil, at))
	if msg.GeneratedAt != "2026-03-01T12:00:00Z" {
		t.Errorf("generated_at = %q", msg.GeneratedAt)
	}
}
