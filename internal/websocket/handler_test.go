// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/attackmap/internal/models"
)

type wireMessage struct {
	Type string          `json:"type"`
	Data SnapshotMessage `json:"data"`
}

func dial(t *testing.T, srv *httptest.Server, origin string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readWire(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var msg wireMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return msg
}

func TestHandlerSendsCurrentSnapshotThenUpdates(t *testing.T) {
	hub := setupHub(t)
	current := models.NewSnapshot("first", models.SourceUpstream,
		[]models.Arc{{Origin: "US", Target: "DE", Magnitude: 42}}, nil, time.Now())
	srv := httptest.NewServer(NewHandler(hub, func() *models.Snapshot { return current }, []string{"*"}))
	defer srv.Close()

	conn := dial(t, srv, "")
	first := readWire(t, conn)
	if first.Type != MessageTypeSnapshot || first.Data.ID != "first" {
		t.Fatalf("first message = %+v", first)
	}
	if len(first.Data.Arcs) != 1 || first.Data.Arcs[0].Origin != "US" {
		t.Errorf("first arcs = %+v", first.Data.Arcs)
	}

	waitForClients(t, hub, 1)
	next := models.NewSnapshot("second", models.SourceSynthetic,
		[]models.Arc{{Origin: "FR", Target: "JP", Magnitude: 3.5}}, nil, time.Now())
	hub.BroadcastSnapshot(next)

	update := readWire(t, conn)
	if update.Type != MessageTypeSnapshotUpdated || update.Data.ID != "second" {
		t.Fatalf("update = %+v", update)
	}
	if update.Data.Source != models.SourceSynthetic {
		t.Errorf("source = %q", update.Data.Source)
	}
}

func TestHandlerAnswersPing(t *testing.T) {
	hub := setupHub(t)
	srv := httptest.NewServer(NewHandler(hub, nil, []string{"*"}))
	defer srv.Close()

	conn := dial(t, srv, "")
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
	if msg := readWire(t, conn); msg.Type != MessageTypePong {
		t.Errorf("reply type = %q, want %q", msg.Type, MessageTypePong)
	}
}

func TestHandlerOriginCheck(t *testing.T) {
	hub := setupHub(t)
	srv := httptest.NewServer(NewHandler(hub, nil, []string{"https://dash.example"}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{}
	header.Set("Origin", "https://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("Dial() with foreign origin succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	conn := dial(t, srv, "https://dash.example")
	if msg := readWireOrNothing(conn); msg != nil {
		t.Errorf("unexpected message without snapshot source: %+v", msg)
	}
}

// readWireOrNothing returns nil when no message arrives shortly.
func readWireOrNothing(conn *websocket.Conn) *wireMessage {
	_ = conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil
	}
	var msg wireMessage
	if json.Unmarshal(data, &msg) != nil {
		return nil
	}
	return &msg
}
