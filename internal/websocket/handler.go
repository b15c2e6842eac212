// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/attackmap/internal/logging"
	"github.com/tomtom215/attackmap/internal/models"
)

// SnapshotSource returns the snapshot a newly connected dashboard starts from.
type SnapshotSource func() *models.Snapshot

// Handler upgrades HTTP requests and attaches the connections to a Hub.
type Handler struct {
	hub            *Hub
	current        SnapshotSource
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

// NewHandler creates a Handler. An allowedOrigins list containing "*"
// accepts any origin, including requests without an Origin header.
func NewHandler(hub *Hub, current SnapshotSource, allowedOrigins []string) *Handler {
	h := &Handler{
		hub:            hub,
		current:        current,
		allowedOrigins: allowedOrigins,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  4096,
		CheckOrigin:      h.checkOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
	return h
}

// ServeHTTP sends the current snapshot first, then every snapshot_updated
// broadcast until the connection closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(h.hub, conn)
	if h.current != nil {
		client.Queue(Message{Type: MessageTypeSnapshot, Data: NewSnapshotMessage(h.current())})
	}

	select {
	case h.hub.Register <- client:
	case <-r.Context().Done():
		_ = conn.Close()
		return
	}
	client.Start()
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" {
			return true
		}
		if origin != "" && allowed == origin {
			return true
		}
	}
	logging.Warn().Str("origin", origin).Msg("WebSocket connection rejected: origin not allowed")
	return false
}
