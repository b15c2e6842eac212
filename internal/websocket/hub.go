// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/attackmap/internal/logging"
	"github.com/tomtom215/attackmap/internal/metrics"
	"github.com/tomtom215/attackmap/internal/models"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeSnapshot        = "snapshot"
	MessageTypeSnapshotUpdated = "snapshot_updated"
	MessageTypePing            = "ping"
	MessageTypePong            = "pong"
)

const defaultBroadcastBuffer = 256

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// SnapshotMessage is the payload of snapshot and snapshot_updated messages.
type SnapshotMessage struct {
	ID          string                 `json:"id"`
	Source      models.Source          `json:"source"`
	GeneratedAt string                 `json:"generated_at,omitempty"`
	Arcs        []models.Arc           `json:"arcs"`
	Meta        map[string]interface{} `json:"meta,omitempty"`
}

// NewSnapshotMessage converts a snapshot to its wire payload.
func NewSnapshotMessage(s *models.Snapshot) SnapshotMessage {
	if s == nil {
		s = models.EmptySnapshot()
	}
	msg := SnapshotMessage{
		ID:     s.ID,
		Source: s.Source,
		Arcs:   s.Arcs,
		Meta:   s.Meta,
	}
	if msg.Arcs == nil {
		msg.Arcs = []models.Arc{}
	}
	if !s.GeneratedAt.IsZero() {
		msg.GeneratedAt = s.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return msg
}

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, defaultBroadcastBuffer),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext runs the hub until ctx is done and returns ctx.Err().
//
// Client lifecycle events are drained before broadcasts so that a client
// registered just before a broadcast always receives it.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()
	metrics.WSConnections.Set(float64(total))
	logging.Debug().Uint64("client_id", client.id).Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	metrics.WSConnections.Set(float64(total))
	logging.Debug().Uint64("client_id", client.id).Int("total_clients", total).Msg("websocket client disconnected")
}

// logGracefulShutdown closes every client and logs the shutdown without an
// error field; cancellation is the expected way to stop the hub.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// broadcastToClients queues message for every client in ID order. A client
// whose send buffer is full is disconnected: a dashboard that cannot keep up
// reconnects and receives the current snapshot again.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.sortedClientsLocked()
	var dropped int
	for _, client := range clients {
		select {
		case client.send <- message:
			metrics.WSMessagesSent.Inc()
		default:
			close(client.send)
			delete(h.clients, client)
			dropped++
		}
	}

	if dropped > 0 {
		metrics.WSMessagesDropped.WithLabelValues("client").Add(float64(dropped))
		metrics.WSConnections.Set(float64(len(h.clients)))
		logging.Warn().
			Int("dropped_clients", dropped).
			Str("message_type", message.Type).
			Msg("Dropped slow websocket clients")
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClientsLocked() {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WSConnections.Set(0)
}

func (h *Hub) sortedClientsLocked() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// BroadcastJSON sends a JSON message to all connected clients. It never
// blocks; when the hub's queue is full the message is dropped.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) bool {
	message := Message{
		Type: messageType,
		Data: data,
	}

	select {
	case h.broadcast <- message:
		return true
	default:
		metrics.WSMessagesDropped.WithLabelValues("hub").Inc()
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
		return false
	}
}

// BroadcastSnapshot notifies every dashboard that a new snapshot is live.
func (h *Hub) BroadcastSnapshot(s *models.Snapshot) bool {
	return h.BroadcastJSON(MessageTypeSnapshotUpdated, NewSnapshotMessage(s))
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
