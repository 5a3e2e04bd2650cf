/*
Package chat contains the core logic of the relay.

This file defines the Hub, the WebSocket side of the Gateway: it maps connection
identities to live Clients and enqueues marshaled events on their send queues.
*/
package chat

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"relaychat/internal/pkg/logx"
	"relaychat/internal/pkg/metrics"
)

// Hub tracks connected sockets and implements Gateway for them.
type Hub struct {
	// clients maps connection identity to its socket.
	clients map[string]*Client

	// mu protects clients. Deliver holds the read lock while enqueueing so a
	// send queue is never closed underneath it.
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logx.WithComponent("hub"),
	}
}

// Deliver marshals evt once and enqueues it for every listed connection.
// Unknown connections and full queues are skipped.
func (h *Hub) Deliver(connIDs []string, evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error().Err(err).Str("event_type", string(evt.Type)).Msg("Error marshaling event for delivery.")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, id := range connIDs {
		client, ok := h.clients[id]
		if !ok {
			continue
		}

		select {
		case client.send <- data:
		default:
			metrics.DeliveriesDropped.Inc()
			h.logger.Warn().
				Str("conn_id", id).
				Str("event_type", string(evt.Type)).
				Msg("Client send channel full, dropping event.")
		}
	}
}

// Add starts routing deliveries for client.ID() to client.
func (h *Hub) Add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.id] = client
	h.logger.Debug().Str("conn_id", client.id).Int("sockets", len(h.clients)).Msg("Socket added.")
}

// Remove stops routing to client and closes its send queue. It reports false
// if client was not (or no longer) registered.
func (h *Hub) Remove(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, ok := h.clients[client.id]
	if !ok || current != client {
		return false
	}

	delete(h.clients, client.id)
	close(client.send)

	h.logger.Debug().Str("conn_id", client.id).Int("sockets", len(h.clients)).Msg("Socket removed.")
	return true
}

// Len reports the number of sockets currently attached.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Shutdown closes every send queue; each write pump then sends a close frame and exits.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		close(client.send)
		delete(h.clients, id)
	}

	h.logger.Info().Msg("Hub shutdown complete.")
}
