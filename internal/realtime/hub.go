// Package realtime provides the websocket session layer: the fan-out hub,
// per-connection clients and the connection lifecycle.
package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/fanlink/fanlink/internal/model"
)

// Hub fans events out to every connected client. It is decoupled from the
// presence registry: the registry answers "who is reachable", the hub owns
// the broadcast set.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	// Channels for managing clients
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("component", "hub")),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client registered",
				slog.String("user_id", string(client.user.ID)),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				clientCount := len(h.clients)
				h.mu.Unlock()
				duration := time.Since(client.connectedAt)
				h.logger.Info("client unregistered",
					slog.String("user_id", string(client.user.ID)),
					slog.Duration("connection_duration", duration),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			sentCount := 0
			droppedCount := 0
			for client := range h.clients {
				if err := client.enqueue(message); err != nil {
					droppedCount++
					h.logger.Warn("broadcast dropped for client",
						slog.String("user_id", string(client.user.ID)),
						slog.String("error", err.Error()))
				} else {
					sentCount++
				}
			}
			h.mu.RUnlock()
			if droppedCount > 0 {
				h.logger.Warn("broadcast partial failure",
					slog.Int("sent", sentCount),
					slog.Int("dropped", droppedCount))
			}

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				client.close()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// Register adds a client to the broadcast set
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the broadcast set
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast sends raw bytes to all clients
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	default:
		h.logger.Warn("broadcast dropped - hub buffer full")
	}
}

// BroadcastEvent marshals an event once and sends it to all clients
func (h *Hub) BroadcastEvent(ev model.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("broadcast marshal failed",
			slog.String("event", string(ev.Type)),
			slog.String("error", err.Error()))
		return
	}
	h.Broadcast(data)
}

// Close shuts down the hub
func (h *Hub) Close() {
	close(h.done)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
