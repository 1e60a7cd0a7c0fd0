// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

// Package websocket is the live feed of recommendations.
//
// A Hub owns the set of connected clients and runs as a supervised service.
// It consumes DishRecommended events and broadcasts each one as
//
//	{"type": "recommendation", "data": <event>}
//
// The feed is one-way. Clients get a websocket ping every 54 seconds; any
// frame they send is discarded.
package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/dishpick/internal/events"
	"github.com/tomtom215/dishpick/internal/logging"
	"github.com/tomtom215/dishpick/internal/metrics"
)

// MessageTypeRecommendation tags a DishRecommended event on the feed.
const MessageTypeRecommendation = "recommendation"

// Message is the wire format of the feed.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Hub maintains active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	stopped  chan struct{}
	stopOnce sync.Once
}

var _ events.Handler = (*Hub)(nil)

// NewHub creates a hub. Call Serve to start it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stopped:    make(chan struct{}),
	}
}

// Register adds c to the hub and starts its pumps.
func (h *Hub) Register(ctx context.Context, c *Client) bool {
	select {
	case h.register <- c:
		c.Start()
		return true
	case <-ctx.Done():
		return false
	case <-h.stopped:
		return false
	}
}

// unregisterClient hands c back to the hub loop for removal.
func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stopped:
	}
}

// Serve runs the hub until ctx is canceled, then closes every client.
// It implements suture.Service.
func (h *Hub) Serve(ctx context.Context) error {
	defer func() {
		h.closeAllClients()
		h.stopOnce.Do(func() { close(h.stopped) })
	}()
	for {
		// lifecycle events go before broadcasts
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-h.register:
			h.add(c)
			continue
		case c := <-h.unregister:
			h.remove(c)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		case msg := <-h.broadcast:
			h.broadcastToClients(msg)
		}
	}
}

func (h *Hub) String() string {
	return "websocket-hub"
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.mu.Unlock()
	metrics.WebSocketClients.Set(float64(n))
	logging.Info().Int("total_clients", n).Msg("websocket client connected")
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.WebSocketClients.Set(float64(n))
	logging.Info().Int("total_clients", n).Msg("websocket client disconnected")
}

// broadcastToClients sends in client ID order. Clients whose buffer is full
// are dropped.
func (h *Hub) broadcastToClients(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			close(c.send)
			delete(h.clients, c)
			logging.Warn().Uint64("client_id", c.id).Msg("dropping slow websocket client")
		}
	}
	metrics.WebSocketClients.Set(float64(len(h.clients)))
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.clients)
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	metrics.WebSocketClients.Set(0)
	logging.Info().
		Str("component", "websocket-hub").
		Int("clients_closed", n).
		Msg("websocket hub stopped")
}

// Broadcast queues msg for every client. It never blocks; when the queue is
// full the message is dropped.
func (h *Hub) Broadcast(msg Message) bool {
	select {
	case h.broadcast <- msg:
		return true
	default:
		logging.Warn().Str("message_type", msg.Type).Msg("broadcast channel full, dropping message")
		return false
	}
}

// Name implements events.Handler.
func (h *Hub) Name() string {
	return "websocket"
}

// HandleDishRecommended implements events.Handler. A full queue is not an
// error: the live feed is best effort.
func (h *Hub) HandleDishRecommended(_ context.Context, e *events.DishRecommended) error {
	h.Broadcast(Message{Type: MessageTypeRecommendation, Data: e})
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
