package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Event types pushed to connected clients.
const (
	EventTimerTick      = "timer_tick"
	EventFocusComplete  = "focus_complete"
	EventBreakComplete  = "break_complete"
	EventSessionSettled = "session_settled"
	EventSyncStatus     = "sync_status"
)

// Event is a real-time notification broadcast to all clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// NewEvent creates an Event.
func NewEvent(eventType string, payload any) Event {
	return Event{Type: eventType, Payload: payload}
}

// ChangeEvent creates an Event describing an entity mutation, with the type
// derived from entity and action (e.g. "task_created").
func ChangeEvent(entity, action string, payload any) Event {
	return Event{
		Type:    fmt.Sprintf("%s_%s", entity, action),
		Payload: payload,
	}
}

// Hub maintains the set of active WebSocket clients and broadcasts events.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends an event to all connected clients.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client buffer full — drop the event to avoid blocking
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
