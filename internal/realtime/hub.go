package realtime

import (
	"encoding/json"
	"sync"
)

// Client represents a single websocket client connection.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Event is a task lifecycle notification pushed to assignees.
type Event struct {
	Type   string `json:"type"`
	TaskID string `json:"taskId"`
}

// Hub maintains active user connections and broadcasts events to them.
// It is constructed once in main and injected into the handlers that
// publish or register connections.
type Hub struct {
	mu              sync.RWMutex
	userIDToClients map[string]map[Client]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{
		userIDToClients: make(map[string]map[Client]struct{}),
	}
}

// Register adds a client under a user ID.
func (h *Hub) Register(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.userIDToClients[userID]; !ok {
		h.userIDToClients[userID] = make(map[Client]struct{})
	}
	h.userIDToClients[userID][client] = struct{}{}
}

// Unregister removes a client; if user has no more clients, cleans up map.
func (h *Hub) Unregister(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.userIDToClients[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.userIDToClients, userID)
		}
	}
}

// Broadcast sends a message to all clients of a user.
func (h *Hub) Broadcast(userID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.userIDToClients[userID] {
		// A failed write is left for the ws handler to clean up on its side.
		c.Send(message)
	}
}

// Notify serializes an event and broadcasts it to every listed user.
func (h *Hub) Notify(userIDs []string, eventType, taskID string) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(Event{Type: eventType, TaskID: taskID})
	if err != nil {
		return
	}
	for _, id := range userIDs {
		h.Broadcast(id, msg)
	}
}
