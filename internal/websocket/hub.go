package websocket

import (
	"encoding/json"
	"sync"
)

// PresenceUpdate is pushed to every connected dashboard whenever an
// astrologer's online flag changes.
type PresenceUpdate struct {
	AstrologerID string `json:"astrologer_id"`
	DisplayName  string `json:"display_name"`
	IsOnline     bool   `json:"is_online"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

// BroadcastPresence fans the update out to all clients; slow consumers
// are skipped rather than blocked on.
func (h *Hub) BroadcastPresence(update PresenceUpdate) {
	payload, _ := json.Marshal(update)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
		}
	}
}
