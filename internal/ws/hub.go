// Package ws pushes change nudges to room subscribers. The nudge carries no
// authoritative state: clients react by re-polling the status endpoint,
// which remains the source of truth. Rooms with no subscribers cost nothing.
package ws

import (
	"encoding/json"
	"sync"
)

type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
	}
}

type event struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

// RoomChanged tells every subscriber of a room that its status snapshot is
// stale. Slow clients are skipped rather than blocking the writer.
func (h *Hub) RoomChanged(roomCode string) {
	payload, err := json.Marshal(event{Type: "status_changed", Room: roomCode})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[roomCode] {
		select {
		case client.send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribe(roomCode string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomCode] == nil {
		h.rooms[roomCode] = make(map[*Client]bool)
	}
	h.rooms[roomCode][client] = true
}

func (h *Hub) unsubscribe(roomCode string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.rooms[roomCode]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, roomCode)
		}
	}
}

// Subscribers reports the current subscriber count for a room.
func (h *Hub) Subscribers(roomCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomCode])
}
