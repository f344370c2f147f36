package handlers

import (
	"net/http"

	"github.com/dom/battle-arena/internal/service"
	"github.com/dom/battle-arena/internal/ws"
)

// WSHandler subscribes a client to a room's change nudges. The passphrase
// travels as a query parameter since websocket upgrades carry no body.
type WSHandler struct {
	roomService *service.RoomService
	hub         *ws.Hub
}

func NewWSHandler(roomService *service.RoomService, hub *ws.Hub) *WSHandler {
	return &WSHandler{
		roomService: roomService,
		hub:         hub,
	}
}

func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	code := roomCode(r)
	password := r.URL.Query().Get("password")

	room, err := h.roomService.JoinRoom(r.Context(), code, password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if err := h.hub.Serve(w, r, room.Code); err != nil {
		// Upgrade failures already wrote a response.
		return
	}
}
