package handlers

import (
	"net/http"

	"github.com/dom/battle-arena/internal/service"
	"github.com/dom/battle-arena/internal/ws"
)

type BattleHandler struct {
	battleService *service.BattleService
	hub           *ws.Hub
}

func NewBattleHandler(battleService *service.BattleService, hub *ws.Hub) *BattleHandler {
	return &BattleHandler{
		battleService: battleService,
		hub:           hub,
	}
}

type BattleRequest struct {
	Password string `json:"password"`
	Force    bool   `json:"force"`
}

func (h *BattleHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req BattleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	outcome, err := h.battleService.StartBattle(r.Context(), roomCode(r), req.Password, req.Force)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// Lock contention is a status, not an error.
	if outcome.Generating {
		respondJSON(w, http.StatusOK, map[string]string{"battleStatus": "generating"})
		return
	}

	h.hub.RoomChanged(roomCode(r))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"battle":       outcome.Battle,
		"battleStatus": "done",
	})
}
