package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dom/battle-arena/internal/domain"
	"github.com/dom/battle-arena/internal/service"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("ERROR [api] encoding response: %v", err)
	}
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondServiceError maps domain sentinels onto the HTTP taxonomy; anything
// unrecognized is an upstream/storage failure and surfaces its detail for
// diagnosis.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		respondError(w, http.StatusNotFound, "Room not found")
	case errors.Is(err, domain.ErrInvalidPassword):
		respondError(w, http.StatusUnauthorized, "Invalid password")
	case errors.Is(err, domain.ErrMissingToken):
		respondError(w, http.StatusForbidden, "Missing slot token")
	case errors.Is(err, domain.ErrNotSlotOwner):
		respondError(w, http.StatusForbidden, "Not allowed")
	case errors.Is(err, domain.ErrInvalidSlot):
		respondError(w, http.StatusBadRequest, "Invalid slot")
	case errors.Is(err, domain.ErrNameRequired):
		respondError(w, http.StatusBadRequest, "Name and description required")
	case errors.Is(err, domain.ErrDescriptionTooLong):
		respondError(w, http.StatusBadRequest, "Description too long")
	case errors.Is(err, domain.ErrSlotOccupied):
		respondError(w, http.StatusConflict, "Slot already taken")
	case errors.Is(err, domain.ErrCharacterNotFound):
		respondError(w, http.StatusNotFound, "Character not found")
	case errors.Is(err, domain.ErrPlayersNotReady):
		respondError(w, http.StatusBadRequest, "Both players are required")
	case errors.Is(err, service.ErrPasswordTooShort):
		respondError(w, http.StatusBadRequest, "Password must be 4+ characters")
	default:
		log.Printf("ERROR [api] internal error: %v", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error:  "Internal error",
			Detail: err.Error(),
		})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return false
	}
	return true
}
