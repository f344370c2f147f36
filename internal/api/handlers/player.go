package handlers

import (
	"net/http"
	"time"

	"github.com/dom/battle-arena/internal/domain"
	"github.com/dom/battle-arena/internal/service"
	"github.com/dom/battle-arena/internal/ws"
	"github.com/go-chi/chi/v5"
)

// PlayerHandler covers slot claiming and character submission/editing.
type PlayerHandler struct {
	claimService     *service.ClaimService
	characterService *service.CharacterService
	hub              *ws.Hub
}

func NewPlayerHandler(claimService *service.ClaimService, characterService *service.CharacterService, hub *ws.Hub) *PlayerHandler {
	return &PlayerHandler{
		claimService:     claimService,
		characterService: characterService,
		hub:              hub,
	}
}

type ClaimRequest struct {
	Password string `json:"password"`
	Token    string `json:"token"`
}

type ClaimResponse struct {
	Spectator bool   `json:"spectator"`
	Slot      int    `json:"slot,omitempty"`
	Token     string `json:"token,omitempty"`
}

func (h *PlayerHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req ClaimRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.claimService.Claim(r.Context(), roomCode(r), req.Password, req.Token)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if !result.Spectator {
		h.hub.RoomChanged(roomCode(r))
	}
	respondJSON(w, http.StatusOK, ClaimResponse{
		Spectator: result.Spectator,
		Slot:      result.Slot,
		Token:     result.Token,
	})
}

type SubmitRequest struct {
	Password    string `json:"password"`
	Slot        int    `json:"slot"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Token       string `json:"token"`
	Force       bool   `json:"force"`
}

type PlayerResponse struct {
	ID          string    `json:"id"`
	Slot        int       `json:"slot"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StyleID     string    `json:"styleId"`
	StyleLabel  string    `json:"styleLabel"`
	ImageURL    string    `json:"imageUrl"`
	Attack      int       `json:"attack"`
	Defense     int       `json:"defense"`
	Magic       int       `json:"magic"`
	Mana        int       `json:"mana"`
	Speed       int       `json:"speed"`
	Summary     string    `json:"summary"`
	IsEditing   bool      `json:"isEditing"`
	CreatedAt   time.Time `json:"createdAt"`
}

func playerResponse(c *domain.Character) PlayerResponse {
	return PlayerResponse{
		ID:          c.ID.String(),
		Slot:        c.Slot,
		Name:        c.PlayerName,
		Description: c.Description,
		StyleID:     c.StyleID,
		StyleLabel:  c.StyleLabel,
		ImageURL:    c.ImageURL,
		Attack:      c.Attack,
		Defense:     c.Defense,
		Magic:       c.Magic,
		Mana:        c.Mana,
		Speed:       c.Speed,
		Summary:     c.Summary,
		IsEditing:   c.IsEditing,
		CreatedAt:   c.CreatedAt,
	}
}

func (h *PlayerHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	character, err := h.characterService.Submit(r.Context(), service.SubmitInput{
		RoomCode:    roomCode(r),
		Password:    req.Password,
		Slot:        req.Slot,
		Token:       req.Token,
		Name:        req.Name,
		Description: req.Description,
		Force:       req.Force,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.hub.RoomChanged(roomCode(r))
	respondJSON(w, http.StatusOK, map[string]interface{}{"player": playerResponse(character)})
}

type EditRequest struct {
	Password    string `json:"password"`
	Slot        int    `json:"slot"`
	Token       string `json:"token"`
	Editing     *bool  `json:"editing"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *PlayerHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req EditRequest
	if !decodeBody(w, r, &req) {
		return
	}

	character, err := h.characterService.Edit(r.Context(), service.EditInput{
		RoomCode:    roomCode(r),
		Password:    req.Password,
		Slot:        req.Slot,
		Token:       req.Token,
		Editing:     req.Editing,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.hub.RoomChanged(roomCode(r))
	respondJSON(w, http.StatusOK, map[string]interface{}{"player": playerResponse(character)})
}

func roomCode(r *http.Request) string {
	return chi.URLParam(r, "code")
}
