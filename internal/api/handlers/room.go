package handlers

import (
	"net/http"

	"github.com/dom/battle-arena/internal/domain"
	"github.com/dom/battle-arena/internal/service"
	"github.com/go-chi/chi/v5"
)

type RoomHandler struct {
	roomService   *service.RoomService
	statusService *service.StatusService
}

func NewRoomHandler(roomService *service.RoomService, statusService *service.StatusService) *RoomHandler {
	return &RoomHandler{
		roomService:   roomService,
		statusService: statusService,
	}
}

type CreateRoomRequest struct {
	RoomName  string `json:"roomName"`
	Password  string `json:"password"`
	CharLimit int    `json:"charLimit"`
	StoryMin  int    `json:"storyMin"`
	StoryMax  int    `json:"storyMax"`
}

type JoinRoomRequest struct {
	RoomCode string `json:"roomCode"`
	Password string `json:"password"`
}

type roomConfigResponse struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	CharLimit int    `json:"charLimit"`
	StoryMin  int    `json:"storyMin"`
	StoryMax  int    `json:"storyMax"`
}

func roomConfig(room *domain.Room) roomConfigResponse {
	return roomConfigResponse{
		Code:      room.Code,
		Name:      room.Name,
		CharLimit: room.MaxCharLength,
		StoryMin:  room.StoryMinLength,
		StoryMax:  room.StoryMaxLength,
	}
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if !decodeBody(w, r, &req) {
		return
	}

	room, err := h.roomService.CreateRoom(r.Context(), service.CreateRoomInput{
		RoomName:  req.RoomName,
		Password:  req.Password,
		CharLimit: req.CharLimit,
		StoryMin:  req.StoryMin,
		StoryMax:  req.StoryMax,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"roomCode": room.Code})
}

func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinRoomRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RoomCode == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Missing room code or password")
		return
	}

	room, err := h.roomService.JoinRoom(r.Context(), req.RoomCode, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"room": roomConfig(room)})
}

type StatusRequest struct {
	Password string `json:"password"`
	Token    string `json:"token"`
}

func (h *RoomHandler) Status(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	snapshot, err := h.statusService.Status(r.Context(), chi.URLParam(r, "code"), req.Password, req.Token)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}
