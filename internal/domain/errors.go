package domain

import "errors"

// Room and slot errors
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrMissingToken    = errors.New("missing slot token")
	ErrNotSlotOwner    = errors.New("token does not own this slot")
	ErrInvalidSlot     = errors.New("slot must be 1 or 2")
)

// Character errors
var (
	ErrSlotOccupied       = errors.New("slot already taken")
	ErrCharacterNotFound  = errors.New("character not found")
	ErrNameRequired       = errors.New("name and description required")
	ErrDescriptionTooLong = errors.New("description too long")
)

// Battle errors
var (
	ErrPlayersNotReady = errors.New("both players are required")
)
