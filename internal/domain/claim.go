package domain

import (
	"time"

	"github.com/google/uuid"
)

// SlotClaim binds an opaque bearer token to one of the two participant slots
// of a room. The token is a capability: whoever presents it owns the slot.
// Rows are insert-only; the composite unique index is what makes a concurrent
// double-claim lose cleanly.
type SlotClaim struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RoomID    uuid.UUID `json:"roomId" gorm:"type:uuid;not null;uniqueIndex:idx_room_slot"`
	Slot      int       `json:"slot" gorm:"not null;uniqueIndex:idx_room_slot"`
	Token     string    `json:"-" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`
}
