package domain

import (
	"time"

	"github.com/google/uuid"
)

// Battle is the single judged outcome for a room. At most one row exists per
// room at a time; a forced rematch deletes the old row and its artifacts
// before a new one is inserted.
type Battle struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RoomID          uuid.UUID `json:"roomId" gorm:"type:uuid;uniqueIndex;not null"`
	WinnerSlot      int       `json:"winnerSlot" gorm:"not null"`
	WinnerID        *uuid.UUID `json:"winnerId" gorm:"type:uuid"`
	Story           string    `json:"story" gorm:"not null"`
	BattleImagePath string    `json:"-" gorm:"not null"`
	BattleImageURL  string    `json:"battleImageUrl" gorm:"not null"`
	ResultImagePath string    `json:"-" gorm:"not null"`
	ResultImageURL  string    `json:"resultImageUrl" gorm:"not null"`
	CreatedAt       time.Time `json:"createdAt"`
}
