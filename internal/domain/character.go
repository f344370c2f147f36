package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Character struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RoomID      uuid.UUID      `json:"roomId" gorm:"type:uuid;not null;uniqueIndex:idx_room_character_slot"`
	Slot        int            `json:"slot" gorm:"not null;uniqueIndex:idx_room_character_slot"`
	PlayerName  string         `json:"name" gorm:"not null"`
	Description string         `json:"description" gorm:"not null"`
	StyleID     string         `json:"styleId" gorm:"not null"`
	StyleLabel  string         `json:"styleLabel" gorm:"not null"`
	ImagePath   string         `json:"-" gorm:"not null"`
	ImageURL    string         `json:"imageUrl" gorm:"not null"`
	Attack      int            `json:"attack" gorm:"not null;default:20"`
	Defense     int            `json:"defense" gorm:"not null;default:20"`
	Magic       int            `json:"magic" gorm:"not null;default:20"`
	Mana        int            `json:"mana" gorm:"not null;default:20"`
	Speed       int            `json:"speed" gorm:"not null;default:20"`
	Summary     string         `json:"summary"`
	IsEditing   bool           `json:"isEditing" gorm:"not null;default:false"`
	RawAnalysis datatypes.JSON `json:"-" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"createdAt"`

	// Relations
	Room *Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}
