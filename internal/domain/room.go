package domain

import (
	"time"

	"github.com/google/uuid"
)

type BattleStatus string

const (
	// BattleStatusIdle is the zero value; the column defaults to it so the
	// conditional lock update can test against a single non-null state.
	BattleStatusIdle       BattleStatus = ""
	BattleStatusGenerating BattleStatus = "generating"
)

type Room struct {
	ID              uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Code            string       `json:"code" gorm:"uniqueIndex;not null"`
	Name            string       `json:"name"`
	PassHash        string       `json:"-" gorm:"not null"`
	MaxCharLength   int          `json:"maxCharLength" gorm:"not null;default:50"`
	StoryMinLength  int          `json:"storyMinLength" gorm:"not null;default:300"`
	StoryMaxLength  int          `json:"storyMaxLength" gorm:"not null;default:500"`
	BattleStatus    BattleStatus `json:"battleStatus" gorm:"not null;default:''"`
	BattleStartedAt *time.Time   `json:"battleStartedAt"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// RoomLimits are the bounds applied to room creation parameters.
const (
	MinCharLimit = 10
	MaxCharLimit = 80
	MinStoryLen  = 200
	MaxStoryLen  = 6000

	DefaultCharLimit = 50
	DefaultStoryMin  = 300
	DefaultStoryMax  = 500

	RoomCodeLength = 6
)
