package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/dom/battle-arena/internal/domain"
	"github.com/dom/battle-arena/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrPasswordTooShort = errors.New("password must be 4+ characters")

// codeAlphabet avoids confusable characters (no I, O, 0, 1).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const roomCodeAttempts = 5

type RoomService struct {
	roomRepo repository.RoomRepository
}

func NewRoomService(roomRepo repository.RoomRepository) *RoomService {
	return &RoomService{roomRepo: roomRepo}
}

type CreateRoomInput struct {
	RoomName  string
	Password  string
	CharLimit int
	StoryMin  int
	StoryMax  int
}

func (s *RoomService) CreateRoom(ctx context.Context, input CreateRoomInput) (*domain.Room, error) {
	password := cleanText(input.Password)
	if len(password) < 4 {
		return nil, ErrPasswordTooShort
	}

	charLimit := clamp(input.CharLimit, domain.DefaultCharLimit, domain.MinCharLimit, domain.MaxCharLimit)
	storyMin := clamp(input.StoryMin, domain.DefaultStoryMin, domain.MinStoryLen, 4000)
	storyMax := clamp(input.StoryMax, domain.DefaultStoryMax, storyMin, domain.MaxStoryLen)

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Retry on code collisions; the unique index is the arbiter.
	for attempt := 0; attempt < roomCodeAttempts; attempt++ {
		room := &domain.Room{
			Code:           generateRoomCode(),
			Name:           cleanText(input.RoomName),
			PassHash:       string(passHash),
			MaxCharLength:  charLimit,
			StoryMinLength: storyMin,
			StoryMaxLength: storyMax,
		}

		err := s.roomRepo.Create(ctx, room)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("failed to allocate a unique room code")
}

// JoinRoom validates a code+passphrase pair and returns the room config.
func (s *RoomService) JoinRoom(ctx context.Context, code, password string) (*domain.Room, error) {
	return authorizeRoom(ctx, s.roomRepo, code, password)
}

func generateRoomCode() string {
	bytes := make([]byte, domain.RoomCodeLength)
	rand.Read(bytes)
	code := make([]byte, domain.RoomCodeLength)
	for i, b := range bytes {
		code[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(code)
}

func clamp(v, fallback, min, max int) int {
	if v == 0 {
		v = fallback
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
