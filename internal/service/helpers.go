package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dom/battle-arena/internal/domain"
	"github.com/dom/battle-arena/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// cleanText collapses whitespace runs into single spaces and trims, matching
// what clients are allowed to send for names, descriptions and passwords.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// authorizeRoom loads a room by code and checks the shared passphrase. Every
// room-scoped operation goes through this before touching anything else.
func authorizeRoom(ctx context.Context, rooms repository.RoomRepository, code, password string) (*domain.Room, error) {
	room, err := rooms.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(room.PassHash), []byte(cleanText(password))) != nil {
		return nil, domain.ErrInvalidPassword
	}

	return room, nil
}

// resolveSlot re-derives slot ownership from the presented token. Ownership
// is never cached: the token is the capability and the claim row is the
// authority, on every single call.
func resolveSlot(ctx context.Context, claims repository.SlotClaimRepository, room *domain.Room, token string, slot int) error {
	if token == "" {
		return domain.ErrMissingToken
	}

	claim, err := claims.GetByToken(ctx, room.ID, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotSlotOwner
		}
		return err
	}

	if claim.Slot != slot {
		return domain.ErrNotSlotOwner
	}
	return nil
}
