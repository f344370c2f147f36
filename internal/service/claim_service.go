package service

import (
	"context"
	"errors"

	"github.com/dom/battle-arena/internal/domain"
	"github.com/dom/battle-arena/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClaimService assigns the two participant slots of a room, first come first
// served. Everything past two participants is a spectator.
type ClaimService struct {
	roomRepo  repository.RoomRepository
	claimRepo repository.SlotClaimRepository
	charRepo  repository.CharacterRepository
}

func NewClaimService(roomRepo repository.RoomRepository, claimRepo repository.SlotClaimRepository, charRepo repository.CharacterRepository) *ClaimService {
	return &ClaimService{
		roomRepo:  roomRepo,
		claimRepo: claimRepo,
		charRepo:  charRepo,
	}
}

type ClaimResult struct {
	Spectator bool
	Slot      int
	Token     string
}

// Claim resolves the caller to a slot. Re-presenting a previously issued
// token returns the same slot and token (page reloads are idempotent). A
// lost race on the unique index triggers one occupancy recompute before
// falling back to spectator.
func (s *ClaimService) Claim(ctx context.Context, code, password, presentedToken string) (*ClaimResult, error) {
	room, err := authorizeRoom(ctx, s.roomRepo, code, password)
	if err != nil {
		return nil, err
	}

	if presentedToken != "" {
		claim, err := s.claimRepo.GetByToken(ctx, room.ID, presentedToken)
		if err == nil {
			return &ClaimResult{Slot: claim.Slot, Token: claim.Token}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	for attempt := 0; attempt < 2; attempt++ {
		slot, ok, err := s.lowestFreeSlot(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &ClaimResult{Spectator: true}, nil
		}

		claim := &domain.SlotClaim{
			RoomID: room.ID,
			Slot:   slot,
			Token:  uuid.NewString(),
		}

		err = s.claimRepo.Create(ctx, claim)
		if err == nil {
			return &ClaimResult{Slot: claim.Slot, Token: claim.Token}, nil
		}
		// Someone else claimed this slot between the occupancy read and our
		// insert; recompute and try the next free slot.
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}

	return &ClaimResult{Spectator: true}, nil
}

// lowestFreeSlot computes occupancy as the union of claim rows and character
// rows; a character can exist without a claim for pre-existing data.
func (s *ClaimService) lowestFreeSlot(ctx context.Context, roomID uuid.UUID) (int, bool, error) {
	claims, err := s.claimRepo.GetByRoom(ctx, roomID)
	if err != nil {
		return 0, false, err
	}
	characters, err := s.charRepo.GetByRoom(ctx, roomID)
	if err != nil {
		return 0, false, err
	}

	taken := map[int]bool{}
	for _, c := range claims {
		taken[c.Slot] = true
	}
	for _, c := range characters {
		taken[c.Slot] = true
	}

	for slot := 1; slot <= 2; slot++ {
		if !taken[slot] {
			return slot, true, nil
		}
	}
	return 0, false, nil
}
