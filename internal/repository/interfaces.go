package repository

import (
	"context"
	"time"

	"github.com/dom/battle-arena/internal/domain"
	"github.com/google/uuid"
)

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByCode(ctx context.Context, code string) (*domain.Room, error)

	// TryAcquireBattleLock flips battle_status to "generating" with a single
	// conditional UPDATE and reports whether this caller won. It must never
	// read-then-write; the row is the mutual exclusion primitive.
	TryAcquireBattleLock(ctx context.Context, roomID uuid.UUID, at time.Time) (bool, error)

	// ClearBattleLock unconditionally resets the lock. Used both for normal
	// release and for the manual force-recovery of a stuck lock.
	ClearBattleLock(ctx context.Context, roomID uuid.UUID) error
}

type SlotClaimRepository interface {
	Create(ctx context.Context, claim *domain.SlotClaim) error
	GetByToken(ctx context.Context, roomID uuid.UUID, token string) (*domain.SlotClaim, error)
	GetByRoom(ctx context.Context, roomID uuid.UUID) ([]*domain.SlotClaim, error)
}

type CharacterRepository interface {
	Create(ctx context.Context, character *domain.Character) error
	GetBySlot(ctx context.Context, roomID uuid.UUID, slot int) (*domain.Character, error)
	GetByRoom(ctx context.Context, roomID uuid.UUID) ([]*domain.Character, error)
	Update(ctx context.Context, character *domain.Character) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListRecent(ctx context.Context, limit, offset int) ([]*domain.Character, error)
}

type BattleRepository interface {
	Create(ctx context.Context, battle *domain.Battle) error
	GetByRoom(ctx context.Context, roomID uuid.UUID) (*domain.Battle, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repositories struct {
	Room      RoomRepository
	SlotClaim SlotClaimRepository
	Character CharacterRepository
	Battle    BattleRepository
}
