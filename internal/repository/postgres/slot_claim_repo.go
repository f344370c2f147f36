package postgres

import (
	"context"

	"github.com/dom/battle-arena/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type slotClaimRepository struct {
	db *gorm.DB
}

func NewSlotClaimRepository(db *gorm.DB) *slotClaimRepository {
	return &slotClaimRepository{db: db}
}

// Create relies on the (room_id, slot) unique index: a losing concurrent
// claim comes back as gorm.ErrDuplicatedKey.
func (r *slotClaimRepository) Create(ctx context.Context, claim *domain.SlotClaim) error {
	return r.db.WithContext(ctx).Create(claim).Error
}

func (r *slotClaimRepository) GetByToken(ctx context.Context, roomID uuid.UUID, token string) (*domain.SlotClaim, error) {
	var claim domain.SlotClaim
	err := r.db.WithContext(ctx).
		First(&claim, "room_id = ? AND token = ?", roomID, token).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *slotClaimRepository) GetByRoom(ctx context.Context, roomID uuid.UUID) ([]*domain.SlotClaim, error) {
	var claims []*domain.SlotClaim
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("slot ASC").
		Find(&claims).Error
	if err != nil {
		return nil, err
	}
	return claims, nil
}
