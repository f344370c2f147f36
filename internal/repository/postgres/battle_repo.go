package postgres

import (
	"context"

	"github.com/dom/battle-arena/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type battleRepository struct {
	db *gorm.DB
}

func NewBattleRepository(db *gorm.DB) *battleRepository {
	return &battleRepository{db: db}
}

func (r *battleRepository) Create(ctx context.Context, battle *domain.Battle) error {
	return r.db.WithContext(ctx).Create(battle).Error
}

func (r *battleRepository) GetByRoom(ctx context.Context, roomID uuid.UUID) (*domain.Battle, error) {
	var battle domain.Battle
	err := r.db.WithContext(ctx).
		First(&battle, "room_id = ?", roomID).Error
	if err != nil {
		return nil, err
	}
	return &battle, nil
}

func (r *battleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Battle{}, "id = ?", id).Error
}
