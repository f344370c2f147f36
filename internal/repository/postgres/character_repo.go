package postgres

import (
	"context"

	"github.com/dom/battle-arena/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type characterRepository struct {
	db *gorm.DB
}

func NewCharacterRepository(db *gorm.DB) *characterRepository {
	return &characterRepository{db: db}
}

func (r *characterRepository) Create(ctx context.Context, character *domain.Character) error {
	return r.db.WithContext(ctx).Create(character).Error
}

func (r *characterRepository) GetBySlot(ctx context.Context, roomID uuid.UUID, slot int) (*domain.Character, error) {
	var character domain.Character
	err := r.db.WithContext(ctx).
		First(&character, "room_id = ? AND slot = ?", roomID, slot).Error
	if err != nil {
		return nil, err
	}
	return &character, nil
}

func (r *characterRepository) GetByRoom(ctx context.Context, roomID uuid.UUID) ([]*domain.Character, error) {
	var characters []*domain.Character
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("slot ASC").
		Find(&characters).Error
	if err != nil {
		return nil, err
	}
	return characters, nil
}

func (r *characterRepository) Update(ctx context.Context, character *domain.Character) error {
	return r.db.WithContext(ctx).Save(character).Error
}

func (r *characterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Character{}, "id = ?", id).Error
}

func (r *characterRepository) ListRecent(ctx context.Context, limit, offset int) ([]*domain.Character, error) {
	var characters []*domain.Character
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("image_url <> ''").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&characters).Error
	if err != nil {
		return nil, err
	}
	return characters, nil
}
