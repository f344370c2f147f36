package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/dom/battle-arena/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *roomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepository) GetByCode(ctx context.Context, code string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).
		First(&room, "code = ?", strings.ToUpper(code)).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// TryAcquireBattleLock is the one place true mutual exclusion happens: a
// single conditional UPDATE whose row count decides the race. Two concurrent
// callers cannot both see RowsAffected == 1.
func (r *roomRepository) TryAcquireBattleLock(ctx context.Context, roomID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Room{}).
		Where("id = ? AND battle_status <> ?", roomID, domain.BattleStatusGenerating).
		Updates(map[string]interface{}{
			"battle_status":     domain.BattleStatusGenerating,
			"battle_started_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *roomRepository) ClearBattleLock(ctx context.Context, roomID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Room{}).
		Where("id = ?", roomID).
		Updates(map[string]interface{}{
			"battle_status":     domain.BattleStatusIdle,
			"battle_started_at": nil,
		}).Error
}
