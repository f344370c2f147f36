package postgres

import (
	"github.com/dom/battle-arena/internal/domain"
	"github.com/dom/battle-arena/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Unique violations must surface as gorm.ErrDuplicatedKey; the claim
		// service's race handling depends on it.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&domain.Room{},
		&domain.SlotClaim{},
		&domain.Character{},
		&domain.Battle{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Room:      NewRoomRepository(db),
		SlotClaim: NewSlotClaimRepository(db),
		Character: NewCharacterRepository(db),
		Battle:    NewBattleRepository(db),
	}
}
