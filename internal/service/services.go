package service

import (
	"github.com/dom/battle-arena/internal/config"
	"github.com/dom/battle-arena/internal/genai"
	"github.com/dom/battle-arena/internal/repository"
	"github.com/dom/battle-arena/internal/storage"
)

type Services struct {
	Room      *RoomService
	Claim     *ClaimService
	Character *CharacterService
	Battle    *BattleService
	Status    *StatusService
	Gallery   *GalleryService
}

func NewServices(repos *repository.Repositories, generator genai.Generator, store storage.ArtifactStore, cfg *config.Config) *Services {
	return &Services{
		Room:      NewRoomService(repos.Room),
		Claim:     NewClaimService(repos.Room, repos.SlotClaim, repos.Character),
		Character: NewCharacterService(repos.Room, repos.SlotClaim, repos.Character, generator, store, cfg.GeminiImageModel, cfg.GeminiTextModel),
		Battle:    NewBattleService(repos.Room, repos.Character, repos.Battle, generator, store, cfg.GeminiTextModel, cfg.GeminiImageModel),
		Status:    NewStatusService(repos.Room, repos.SlotClaim, repos.Character, repos.Battle),
		Gallery:   NewGalleryService(repos.Character),
	}
}
