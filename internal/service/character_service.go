package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dom/battle-arena/internal/domain"
	"github.com/dom/battle-arena/internal/genai"
	"github.com/dom/battle-arena/internal/repository"
	"github.com/dom/battle-arena/internal/stats"
	"github.com/dom/battle-arena/internal/storage"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CharacterService owns character submission and editing. Submission calls
// the external generator; editing is metadata-only and never regenerates.
type CharacterService struct {
	roomRepo   repository.RoomRepository
	claimRepo  repository.SlotClaimRepository
	charRepo   repository.CharacterRepository
	generator  genai.Generator
	store      storage.ArtifactStore
	imageModel string
	textModel  string
}

func NewCharacterService(
	roomRepo repository.RoomRepository,
	claimRepo repository.SlotClaimRepository,
	charRepo repository.CharacterRepository,
	generator genai.Generator,
	store storage.ArtifactStore,
	imageModel, textModel string,
) *CharacterService {
	return &CharacterService{
		roomRepo:   roomRepo,
		claimRepo:  claimRepo,
		charRepo:   charRepo,
		generator:  generator,
		store:      store,
		imageModel: imageModel,
		textModel:  textModel,
	}
}

type SubmitInput struct {
	RoomCode    string
	Password    string
	Slot        int
	Token       string
	Name        string
	Description string
	Force       bool
}

// Submit validates ownership, generates a portrait, analyzes it into
// normalized stats and persists the character. With Force it destructively
// replaces an existing character; without, an occupied slot is a conflict.
func (s *CharacterService) Submit(ctx context.Context, input SubmitInput) (*domain.Character, error) {
	if input.Slot != 1 && input.Slot != 2 {
		return nil, domain.ErrInvalidSlot
	}

	name := cleanText(input.Name)
	description := cleanText(input.Description)
	if name == "" || description == "" {
		return nil, domain.ErrNameRequired
	}

	room, err := authorizeRoom(ctx, s.roomRepo, input.RoomCode, input.Password)
	if err != nil {
		return nil, err
	}

	if err := resolveSlot(ctx, s.claimRepo, room, input.Token, input.Slot); err != nil {
		return nil, err
	}

	if len([]rune(description)) > room.MaxCharLength {
		return nil, domain.ErrDescriptionTooLong
	}

	existing, err := s.charRepo.GetBySlot(ctx, room.ID, input.Slot)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		if !input.Force {
			return nil, domain.ErrSlotOccupied
		}
		// Destructive replace: old artifact and row go away before anything
		// new is generated.
		if existing.ImagePath != "" {
			if err := s.store.Remove(ctx, existing.ImagePath); err != nil {
				log.Printf("ERROR [character] removing old artifact %s: %v", existing.ImagePath, err)
			}
		}
		if err := s.charRepo.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
	}

	style := domain.RandomStyle()

	portrait, err := s.generator.GenerateImage(ctx, s.imageModel, portraitPrompt(style.Prompt, description), nil)
	if err != nil {
		return nil, fmt.Errorf("generate portrait: %w", err)
	}

	path := fmt.Sprintf("characters/%s/slot-%d-%d.%s",
		room.Code, input.Slot, time.Now().UnixMilli(), storage.ExtensionForMime(portrait.MimeType))
	imageURL, err := s.store.Upload(ctx, path, portrait.Data, portrait.MimeType)
	if err != nil {
		return nil, fmt.Errorf("upload portrait: %w", err)
	}

	normalized, rawAnalysis := s.analyze(ctx, portrait, description)

	character := &domain.Character{
		RoomID:      room.ID,
		Slot:        input.Slot,
		PlayerName:  name,
		Description: description,
		StyleID:     style.ID,
		StyleLabel:  style.Label,
		ImagePath:   path,
		ImageURL:    imageURL,
		Attack:      normalized.Attack,
		Defense:     normalized.Defense,
		Magic:       normalized.Magic,
		Mana:        normalized.Mana,
		Speed:       normalized.Speed,
		Summary:     normalized.Summary,
		RawAnalysis: rawAnalysis,
	}

	if err := s.charRepo.Create(ctx, character); err != nil {
		// The uploaded artifact is orphaned here; acceptable, but the caller
		// must see the failure.
		return nil, fmt.Errorf("save character: %w", err)
	}

	return character, nil
}

// analyze runs the stat analyzer over the stored portrait. Any failure along
// the way degrades to the normalizer's safe defaults; analysis never blocks
// character creation.
func (s *CharacterService) analyze(ctx context.Context, portrait genai.Image, description string) (stats.Stats, datatypes.JSON) {
	raw, err := s.generator.GenerateText(ctx, s.textModel, analyzePrompt(), []genai.Image{portrait})
	if err != nil {
		log.Printf("ERROR [character] stat analysis failed: %v", err)
		return stats.Normalize(stats.RawStats{}, "", description), nil
	}

	analysis, ok := genai.ParseAnalysis(raw)
	if !ok {
		log.Printf("ERROR [character] unparseable analysis: %.120s", raw)
		return stats.Normalize(stats.RawStats{}, "", description), nil
	}

	summary := ""
	if analysis.Summary != nil {
		summary = *analysis.Summary
	}

	normalized := stats.Normalize(stats.RawStats{
		Attack:  analysis.Attack,
		Defense: analysis.Defense,
		Magic:   analysis.Magic,
		Mana:    analysis.Mana,
		Speed:   analysis.Speed,
	}, summary, description)

	rawJSON := []byte(genai.ExtractJSON(raw))
	if !json.Valid(rawJSON) {
		return normalized, nil
	}
	return normalized, datatypes.JSON(rawJSON)
}

type EditInput struct {
	RoomCode    string
	Password    string
	Slot        int
	Token       string
	Editing     *bool
	Name        string
	Description string
}

// Edit either toggles the editing flag or renames/redescribes in place.
// It never touches the artifact or the stats; the rename path always clears
// the editing flag.
func (s *CharacterService) Edit(ctx context.Context, input EditInput) (*domain.Character, error) {
	if input.Slot != 1 && input.Slot != 2 {
		return nil, domain.ErrInvalidSlot
	}

	name := cleanText(input.Name)
	description := cleanText(input.Description)
	if input.Editing == nil && (name == "" || description == "") {
		return nil, domain.ErrNameRequired
	}

	room, err := authorizeRoom(ctx, s.roomRepo, input.RoomCode, input.Password)
	if err != nil {
		return nil, err
	}

	if err := resolveSlot(ctx, s.claimRepo, room, input.Token, input.Slot); err != nil {
		return nil, err
	}

	if description != "" && len([]rune(description)) > room.MaxCharLength {
		return nil, domain.ErrDescriptionTooLong
	}

	character, err := s.charRepo.GetBySlot(ctx, room.ID, input.Slot)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCharacterNotFound
		}
		return nil, err
	}

	if input.Editing != nil {
		character.IsEditing = *input.Editing
	}
	if name != "" && description != "" {
		character.PlayerName = name
		character.Description = description
		character.IsEditing = false
	}

	if err := s.charRepo.Update(ctx, character); err != nil {
		return nil, err
	}
	return character, nil
}
