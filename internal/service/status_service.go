package service

import (
	"context"
	"errors"
	"time"

	"github.com/dom/battle-arena/internal/domain"
	"github.com/dom/battle-arena/internal/repository"
	"gorm.io/gorm"
)

// StatusService is the read-only projection polling clients live on. It
// never mutates anything and is safe to call concurrently with any writer.
type StatusService struct {
	roomRepo   repository.RoomRepository
	claimRepo  repository.SlotClaimRepository
	charRepo   repository.CharacterRepository
	battleRepo repository.BattleRepository
}

func NewStatusService(
	roomRepo repository.RoomRepository,
	claimRepo repository.SlotClaimRepository,
	charRepo repository.CharacterRepository,
	battleRepo repository.BattleRepository,
) *StatusService {
	return &StatusService{
		roomRepo:   roomRepo,
		claimRepo:  claimRepo,
		charRepo:   charRepo,
		battleRepo: battleRepo,
	}
}

type RoomConfig struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	CharLimit int    `json:"charLimit"`
	StoryMin  int    `json:"storyMin"`
	StoryMax  int    `json:"storyMax"`
}

// PlayerView is one character as seen by a particular caller. A hidden
// entry keeps only slot and editing state; name, artwork and stats are
// withheld until the reveal conditions are met.
type PlayerView struct {
	ID          string    `json:"id,omitempty"`
	Slot        int       `json:"slot"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	StyleID     string    `json:"styleId,omitempty"`
	StyleLabel  string    `json:"styleLabel,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Attack      *int      `json:"attack,omitempty"`
	Defense     *int      `json:"defense,omitempty"`
	Magic       *int      `json:"magic,omitempty"`
	Mana        *int      `json:"mana,omitempty"`
	Speed       *int      `json:"speed,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	IsEditing   bool      `json:"isEditing"`
	Hidden      bool      `json:"hidden,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

type SlotView struct {
	Slot      int       `json:"slot"`
	CreatedAt time.Time `json:"createdAt"`
}

type StatusSnapshot struct {
	Room         RoomConfig     `json:"room"`
	Players      []PlayerView   `json:"players"`
	Slots        []SlotView     `json:"slots"`
	BattleStatus string         `json:"battleStatus"`
	Battle       *domain.Battle `json:"battle"`
	YourSlot     int            `json:"yourSlot,omitempty"`
}

// Status assembles one consistent snapshot. token optionally identifies the
// caller's slot for visibility; an absent or unknown token means spectator.
func (s *StatusService) Status(ctx context.Context, code, password, token string) (*StatusSnapshot, error) {
	room, err := authorizeRoom(ctx, s.roomRepo, code, password)
	if err != nil {
		return nil, err
	}

	callerSlot := 0
	if token != "" {
		if claim, err := s.claimRepo.GetByToken(ctx, room.ID, token); err == nil {
			callerSlot = claim.Slot
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	characters, err := s.charRepo.GetByRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}

	claims, err := s.claimRepo.GetByRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}

	battle, err := s.battleRepo.GetByRoom(ctx, room.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	battleStatus := "idle"
	switch {
	case room.BattleStatus == domain.BattleStatusGenerating:
		battleStatus = "generating"
	case battle != nil:
		battleStatus = "done"
	}

	snapshot := &StatusSnapshot{
		Room: RoomConfig{
			Code:      room.Code,
			Name:      room.Name,
			CharLimit: room.MaxCharLength,
			StoryMin:  room.StoryMinLength,
			StoryMax:  room.StoryMaxLength,
		},
		Players:      make([]PlayerView, 0, len(characters)),
		Slots:        make([]SlotView, 0, len(claims)),
		BattleStatus: battleStatus,
		YourSlot:     callerSlot,
	}

	bothPresent := len(characters) >= 2
	for _, c := range characters {
		visible := s.visibleTo(c, callerSlot, bothPresent, battle != nil)
		snapshot.Players = append(snapshot.Players, playerView(c, visible))
	}

	for _, claim := range claims {
		snapshot.Slots = append(snapshot.Slots, SlotView{Slot: claim.Slot, CreatedAt: claim.CreatedAt})
	}

	// The battle payload is withheld mid-generation so clients never render
	// a result that is about to be replaced.
	if battleStatus == "done" {
		snapshot.Battle = battle
	}

	return snapshot, nil
}

// visibleTo decides whether a caller gets the full card for a character.
// Own slot: always. Opponent's: once both characters exist, the caller is a
// spectator, or a battle is done — and never while the owner is editing.
func (s *StatusService) visibleTo(c *domain.Character, callerSlot int, bothPresent, battleDone bool) bool {
	if c.Slot == callerSlot {
		return true
	}
	if c.IsEditing {
		return false
	}
	return bothPresent || callerSlot == 0 || battleDone
}

func playerView(c *domain.Character, visible bool) PlayerView {
	if !visible {
		return PlayerView{Slot: c.Slot, IsEditing: c.IsEditing, Hidden: true}
	}
	return PlayerView{
		ID:          c.ID.String(),
		Slot:        c.Slot,
		Name:        c.PlayerName,
		Description: c.Description,
		StyleID:     c.StyleID,
		StyleLabel:  c.StyleLabel,
		ImageURL:    c.ImageURL,
		Attack:      intPtr(c.Attack),
		Defense:     intPtr(c.Defense),
		Magic:       intPtr(c.Magic),
		Mana:        intPtr(c.Mana),
		Speed:       intPtr(c.Speed),
		Summary:     c.Summary,
		IsEditing:   c.IsEditing,
		CreatedAt:   c.CreatedAt,
	}
}

func intPtr(v int) *int { return &v }
