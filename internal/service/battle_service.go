package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dom/battle-arena/internal/domain"
	"github.com/dom/battle-arena/internal/genai"
	"github.com/dom/battle-arena/internal/repository"
	"github.com/dom/battle-arena/internal/storage"
	"gorm.io/gorm"
)

// BattleService runs the judge+render pipeline for a room, at most once
// concurrently. The room row's battle_status column is the lock; acquisition
// is a conditional UPDATE and release is unconditional on every exit path.
type BattleService struct {
	roomRepo   repository.RoomRepository
	charRepo   repository.CharacterRepository
	battleRepo repository.BattleRepository
	generator  genai.Generator
	store      storage.ArtifactStore
	textModel  string
	imageModel string
}

func NewBattleService(
	roomRepo repository.RoomRepository,
	charRepo repository.CharacterRepository,
	battleRepo repository.BattleRepository,
	generator genai.Generator,
	store storage.ArtifactStore,
	textModel, imageModel string,
) *BattleService {
	return &BattleService{
		roomRepo:   roomRepo,
		charRepo:   charRepo,
		battleRepo: battleRepo,
		generator:  generator,
		store:      store,
		textModel:  textModel,
		imageModel: imageModel,
	}
}

// BattleOutcome is what StartBattle reports. Generating=true means someone
// (possibly this caller, possibly another) holds the lock and the caller
// should keep polling.
type BattleOutcome struct {
	Generating bool
	Battle     *domain.Battle
}

// StartBattle drives the room's battle state machine:
//
//	IDLE -> GENERATING -> IDLE-WITH-RESULT
//
// Re-invocations after a result are idempotent unless force is set. force
// also clears a stuck lock (manual recovery; there is no automatic expiry)
// and authorizes a destructive rematch.
func (s *BattleService) StartBattle(ctx context.Context, code, password string, force bool) (*BattleOutcome, error) {
	room, err := authorizeRoom(ctx, s.roomRepo, code, password)
	if err != nil {
		return nil, err
	}

	existing, err := s.battleRepo.GetByRoom(ctx, room.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil && !force {
		return &BattleOutcome{Battle: existing}, nil
	}

	if room.BattleStatus == domain.BattleStatusGenerating {
		if !force {
			return &BattleOutcome{Generating: true}, nil
		}
		if err := s.roomRepo.ClearBattleLock(ctx, room.ID); err != nil {
			return nil, err
		}
	}

	acquired, err := s.roomRepo.TryAcquireBattleLock(ctx, room.ID, time.Now())
	if err != nil {
		return nil, err
	}
	if !acquired {
		// Another caller won the conditional update; no side effects here.
		return &BattleOutcome{Generating: true}, nil
	}

	// From here on the lock is ours and must be released no matter how we
	// leave, including panics from the pipeline.
	defer func() {
		if err := s.roomRepo.ClearBattleLock(ctx, room.ID); err != nil {
			log.Printf("ERROR [battle] releasing lock for room %s: %v", room.Code, err)
		}
	}()

	if existing != nil && force {
		s.deleteBattle(ctx, existing)
	}

	battle, err := s.generate(ctx, room)
	if err != nil {
		return nil, err
	}
	return &BattleOutcome{Battle: battle}, nil
}

// generate runs the two-stage pipeline while the caller holds the lock.
func (s *BattleService) generate(ctx context.Context, room *domain.Room) (*domain.Battle, error) {
	characters, err := s.charRepo.GetByRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}

	var playerA, playerB *domain.Character
	for _, c := range characters {
		switch c.Slot {
		case 1:
			playerA = c
		case 2:
			playerB = c
		}
	}
	if playerA == nil || playerB == nil || playerA.ImagePath == "" || playerB.ImagePath == "" {
		return nil, domain.ErrPlayersNotReady
	}

	imageA, err := s.downloadImage(ctx, playerA.ImagePath)
	if err != nil {
		return nil, err
	}
	imageB, err := s.downloadImage(ctx, playerB.ImagePath)
	if err != nil {
		return nil, err
	}
	references := []genai.Image{imageA, imageB}

	// Stage one: the judge. A malformed reply degrades to "A wins, raw text
	// as story" instead of failing the whole battle.
	judgeRaw, err := s.generator.GenerateText(ctx, s.textModel,
		judgePrompt(room.StoryMinLength, room.StoryMaxLength), references)
	if err != nil {
		return nil, fmt.Errorf("judge battle: %w", err)
	}

	verdict, ok := genai.ParseVerdict(judgeRaw)
	if !ok {
		log.Printf("ERROR [battle] unparseable verdict for room %s: %.120s", room.Code, judgeRaw)
		verdict = genai.Verdict{Winner: "A", Story: strings.TrimSpace(judgeRaw)}
	}

	winnerSlot := 1
	if verdict.Winner == "B" {
		winnerSlot = 2
	}
	story := strings.TrimSpace(strings.NewReplacer(
		"{A}", playerA.PlayerName,
		"{B}", playerB.PlayerName,
	).Replace(verdict.Story))

	// Stage two: two independent renders conditioned on both portraits.
	battleScene, err := s.generator.GenerateImage(ctx, s.imageModel, battleScenePrompt(), references)
	if err != nil {
		return nil, fmt.Errorf("render battle scene: %w", err)
	}

	battlePath := fmt.Sprintf("battles/%s/battle-%d.%s",
		room.Code, time.Now().UnixMilli(), storage.ExtensionForMime(battleScene.MimeType))
	battleURL, err := s.store.Upload(ctx, battlePath, battleScene.Data, battleScene.MimeType)
	if err != nil {
		return nil, fmt.Errorf("upload battle scene: %w", err)
	}

	winnerLabel, loserLabel := "A", "B"
	if winnerSlot == 2 {
		winnerLabel, loserLabel = "B", "A"
	}

	resultScene, err := s.generator.GenerateImage(ctx, s.imageModel, victoryScenePrompt(winnerLabel, loserLabel), references)
	if err != nil {
		return nil, fmt.Errorf("render victory scene: %w", err)
	}

	resultPath := fmt.Sprintf("battles/%s/result-%d.%s",
		room.Code, time.Now().UnixMilli(), storage.ExtensionForMime(resultScene.MimeType))
	resultURL, err := s.store.Upload(ctx, resultPath, resultScene.Data, resultScene.MimeType)
	if err != nil {
		return nil, fmt.Errorf("upload victory scene: %w", err)
	}

	winnerID := playerA.ID
	if winnerSlot == 2 {
		winnerID = playerB.ID
	}

	// Both artifacts are durable before the row exists: a Battle is never
	// partially written.
	battle := &domain.Battle{
		RoomID:          room.ID,
		WinnerSlot:      winnerSlot,
		WinnerID:        &winnerID,
		Story:           story,
		BattleImagePath: battlePath,
		BattleImageURL:  battleURL,
		ResultImagePath: resultPath,
		ResultImageURL:  resultURL,
	}
	if err := s.battleRepo.Create(ctx, battle); err != nil {
		return nil, fmt.Errorf("save battle: %w", err)
	}

	return battle, nil
}

func (s *BattleService) downloadImage(ctx context.Context, path string) (genai.Image, error) {
	data, contentType, err := s.store.Download(ctx, path)
	if err != nil {
		return genai.Image{}, fmt.Errorf("download reference %s: %w", path, err)
	}
	return genai.Image{Data: data, MimeType: contentType}, nil
}

// deleteBattle removes a battle's artifacts then its row, for a forced
// rematch. Artifact removal failures are logged, not fatal: the row delete
// is what matters for the one-live-battle invariant.
func (s *BattleService) deleteBattle(ctx context.Context, battle *domain.Battle) {
	for _, path := range []string{battle.BattleImagePath, battle.ResultImagePath} {
		if path == "" {
			continue
		}
		if err := s.store.Remove(ctx, path); err != nil {
			log.Printf("ERROR [battle] removing artifact %s: %v", path, err)
		}
	}
	if err := s.battleRepo.Delete(ctx, battle.ID); err != nil {
		log.Printf("ERROR [battle] deleting battle %s: %v", battle.ID, err)
	}
}
