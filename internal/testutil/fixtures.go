package testutil

import (
	"context"
	"testing"

	"github.com/dom/battle-arena/internal/domain"
	"github.com/dom/battle-arena/internal/service"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the passphrase every fixture room uses.
const TestPassword = "sekret"

// CreateRoom inserts a room with a known passphrase and default limits.
func CreateRoom(t *testing.T, ts *TestServer) *domain.Room {
	t.Helper()

	room, err := ts.Services.Room.CreateRoom(context.Background(), service.CreateRoomInput{
		RoomName: "Test Arena",
		Password: TestPassword,
	})
	if err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	return room
}

// ClaimSlot claims the next free slot and fails the test on a spectator
// result; use ts.Services.Claim directly when spectator is the expectation.
func ClaimSlot(t *testing.T, ts *TestServer, code string) *service.ClaimResult {
	t.Helper()

	result, err := ts.Services.Claim.Claim(context.Background(), code, TestPassword, "")
	if err != nil {
		t.Fatalf("failed to claim slot: %v", err)
	}
	if result.Spectator {
		t.Fatalf("expected a participant slot, got spectator")
	}
	return result
}

// SubmitCharacter runs the full submission pipeline against the fakes.
func SubmitCharacter(t *testing.T, ts *TestServer, code, token string, slot int, name string) *domain.Character {
	t.Helper()

	character, err := ts.Services.Character.Submit(context.Background(), service.SubmitInput{
		RoomCode:    code,
		Password:    TestPassword,
		Slot:        slot,
		Token:       token,
		Name:        name,
		Description: "a brave test fighter",
	})
	if err != nil {
		t.Fatalf("failed to submit character: %v", err)
	}
	return character
}

// InsertCharacter writes a character row directly, bypassing generation. For
// tests that need a character without exercising the submit pipeline.
func InsertCharacter(t *testing.T, ts *TestServer, roomID uuid.UUID, slot int, name string) *domain.Character {
	t.Helper()

	path := "characters/fixture/" + uuid.NewString() + ".png"
	url, err := ts.Store.Upload(context.Background(), path, []byte("fixture-image"), "image/png")
	if err != nil {
		t.Fatalf("failed to upload fixture artifact: %v", err)
	}

	character := &domain.Character{
		RoomID:      roomID,
		Slot:        slot,
		PlayerName:  name,
		Description: "fixture fighter",
		StyleID:     "hardboiled",
		StyleLabel:  "ハードボイルド",
		ImagePath:   path,
		ImageURL:    url,
		Attack:      30,
		Defense:     20,
		Magic:       20,
		Mana:        15,
		Speed:       15,
		Summary:     "fixture",
	}
	if err := ts.Repos.Character.Create(context.Background(), character); err != nil {
		t.Fatalf("failed to insert character: %v", err)
	}
	return character
}

// HashPassword bcrypt-hashes a passphrase for rooms inserted directly.
func HashPassword(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}
