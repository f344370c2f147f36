package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/battle-arena/internal/service"
	"github.com/dom/battle-arena/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findPlayer(t *testing.T, snapshot *service.StatusSnapshot, slot int) service.PlayerView {
	t.Helper()
	for _, p := range snapshot.Players {
		if p.Slot == slot {
			return p
		}
	}
	t.Fatalf("no player view for slot %d", slot)
	return service.PlayerView{}
}

func TestStatusService_EmptyRoom(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	room := testutil.CreateRoom(t, ts)

	snapshot, err := ts.Services.Status.Status(context.Background(), room.Code, testutil.TestPassword, "")
	require.NoError(t, err)

	assert.Equal(t, room.Code, snapshot.Room.Code)
	assert.Equal(t, room.MaxCharLength, snapshot.Room.CharLimit)
	assert.Empty(t, snapshot.Players)
	assert.Empty(t, snapshot.Slots)
	assert.Equal(t, "idle", snapshot.BattleStatus)
	assert.Nil(t, snapshot.Battle)
	assert.Zero(t, snapshot.YourSlot)
}

func TestStatusService_OpponentHiddenUntilBothPresent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	room := testutil.CreateRoom(t, ts)
	ctx := context.Background()

	claimA := testutil.ClaimSlot(t, ts, room.Code)
	claimB := testutil.ClaimSlot(t, ts, room.Code)
	testutil.SubmitCharacter(t, ts, room.Code, claimA.Token, 1, "Alpha")

	// Player B sees the lone opponent hidden.
	snapshot, err := ts.Services.Status.Status(ctx, room.Code, testutil.TestPassword, claimB.Token)
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.YourSlot)

	opponent := findPlayer(t, snapshot, 1)
	assert.True(t, opponent.Hidden)
	assert.Empty(t, opponent.Name)
	assert.Empty(t, opponent.ImageURL)
	assert.Nil(t, opponent.Attack)

	// Player A always sees their own character in full.
	snapshot, err = ts.Services.Status.Status(ctx, room.Code, testutil.TestPassword, claimA.Token)
	require.NoError(t, err)
	own := findPlayer(t, snapshot, 1)
	assert.False(t, own.Hidden)
	assert.Equal(t, "Alpha", own.Name)

	// A spectator sees every submitted character.
	snapshot, err = ts.Services.Status.Status(ctx, room.Code, testutil.TestPassword, "")
	require.NoError(t, err)
	assert.False(t, findPlayer(t, snapshot, 1).Hidden)

	// Once both characters exist, the opponent is revealed.
	testutil.SubmitCharacter(t, ts, room.Code, claimB.Token, 2, "Bravo")
	snapshot, err = ts.Services.Status.Status(ctx, room.Code, testutil.TestPassword, claimB.Token)
	require.NoError(t, err)
	opponent = findPlayer(t, snapshot, 1)
	assert.False(t, opponent.Hidden)
	assert.Equal(t, "Alpha", opponent.Name)
	require.NotNil(t, opponent.Attack)
}

func TestStatusService_EditingHidesOpponentAgain(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	room := testutil.CreateRoom(t, ts)
	ctx := context.Background()

	claimA := testutil.ClaimSlot(t, ts, room.Code)
	claimB := testutil.ClaimSlot(t, ts, room.Code)
	testutil.SubmitCharacter(t, ts, room.Code, claimA.Token, 1, "Alpha")
	testutil.SubmitCharacter(t, ts, room.Code, claimB.Token, 2, "Bravo")

	editing := true
	_, err := ts.Services.Character.Edit(ctx, service.EditInput{
		RoomCode: room.Code,
		Password: testutil.TestPassword,
		Slot:     1,
		Token:    claimA.Token,
		Editing:  &editing,
	})
	require.NoError(t, err)

	snapshot, err := ts.Services.Status.Status(ctx, room.Code, testutil.TestPassword, claimB.Token)
	require.NoError(t, err)

	opponent := findPlayer(t, snapshot, 1)
	assert.True(t, opponent.Hidden, "editing re-hides the card from the opponent")
	assert.True(t, opponent.IsEditing, "editing state itself stays observable")

	own, err := ts.Services.Status.Status(ctx, room.Code, testutil.TestPassword, claimA.Token)
	require.NoError(t, err)
	assert.False(t, findPlayer(t, own, 1).Hidden, "owners always see themselves")
}

func TestStatusService_BattleLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	room := testutil.CreateRoom(t, ts)
	ctx := context.Background()

	testutil.InsertCharacter(t, ts, room.ID, 1, "Alpha")
	testutil.InsertCharacter(t, ts, room.ID, 2, "Bravo")

	// Mid-generation the status reports generating and withholds any battle.
	acquired, err := ts.Repos.Room.TryAcquireBattleLock(ctx, room.ID, time.Now())
	require.NoError(t, err)
	require.True(t, acquired)

	snapshot, err := ts.Services.Status.Status(ctx, room.Code, testutil.TestPassword, "")
	require.NoError(t, err)
	assert.Equal(t, "generating", snapshot.BattleStatus)
	assert.Nil(t, snapshot.Battle)

	require.NoError(t, ts.Repos.Room.ClearBattleLock(ctx, room.ID))

	outcome, err := ts.Services.Battle.StartBattle(ctx, room.Code, testutil.TestPassword, false)
	require.NoError(t, err)
	require.NotNil(t, outcome.Battle)

	snapshot, err = ts.Services.Status.Status(ctx, room.Code, testutil.TestPassword, "")
	require.NoError(t, err)
	assert.Equal(t, "done", snapshot.BattleStatus)
	require.NotNil(t, snapshot.Battle)
	assert.Equal(t, outcome.Battle.ID, snapshot.Battle.ID)
}

func TestStatusService_SlotsListClaims(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	room := testutil.CreateRoom(t, ts)

	testutil.ClaimSlot(t, ts, room.Code)
	testutil.ClaimSlot(t, ts, room.Code)

	snapshot, err := ts.Services.Status.Status(context.Background(), room.Code, testutil.TestPassword, "")
	require.NoError(t, err)

	require.Len(t, snapshot.Slots, 2)
	assert.Equal(t, 1, snapshot.Slots[0].Slot)
	assert.Equal(t, 2, snapshot.Slots[1].Slot)
}
