package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dom/battle-arena/internal/domain"
	"github.com/dom/battle-arena/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func battleReadyRoom(t *testing.T, ts *testutil.TestServer) *domain.Room {
	t.Helper()
	room := testutil.CreateRoom(t, ts)
	testutil.InsertCharacter(t, ts, room.ID, 1, "Alpha")
	testutil.InsertCharacter(t, ts, room.ID, 2, "Bravo")
	return room
}

func TestBattleService_StartBattle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	room := battleReadyRoom(t, ts)
	ctx := context.Background()

	outcome, err := ts.Services.Battle.StartBattle(ctx, room.Code, testutil.TestPassword, false)
	require.NoError(t, err)
	require.False(t, outcome.Generating)
	require.NotNil(t, outcome.Battle)

	battle := outcome.Battle
	assert.Equal(t, 1, battle.WinnerSlot, "canned verdict names A")
	require.NotNil(t, battle.WinnerID)
	assert.Contains(t, battle.Story, "Alpha", "placeholders replaced with names")
	assert.Contains(t, battle.Story, "Bravo")
	assert.NotContains(t, battle.Story, "{A}")
	assert.NotContains(t, battle.Story, "{B}")
	assert.True(t, ts.Store.Has(battle.BattleImagePath))
	assert.True(t, ts.Store.Has(battle.ResultImagePath))

	reloaded, err := ts.Repos.Room.GetByCode(ctx, room.Code)
	require.NoError(t, err)
	assert.Equal(t, domain.BattleStatusIdle, reloaded.BattleStatus, "lock released after completion")
}

func TestBattleService_StartBattleIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	room := battleReadyRoom(t, ts)
	ctx := context.Background()

	first, err := ts.Services.Battle.StartBattle(ctx, room.Code, testutil.TestPassword, false)
	require.NoError(t, err)
	renders := ts.Generator.ImageCallCount()

	second, err := ts.Services.Battle.StartBattle(ctx, room.Code, testutil.TestPassword, false)
	require.NoError(t, err)
	require.NotNil(t, second.Battle)

	assert.Equal(t, first.Battle.ID, second.Battle.ID, "existing result returned as-is")
	assert.Equal(t, renders, ts.Generator.ImageCallCount(), "no regeneration on re-invocation")
}

func TestBattleService_StartBattleRequiresBothCharacters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	room := testutil.CreateRoom(t, ts)
	testutil.InsertCharacter(t, ts, room.ID, 1, "Alpha")
	ctx := context.Background()

	_, err := ts.Services.Battle.StartBattle(ctx, room.Code, testutil.TestPassword, false)
	assert.ErrorIs(t, err, domain.ErrPlayersNotReady)

	reloaded, err := ts.Repos.Room.GetByCode(ctx, room.Code)
	require.NoError(t, err)
	assert.Equal(t, domain.BattleStatusIdle, reloaded.BattleStatus, "lock released on precondition failure")
}

func TestBattleService_LockReleasedOnPipelineFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	room := battleReadyRoom(t, ts)
	ctx := context.Background()

	ts.Generator.SetImageErr(errors.New("render backend down"))

	_, err := ts.Services.Battle.StartBattle(ctx, room.Code, testutil.TestPassword, false)
	require.Error(t, err)

	reloaded, err := ts.Repos.Room.GetByCode(ctx, room.Code)
	require.NoError(t, err)
	assert.Equal(t, domain.BattleStatusIdle, reloaded.BattleStatus, "failed run must not leave the room stuck")

	_, getErr := ts.Repos.Battle.GetByRoom(ctx, room.ID)
	require.Error(t, getErr, "no partial battle row on failure")

	// The room stays usable: clear the fault and retry.
	ts.Generator.SetImageErr(nil)
	outcome, err := ts.Services.Battle.StartBattle(ctx, room.Code, testutil.TestPassword, false)
	require.NoError(t, err)
	require.NotNil(t, outcome.Battle)
}

func TestBattleService_ConcurrentStartsProduceOneBattle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	room := battleReadyRoom(t, ts)
	ts.Generator.SetDelay(150 * time.Millisecond)

	const callers = 6
	type outcome struct {
		generating bool
		err        error
	}
	results := make([]outcome, callers)
	var wg sync.WaitGroup

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o, err := ts.Services.Battle.StartBattle(context.Background(), room.Code, testutil.TestPassword, false)
			if err != nil {
				results[i] = outcome{err: err}
				return
			}
			results[i] = outcome{generating: o.Generating}
		}(i)
	}
	wg.Wait()

	battles := 0
	generating := 0
	for _, r := range results {
		require.NoError(t, r.err)
		if r.generating {
			generating++
		} else {
			battles++
		}
	}

	assert.GreaterOrEqual(t, battles, 1, "someone must get a result")
	assert.Equal(t, callers, battles+generating)

	// However the race resolved, there is exactly one battle row and exactly
	// one pipeline ran (one judge call, two renders).
	battle, err := ts.Repos.Battle.GetByRoom(context.Background(), room.ID)
	require.NoError(t, err)
	require.NotNil(t, battle)
	assert.Equal(t, 1, ts.Generator.TextCallCount())
	assert.Equal(t, 2, ts.Generator.ImageCallCount())
}

func TestBattleService_ForceRematchReplacesResult(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	room := battleReadyRoom(t, ts)
	ctx := context.Background()

	first, err := ts.Services.Battle.StartBattle(ctx, room.Code, testutil.TestPassword, false)
	require.NoError(t, err)

	second, err := ts.Services.Battle.StartBattle(ctx, room.Code, testutil.TestPassword, true)
	require.NoError(t, err)
	require.NotNil(t, second.Battle)

	assert.NotEqual(t, first.Battle.ID, second.Battle.ID)
	assert.False(t, ts.Store.Has(first.Battle.BattleImagePath), "old battle scene removed")
	assert.False(t, ts.Store.Has(first.Battle.ResultImagePath), "old victory scene removed")
	assert.True(t, ts.Store.Has(second.Battle.BattleImagePath))
	assert.True(t, ts.Store.Has(second.Battle.ResultImagePath))
}

func TestBattleService_ForceClearsStuckLock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	room := battleReadyRoom(t, ts)
	ctx := context.Background()

	// Simulate a crashed generation that never released the lock.
	acquired, err := ts.Repos.Room.TryAcquireBattleLock(ctx, room.ID, time.Now())
	require.NoError(t, err)
	require.True(t, acquired)

	// Without force the caller is told to keep waiting, forever.
	outcome, err := ts.Services.Battle.StartBattle(ctx, room.Code, testutil.TestPassword, false)
	require.NoError(t, err)
	assert.True(t, outcome.Generating)

	// Force is the only recovery path.
	outcome, err = ts.Services.Battle.StartBattle(ctx, room.Code, testutil.TestPassword, true)
	require.NoError(t, err)
	require.NotNil(t, outcome.Battle)
}

func TestBattleService_WinnerBVerdict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	room := battleReadyRoom(t, ts)

	ts.Generator.VerdictJSON = `{"winner":"B","story":"{B} outlasted {A} in a storm of sparks."}`

	outcome, err := ts.Services.Battle.StartBattle(context.Background(), room.Code, testutil.TestPassword, false)
	require.NoError(t, err)
	require.NotNil(t, outcome.Battle)

	assert.Equal(t, 2, outcome.Battle.WinnerSlot)
	assert.Contains(t, outcome.Battle.Story, "Bravo outlasted Alpha")
}

func TestBattleService_MalformedVerdictDegrades(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	room := battleReadyRoom(t, ts)

	ts.Generator.VerdictJSON = "the winner is obviously the cooler one"

	outcome, err := ts.Services.Battle.StartBattle(context.Background(), room.Code, testutil.TestPassword, false)
	require.NoError(t, err)
	require.NotNil(t, outcome.Battle)

	assert.Equal(t, 1, outcome.Battle.WinnerSlot, "unparseable verdict defaults to slot 1")
	assert.Equal(t, "the winner is obviously the cooler one", outcome.Battle.Story)
}
