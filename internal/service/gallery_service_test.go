package service_test

import (
	"context"
	"testing"

	"github.com/dom/battle-arena/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGalleryService_List(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	roomA := testutil.CreateRoom(t, ts)
	roomB := testutil.CreateRoom(t, ts)
	testutil.InsertCharacter(t, ts, roomA.ID, 1, "Alpha")
	testutil.InsertCharacter(t, ts, roomA.ID, 2, "Bravo")
	testutil.InsertCharacter(t, ts, roomB.ID, 1, "Charlie")

	items, err := ts.Services.Gallery.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 3, "gallery spans rooms")

	for _, item := range items {
		assert.NotEmpty(t, item.Name)
		assert.NotEmpty(t, item.ImageURL)
		assert.NotEmpty(t, item.RoomCode, "room association preloaded")
	}

	limited, err := ts.Services.Gallery.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	paged, err := ts.Services.Gallery.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, paged, 1)
}

func TestGalleryService_ListCapsLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	room := testutil.CreateRoom(t, ts)
	testutil.InsertCharacter(t, ts, room.ID, 1, "Alpha")

	items, err := ts.Services.Gallery.List(context.Background(), 100000, -5)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
