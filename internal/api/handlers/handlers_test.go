package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/dom/battle-arena/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, ts *testutil.TestServer, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(ts.BaseURL()+path, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func TestHealthEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.BaseURL() + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFullRoomFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)

	// Create a room.
	resp, body := postJSON(t, ts, "/rooms/create", map[string]interface{}{
		"roomName": "Saturday Showdown",
		"password": "sekret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	code, _ := body["roomCode"].(string)
	require.NotEmpty(t, code)

	// Join validates the passphrase and returns the config.
	resp, body = postJSON(t, ts, "/rooms/join", map[string]interface{}{
		"roomCode": code,
		"password": "sekret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	room, _ := body["room"].(map[string]interface{})
	require.NotNil(t, room)
	assert.Equal(t, code, room["code"])

	// Two players claim the two slots.
	var tokens [2]string
	for i := 0; i < 2; i++ {
		resp, body = postJSON(t, ts, "/rooms/"+code+"/claim", map[string]interface{}{
			"password": "sekret",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, false, body["spectator"])
		assert.Equal(t, float64(i+1), body["slot"])
		tokens[i], _ = body["token"].(string)
		require.NotEmpty(t, tokens[i])
	}

	// A third joiner becomes a spectator.
	resp, body = postJSON(t, ts, "/rooms/"+code+"/claim", map[string]interface{}{
		"password": "sekret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["spectator"])

	// Both players submit characters.
	for i := 0; i < 2; i++ {
		resp, body = postJSON(t, ts, "/rooms/"+code+"/submit", map[string]interface{}{
			"password":    "sekret",
			"slot":        i + 1,
			"token":       tokens[i],
			"name":        fmt.Sprintf("Fighter %d", i+1),
			"description": "a mighty challenger",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, "body: %v", body)
		player, _ := body["player"].(map[string]interface{})
		require.NotNil(t, player)
		assert.NotEmpty(t, player["imageUrl"])
	}

	// Status for player one shows both characters and no battle yet.
	resp, body = postJSON(t, ts, "/rooms/"+code+"/status", map[string]interface{}{
		"password": "sekret",
		"token":    tokens[0],
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "idle", body["battleStatus"])
	assert.Equal(t, float64(1), body["yourSlot"])
	players, _ := body["players"].([]interface{})
	assert.Len(t, players, 2)

	// Start the battle.
	resp, body = postJSON(t, ts, "/rooms/"+code+"/battle", map[string]interface{}{
		"password": "sekret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "done", body["battleStatus"])
	battle, _ := body["battle"].(map[string]interface{})
	require.NotNil(t, battle)
	assert.Contains(t, battle["story"], "Fighter 1")

	// Re-invoking without force returns the same result.
	resp, again := postJSON(t, ts, "/rooms/"+code+"/battle", map[string]interface{}{
		"password": "sekret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	againBattle, _ := again["battle"].(map[string]interface{})
	require.NotNil(t, againBattle)
	assert.Equal(t, battle["id"], againBattle["id"])

	// Status now carries the result.
	resp, body = postJSON(t, ts, "/rooms/"+code+"/status", map[string]interface{}{
		"password": "sekret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "done", body["battleStatus"])
	require.NotNil(t, body["battle"])
}

func TestErrorStatusMapping(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	room := testutil.CreateRoom(t, ts)
	claim := testutil.ClaimSlot(t, ts, room.Code)

	tests := []struct {
		name       string
		path       string
		payload    map[string]interface{}
		wantStatus int
	}{
		{
			"unknown room",
			"/rooms/ZZZZZZ/claim",
			map[string]interface{}{"password": "sekret"},
			http.StatusNotFound,
		},
		{
			"wrong password",
			"/rooms/" + room.Code + "/claim",
			map[string]interface{}{"password": "wrong"},
			http.StatusUnauthorized,
		},
		{
			"submit without token",
			"/rooms/" + room.Code + "/submit",
			map[string]interface{}{
				"password": testutil.TestPassword, "slot": 1,
				"name": "X", "description": "y",
			},
			http.StatusForbidden,
		},
		{
			"submit to invalid slot",
			"/rooms/" + room.Code + "/submit",
			map[string]interface{}{
				"password": testutil.TestPassword, "slot": 9, "token": claim.Token,
				"name": "X", "description": "y",
			},
			http.StatusBadRequest,
		},
		{
			"battle before characters",
			"/rooms/" + room.Code + "/battle",
			map[string]interface{}{"password": testutil.TestPassword},
			http.StatusBadRequest,
		},
		{
			"short password on create",
			"/rooms/create",
			map[string]interface{}{"password": "ab"},
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postJSON(t, ts, tt.path, tt.payload)
			assert.Equal(t, tt.wantStatus, resp.StatusCode, "body: %v", body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestSubmitConflictStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	room := testutil.CreateRoom(t, ts)
	claim := testutil.ClaimSlot(t, ts, room.Code)
	testutil.SubmitCharacter(t, ts, room.Code, claim.Token, claim.Slot, "First")

	resp, _ := postJSON(t, ts, "/rooms/"+room.Code+"/submit", map[string]interface{}{
		"password": testutil.TestPassword, "slot": claim.Slot, "token": claim.Token,
		"name": "Second", "description": "usurper",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGalleryEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := testutil.NewTestServer(t)
	room := testutil.CreateRoom(t, ts)
	testutil.InsertCharacter(t, ts, room.ID, 1, "Alpha")

	resp, err := http.Get(ts.BaseURL() + "/gallery")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	items, _ := body["items"].([]interface{})
	require.Len(t, items, 1)
}
