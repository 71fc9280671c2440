package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Undropout/Chesstropia-sub002/internal/config"
	"github.com/Undropout/Chesstropia-sub002/internal/model"
	"github.com/Undropout/Chesstropia-sub002/internal/roster"
	"github.com/Undropout/Chesstropia-sub002/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const player = "player-1"

func newTestService(t *testing.T) *service.GameService {
	t.Helper()
	cfg := config.Default()
	cfg.IdleTimeout = 0
	cfg.Seed = 3

	catalog := roster.Default()
	gm := service.NewGameManager(catalog, cfg)
	t.Cleanup(gm.Close)
	return service.NewGameService(gm, catalog)
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	gs := newTestService(t)

	app := fiber.New()
	Routes(app, NewGameController(gs), NewWebSocketController(gs), nil)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, playerID, body string) (int, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if playerID != "" {
		req.Header.Set("X-Player-ID", playerID)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func createGame(t *testing.T, app *fiber.App, body string) string {
	t.Helper()
	status, out := do(t, app, http.MethodPost, "/api/game/create", player, body)
	require.Equal(t, fiber.StatusCreated, status, out)
	return out["gameId"].(string)
}

func TestRequiresPlayerID(t *testing.T) {
	app := newTestApp(t)
	status, out := do(t, app, http.MethodGet, "/api/teams", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, out["error"], "Player ID is required")

	status, _ = do(t, app, http.MethodGet, "/api/teams?playerId=query-player", "", "")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestListTeams(t *testing.T) {
	app := newTestApp(t)
	status, out := do(t, app, http.MethodGet, "/api/teams", player, "")
	require.Equal(t, fiber.StatusOK, status)
	teams := out["teams"].([]interface{})
	assert.Len(t, teams, 2)
}

func TestCreateAndFetchGame(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, "")

	status, out := do(t, app, http.MethodGet, "/api/game/"+id, player, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, id, out["gameId"])
	assert.Equal(t, string(model.Player), out["sideToMove"])
	assert.Len(t, out["pieces"], 32)

	status, _ = do(t, app, http.MethodGet, "/api/game/nope", player, "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestCreateGameBadInput(t *testing.T) {
	app := newTestApp(t)
	tests := []struct {
		name string
		body string
	}{
		{"team", `{"playerTeam":"nobody"}`},
		{"strategy", `{"strategy":"merciful"}`},
		{"fen", `{"fen":"8/8/8/8/8/8/8/8 w"}`},
		{"json", `{"strategy":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := do(t, app, http.MethodPost, "/api/game/create", player, tt.body)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.NotEmpty(t, out["error"])
		})
	}

	_, out := do(t, app, http.MethodPost, "/api/game/create", player, `{"fen":"8/8/8/8/8/8/8/8 w"}`)
	assert.NotEmpty(t, out["problems"])
}

func TestLegalMovesEndpoint(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, "")

	status, out := do(t, app, http.MethodGet, "/api/game/"+id+"/moves", player, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, out["moves"], 20)

	status, out = do(t, app, http.MethodGet, "/api/game/"+id+"/moves?square=b8", player, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, out["moves"], 2)

	status, out = do(t, app, http.MethodGet, "/api/game/"+id+"/moves?square=d4", player, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, out["moves"], 0)

	status, _ = do(t, app, http.MethodGet, "/api/game/"+id+"/moves?square=k9", player, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestMakeMoveEndpoint(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, "")
	path := "/api/game/" + id + "/move"

	status, out := do(t, app, http.MethodPost, path, "intruder", `{"from":"e7","to":"e5"}`)
	assert.Equal(t, fiber.StatusForbidden, status, out)

	status, out = do(t, app, http.MethodPost, path, player, `{"from":"e7","to":"e4"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.NotEmpty(t, out["reason"])

	status, out = do(t, app, http.MethodPost, path, player, `{"from":"e7","to":"e5"}`)
	require.Equal(t, fiber.StatusOK, status, out)
	assert.Equal(t, float64(2), out["turn"])
	assert.Equal(t, string(model.Player), out["sideToMove"])
}

func TestMoveAfterGameOverConflicts(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, `{"fen":"4k3/8/8/8/8/8/8/4K2r b - - 0 1"}`)
	path := "/api/game/" + id + "/move"

	status, out := do(t, app, http.MethodPost, path, player, `{"from":"h1","to":"e1"}`)
	require.Equal(t, fiber.StatusOK, status, out)
	assert.Equal(t, string(model.StatusEnded), out["status"])

	status, _ = do(t, app, http.MethodPost, path, player, `{"from":"e8","to":"e7"}`)
	assert.Equal(t, fiber.StatusConflict, status)
}

// The stored owner ID must outlive the request buffer it was read from.
func TestStrangerWithSameLengthIDIsRejected(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, "")
	require.Len(t, "mallory1", len(player))

	status, out := do(t, app, http.MethodPost, "/api/game/"+id+"/move", "mallory1", `{"from":"e7","to":"e5"}`)
	assert.Equal(t, fiber.StatusForbidden, status, out)

	status, _ = do(t, app, http.MethodDelete, "/api/game/"+id, "mallory2", "")
	assert.Equal(t, fiber.StatusForbidden, status)

	status, out = do(t, app, http.MethodGet, "/api/game/"+id, "mallory3", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(0), out["turn"])

	status, out = do(t, app, http.MethodPost, "/api/game/"+id+"/move", player, `{"from":"e7","to":"e5"}`)
	assert.Equal(t, fiber.StatusOK, status, out)
}

func TestDeleteGameEndpoint(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, "")

	status, _ := do(t, app, http.MethodDelete, "/api/game/"+id, "intruder", "")
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = do(t, app, http.MethodDelete, "/api/game/"+id, player, "")
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = do(t, app, http.MethodGet, "/api/game/"+id, player, "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestWebsocketRequiresUpgrade(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app, "")

	req := httptest.NewRequest(http.MethodGet, "/ws/game/"+id, nil)
	req.Header.Set("X-Player-ID", player)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
