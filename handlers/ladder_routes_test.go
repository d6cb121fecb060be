package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"climber/models"
	"climber/rating"
	"climber/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := models.Open(models.DriverSQLite, filepath.Join(t.TempDir(), "ladder.db"), false)
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	model := rating.DefaultModel()
	return NewApp(Services{
		Results:     services.NewResultService(db, model, zerolog.Nop()),
		Players:     services.NewPlayerService(db, model, zerolog.Nop()),
		Leaderboard: services.NewLeaderboardService(db),
	}, "*", zerolog.Nop())
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func createPlayer(t *testing.T, app *fiber.App, name string) models.Player {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/players", fmt.Sprintf(`{"name":%q}`, name))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	var p models.Player
	require.NoError(t, json.Unmarshal(body, &p))
	return p
}

func TestSubmitMatchJSON(t *testing.T) {
	app := newTestApp(t)
	a := createPlayer(t, app, "Jeppe")
	b := createPlayer(t, app, "Mads")

	resp, body := doJSON(t, app, "POST", "/matches",
		fmt.Sprintf(`{"player_one":%d,"player_two":"%d","score_one":10,"score_two":"7"}`, a.ID, b.ID))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	var match models.Match
	require.NoError(t, json.Unmarshal(body, &match))
	assert.Equal(t, a.ID, match.WinnerID)
	assert.Equal(t, 10, match.WinnerScore)
	assert.Equal(t, 7, match.LoserScore)
	require.NotNil(t, match.Winner)
	assert.Equal(t, "Jeppe", match.Winner.Name)
	assert.Equal(t, "Mads", match.Loser.Name)

	resp, body = doJSON(t, app, "GET", "/leaderboard", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var board []services.LeaderboardEntry
	require.NoError(t, json.Unmarshal(body, &board))
	require.Len(t, board, 2)
	assert.Equal(t, "Jeppe", board[0].Name)
	assert.Equal(t, int64(1), board[0].GamesWon)
	assert.Equal(t, int64(-1), board[1].Streak)

	resp, body = doJSON(t, app, "GET", "/matches/recent?limit=5", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var recent []models.Match
	require.NoError(t, json.Unmarshal(body, &recent))
	assert.Len(t, recent, 1)
}

func TestSubmitMatchForm(t *testing.T) {
	app := newTestApp(t)
	a := createPlayer(t, app, "Jaap")
	b := createPlayer(t, app, "Jaime")

	form := url.Values{}
	form.Set("player_one", fmt.Sprint(a.ID))
	form.Set("player_two", fmt.Sprint(b.ID))
	form.Set("score_one", "4")
	form.Set("score_two", "10")
	req := httptest.NewRequest("POST", "/matches", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var match models.Match
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&match))
	assert.Equal(t, b.ID, match.WinnerID)
	assert.Equal(t, a.ID, match.LoserID)
}

func TestSubmitMatchErrors(t *testing.T) {
	app := newTestApp(t)
	a := createPlayer(t, app, "A")
	b := createPlayer(t, app, "B")

	tests := []struct {
		name   string
		body   string
		status int
		kind   string
	}{
		{name: "same player", body: fmt.Sprintf(`{"player_one":%d,"player_two":%d,"score_one":1,"score_two":0}`, a.ID, a.ID), status: 400, kind: "invalid_player"},
		{name: "unknown player", body: fmt.Sprintf(`{"player_one":%d,"player_two":999,"score_one":1,"score_two":0}`, a.ID), status: 400, kind: "invalid_player"},
		{name: "negative score", body: fmt.Sprintf(`{"player_one":%d,"player_two":%d,"score_one":-1,"score_two":0}`, a.ID, b.ID), status: 400, kind: "invalid_score"},
		{name: "text score", body: fmt.Sprintf(`{"player_one":%d,"player_two":%d,"score_one":"ten","score_two":0}`, a.ID, b.ID), status: 400, kind: "invalid_score"},
		{name: "broken json", body: `{"player_one":`, status: 400, kind: "request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, app, "POST", "/matches", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			var payload map[string]string
			require.NoError(t, json.Unmarshal(body, &payload))
			assert.Equal(t, tt.kind, payload["error"])
			assert.NotEmpty(t, payload["message"])
			assert.NotEmpty(t, payload["request_id"])
			assert.Equal(t, resp.Header.Get("X-Request-ID"), payload["request_id"])
		})
	}

	resp, body := doJSON(t, app, "GET", "/matches/recent", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestPlayerRoutes(t *testing.T) {
	app := newTestApp(t)
	a := createPlayer(t, app, "Jeppe")
	createPlayer(t, app, "Mads")

	resp, body := doJSON(t, app, "POST", "/players", `{"name":"jeppe"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "name_taken")

	resp, body = doJSON(t, app, "GET", "/players?q=jep", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, fmt.Sprintf(`[{"id":%d,"name":"Jeppe"}]`, a.ID), string(body))

	resp, body = doJSON(t, app, "GET", fmt.Sprintf("/players/%d", a.ID), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var profile services.PlayerProfile
	require.NoError(t, json.Unmarshal(body, &profile))
	assert.Equal(t, "Jeppe", profile.Player.Name)
	assert.Equal(t, 1, profile.Position)

	resp, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/players/%d", a.ID), "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", fmt.Sprintf("/players/%d", a.ID), "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", "/players/nope", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, body = doJSON(t, app, "GET", "/players", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), "Jeppe")

	resp, _ = doJSON(t, app, "GET", "/healthz", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
