package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chalkline/chalkline/internal/api"
	"github.com/chalkline/chalkline/internal/api/response"
	"github.com/chalkline/chalkline/internal/factory"
	"github.com/chalkline/chalkline/internal/storage/memory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	storage *memory.Storage
	app     *factory.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)
	require.NoError(t, app.AchievementsService.Hydrate(context.Background()))

	router := api.NewRouter(api.RouterConfig{
		Logger:              logger,
		RosterService:       app.RosterService,
		StatsService:        app.StatsService,
		AchievementsService: app.AchievementsService,
		MatchplayController: app.MatchplayController,
	})

	return &testServer{
		handler: router,
		storage: app.Storage.(*memory.Storage),
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) createPlayer(t *testing.T, name string) response.Player {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/players", map[string]string{"display_name": name})
	require.Equal(t, http.StatusCreated, rr.Code)
	var player response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &player))
	return player
}

func (ts *testServer) startSession(t *testing.T, playerIDs ...string) response.Session {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]any{"player_ids": playerIDs})
	require.Equal(t, http.StatusCreated, rr.Code)
	var session response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
	return session
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCreatePlayer(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players", map[string]string{
		"display_name": "Alice",
		"nickname":     "The Hurricane",
	})
	assert.Equal(t, http.StatusCreated, rr.Code)

	var player response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &player))
	assert.Equal(t, "Alice", player.DisplayName)
	assert.Equal(t, "The Hurricane", player.Nickname)
	assert.NotEmpty(t, player.ID)
}

func TestCreatePlayerRequiresDisplayName(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players", map[string]string{"nickname": "Nameless"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_REQUEST")
}

func TestGetMissingPlayer(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/players/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestArchiveHidesPlayerFromRoster(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")
	ts.createPlayer(t, "Bob")

	rr := ts.request(http.MethodPost, "/api/v1/players/"+alice.ID+"/archive", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/players", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var players []response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	require.Len(t, players, 1)
	assert.Equal(t, "Bob", players[0].DisplayName)

	rr = ts.request(http.MethodGet, "/api/v1/players?include_archived=true", nil)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	assert.Len(t, players, 2)
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")
	bob := ts.createPlayer(t, "Bob")

	session := ts.startSession(t, alice.ID, bob.ID)
	assert.True(t, session.Active)
	assert.Len(t, session.PlayerIDs, 2)

	// A second active session is rejected
	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]any{
		"player_ids": []string{alice.ID, bob.ID},
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+session.ID+"/end", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var ended response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ended))
	assert.False(t, ended.Active)
}

func TestRecordFrameFlow(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")
	bob := ts.createPlayer(t, "Bob")
	session := ts.startSession(t, alice.ID, bob.ID)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+session.ID+"/frames", map[string]any{
		"winner_id": alice.ID,
		"loser_id":  bob.ID,
		"clearance": true,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var recorded response.RecordFrameResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recorded))
	assert.Equal(t, alice.ID, recorded.Frame.WinnerID)
	assert.True(t, recorded.Frame.Clearance)

	// First win and first clearance unlock on the spot
	unlockedIDs := make([]string, 0, len(recorded.Unlocked))
	for _, u := range recorded.Unlocked {
		assert.Equal(t, alice.ID, u.PlayerID)
		unlockedIDs = append(unlockedIDs, u.Achievement.ID)
	}
	assert.Contains(t, unlockedIDs, "first-win")
	assert.Contains(t, unlockedIDs, "clearance-1")

	// Wait for detached writes before reading the unlock list
	ts.app.AchievementsService.Wait()
	rr = ts.request(http.MethodGet, "/api/v1/players/"+alice.ID+"/achievements", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var unlocks []response.Unlock
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &unlocks))
	assert.Len(t, unlocks, len(recorded.Unlocked))
}

func TestRecordFrameValidation(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")
	bob := ts.createPlayer(t, "Bob")
	carol := ts.createPlayer(t, "Carol")
	session := ts.startSession(t, alice.ID, bob.ID)

	// Winner and loser must differ
	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+session.ID+"/frames", map[string]any{
		"winner_id": alice.ID,
		"loser_id":  alice.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Both must be participants
	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+session.ID+"/frames", map[string]any{
		"winner_id": alice.ID,
		"loser_id":  carol.ID,
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestUndoLastFrame(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")
	bob := ts.createPlayer(t, "Bob")
	session := ts.startSession(t, alice.ID, bob.ID)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+session.ID+"/frames", map[string]any{
		"winner_id": alice.ID,
		"loser_id":  bob.ID,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/sessions/"+session.ID+"/frames/last", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// Nothing left to undo
	rr = ts.request(http.MethodDelete, "/api/v1/sessions/"+session.ID+"/frames/last", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLeaderboardEndpoint(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")
	bob := ts.createPlayer(t, "Bob")
	session := ts.startSession(t, alice.ID, bob.ID)

	for i := 0; i < 3; i++ {
		rr := ts.request(http.MethodPost, "/api/v1/sessions/"+session.ID+"/frames", map[string]any{
			"winner_id": alice.ID,
			"loser_id":  bob.ID,
		})
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := ts.request(http.MethodGet, "/api/v1/stats/leaderboard", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var board []response.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &board))
	require.Len(t, board, 2)
	assert.Equal(t, alice.ID, board[0].PlayerID)
	assert.Equal(t, 3, board[0].Won)
	assert.Equal(t, 100, board[0].WinPercentage)

	// Malformed window bound
	rr = ts.request(http.MethodGet, "/api/v1/stats/leaderboard?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPlayerStatsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")
	bob := ts.createPlayer(t, "Bob")
	session := ts.startSession(t, alice.ID, bob.ID)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+session.ID+"/frames", map[string]any{
		"winner_id": bob.ID,
		"loser_id":  alice.ID,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/stats/players/"+alice.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var stats response.PlayerStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.FramesWon)
	assert.Equal(t, 1, stats.FramesLost)
	require.Len(t, stats.HeadToHead, 1)
	assert.Equal(t, bob.ID, stats.HeadToHead[0].OpponentID)

	rr = ts.request(http.MethodGet, "/api/v1/stats/players/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFormEndpoint(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "Alice")
	bob := ts.createPlayer(t, "Bob")
	session := ts.startSession(t, alice.ID, bob.ID)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+session.ID+"/frames", map[string]any{
		"winner_id": alice.ID,
		"loser_id":  bob.ID,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/stats/players/"+alice.ID+"/form", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var form []response.SessionForm
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &form))
	require.Len(t, form, 1)
	assert.Equal(t, 1, form[0].Won)

	rr = ts.request(http.MethodGet, "/api/v1/stats/players/"+alice.ID+"/form?sessions=0", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAchievementCatalog(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/achievements", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var catalog []response.Achievement
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &catalog))
	assert.NotEmpty(t, catalog)
	for _, a := range catalog {
		assert.NotEmpty(t, a.ID)
		assert.NotEmpty(t, a.Name)
	}
}
