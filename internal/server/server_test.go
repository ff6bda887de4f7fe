package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"padel-league/internal/config"
	"padel-league/internal/database"
	"padel-league/internal/notify"
	"padel-league/internal/repository"
	"padel-league/internal/service"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := zerolog.Nop()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}

	db, err := database.New(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	players := repository.NewPlayerRepository(db, log)
	matches := repository.NewMatchRepository(db, log)
	pairs := repository.NewPairRepository(db, log)
	notifier := notify.NewClient(cfg, log)

	srv := NewLeagueServer(
		service.NewLeagueService(players, matches, pairs, notifier, log),
		service.NewPairService(pairs, matches, log),
		service.NewStatsService(players, matches, log),
		service.NewRecordsService(players, matches, log),
		log,
	)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func registerPlayers(t *testing.T, ts *httptest.Server, names ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		var created struct {
			ID int64 `json:"id"`
		}
		status := doJSON(t, ts, http.MethodPost, "/api/players", map[string]string{"name": name}, &created)
		require.Equal(t, http.StatusCreated, status)
		ids = append(ids, created.ID)
	}
	return ids
}

func TestHealthz(t *testing.T) {
	ts := testServer(t)

	var body map[string]string
	status := doJSON(t, ts, http.MethodGet, "/healthz", nil, &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestSubmitMatchAndStandings(t *testing.T) {
	ts := testServer(t)
	ids := registerPlayers(t, ts, "Ana", "Bea", "Cleo", "Dana")

	var match struct {
		ID     int64  `json:"id"`
		Ref    string `json:"ref"`
		Format string `json:"format"`
	}
	status := doJSON(t, ts, http.MethodPost, "/api/matches", map[string]any{
		"team_a":  []int64{ids[0], ids[1]},
		"team_b":  []int64{ids[2], ids[3]},
		"score_a": 6,
		"score_b": 3,
	}, &match)

	require.Equal(t, http.StatusCreated, status)
	assert.NotZero(t, match.ID)
	assert.NotEmpty(t, match.Ref)
	assert.Equal(t, "to6", match.Format)

	var standings []struct {
		PlayerID int64   `json:"player_id"`
		Rating   float64 `json:"rating"`
		Wins     int     `json:"wins"`
	}
	status = doJSON(t, ts, http.MethodGet, "/api/standings", nil, &standings)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, standings, 4)

	// Winners ahead of losers, same delta both teammates.
	assert.Equal(t, 1, standings[0].Wins)
	assert.InDelta(t, 1004.2, standings[0].Rating, 1e-9)
	assert.InDelta(t, standings[0].Rating, standings[1].Rating, 1e-9)
	assert.InDelta(t, 995.8, standings[3].Rating, 1e-9)
}

func TestSubmitMatchRejectsInvalidScore(t *testing.T) {
	ts := testServer(t)
	ids := registerPlayers(t, ts, "Ana", "Bea", "Cleo", "Dana")

	var errBody struct {
		Error string `json:"error"`
	}
	status := doJSON(t, ts, http.MethodPost, "/api/matches", map[string]any{
		"team_a":  []int64{ids[0], ids[1]},
		"team_b":  []int64{ids[2], ids[3]},
		"score_a": 5,
		"score_b": 2,
	}, &errBody)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, errBody.Error, "to6")

	// The rejected match must leave no trace in the log.
	var matches []json.RawMessage
	status = doJSON(t, ts, http.MethodGet, "/api/matches", nil, &matches)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, matches)
}

func TestSubmitMatchRejectsOverlappingTeams(t *testing.T) {
	ts := testServer(t)
	ids := registerPlayers(t, ts, "Ana", "Bea", "Cleo")

	status := doJSON(t, ts, http.MethodPost, "/api/matches", map[string]any{
		"team_a":  []int64{ids[0], ids[1]},
		"team_b":  []int64{ids[1], ids[2]},
		"score_a": 6,
		"score_b": 0,
	}, nil)

	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSubmitMatchUnknownPlayerIsValidationFailure(t *testing.T) {
	ts := testServer(t)
	ids := registerPlayers(t, ts, "Ana", "Bea", "Cleo")

	var errBody struct {
		Error string `json:"error"`
		Rule  string `json:"rule"`
	}
	status := doJSON(t, ts, http.MethodPost, "/api/matches", map[string]any{
		"team_a":  []int64{ids[0], ids[1]},
		"team_b":  []int64{ids[2], 999},
		"score_a": 6,
		"score_b": 0,
	}, &errBody)

	// A bad roster in a submission is the caller's input error, unlike a
	// query for a player that does not exist.
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "unknown_player", errBody.Rule)
}

func TestPlayerNotFound(t *testing.T) {
	ts := testServer(t)

	status := doJSON(t, ts, http.MethodGet, "/api/players/424242", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status = doJSON(t, ts, http.MethodGet, "/api/players/424242/stats", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDuplicatePlayerName(t *testing.T) {
	ts := testServer(t)
	registerPlayers(t, ts, "Ana")

	status := doJSON(t, ts, http.MethodPost, "/api/players", map[string]string{"name": "ana"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPairsLifecycle(t *testing.T) {
	ts := testServer(t)
	ids := registerPlayers(t, ts, "Ana", "Bea", "Cleo", "Dana")

	submit := func(scoreA, scoreB int) {
		status := doJSON(t, ts, http.MethodPost, "/api/matches", map[string]any{
			"team_a":  []int64{ids[0], ids[1]},
			"team_b":  []int64{ids[2], ids[3]},
			"score_a": scoreA,
			"score_b": scoreB,
		}, nil)
		require.Equal(t, http.StatusCreated, status)
	}
	submit(6, 0)
	submit(6, 3)

	var pairs []struct {
		Player1ID int64   `json:"player1_id"`
		Rating    float64 `json:"rating"`
		Wins      int     `json:"wins"`
	}
	status := doJSON(t, ts, http.MethodGet, "/api/pairs", nil, &pairs)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, pairs, 2)
	assert.Equal(t, 2, pairs[0].Wins)
	assert.Greater(t, pairs[0].Rating, pairs[1].Rating)

	// Rebuilding from the log must reproduce the incrementally built state.
	before := pairs[0].Rating
	var rebuilt map[string]int
	status = doJSON(t, ts, http.MethodPost, "/api/pairs/rebuild", nil, &rebuilt)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, rebuilt["pairs"])

	status = doJSON(t, ts, http.MethodGet, "/api/pairs", nil, &pairs)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, before, pairs[0].Rating, 1e-9)

	var detail struct {
		Pair struct {
			Rating float64 `json:"rating"`
		} `json:"pair"`
		Matches int `json:"matches"`
	}
	path := fmt.Sprintf("/api/pairs/stats?p1=%d&p2=%d", ids[1], ids[0])
	status = doJSON(t, ts, http.MethodGet, path, nil, &detail)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, detail.Matches)
	assert.InDelta(t, before, detail.Pair.Rating, 1e-9)
}

func TestPredict(t *testing.T) {
	ts := testServer(t)
	ids := registerPlayers(t, ts, "Ana", "Bea", "Cleo", "Dana")

	var pred struct {
		WinProbA        float64 `json:"win_prob_a"`
		WinProbB        float64 `json:"win_prob_b"`
		PredictedScoreA float64 `json:"predicted_score_a"`
	}
	status := doJSON(t, ts, http.MethodPost, "/api/predict", map[string]any{
		"team_a": []int64{ids[0], ids[1]},
		"team_b": []int64{ids[2], ids[3]},
	}, &pred)

	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 0.5, pred.WinProbA, 1e-9)
	assert.InDelta(t, 1.0, pred.WinProbA+pred.WinProbB, 1e-9)
	assert.InDelta(t, 3.0, pred.PredictedScoreA, 1e-9)
}

func TestLeaderboardRejectsUnknownCategory(t *testing.T) {
	ts := testServer(t)

	status := doJSON(t, ts, http.MethodGet, "/api/leaderboard?by=chaos", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRecordsOnEmptyLeague(t *testing.T) {
	ts := testServer(t)

	var body map[string]json.RawMessage
	status := doJSON(t, ts, http.MethodGet, "/api/records", nil, &body)

	assert.Equal(t, http.StatusOK, status)
	assert.NotContains(t, body, "highest_rating")
	assert.NotContains(t, body, "biggest_diff")
}
