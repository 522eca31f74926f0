package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"tictactoe/agent"
	"tictactoe/meta"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	a := agent.NewQLearner(0.5, 0.9, 0, rng)
	cfg := meta.Default()
	cfg.AgentPath = filepath.Join(t.TempDir(), "agent.gob")
	cfg.ProgressInterval = 0
	return New(a, cfg, rng)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) stateResponse {
	t.Helper()
	var state stateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	return state
}

func countFilled(state stateResponse) int {
	n := 0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if state.Board[i][j] != "-" {
				n++
			}
		}
	}
	return n
}

func TestHandleNewGame(t *testing.T) {
	t.Run("human first leaves the board empty", func(t *testing.T) {
		h := newTestServer(t).Handler()
		rec := do(t, h, http.MethodPost, "/newGame", `{"humanFirst": true}`)
		require.Equal(t, http.StatusOK, rec.Code)

		state := decodeState(t, rec)
		require.Zero(t, countFilled(state))
		require.Equal(t, "ongoing", state.Outcome)
	})

	t.Run("agent opens by default", func(t *testing.T) {
		h := newTestServer(t).Handler()
		rec := do(t, h, http.MethodPost, "/newGame", "")
		require.Equal(t, http.StatusOK, rec.Code)

		state := decodeState(t, rec)
		require.Equal(t, 1, countFilled(state))
	})

	t.Run("restarts an in-progress game", func(t *testing.T) {
		h := newTestServer(t).Handler()
		do(t, h, http.MethodPost, "/newGame", `{"humanFirst": true}`)
		do(t, h, http.MethodPost, "/makeMove", `{"row": 1, "col": 1}`)

		rec := do(t, h, http.MethodPost, "/newGame", `{"humanFirst": true}`)
		require.Zero(t, countFilled(decodeState(t, rec)))
	})

	t.Run("rejects GET", func(t *testing.T) {
		h := newTestServer(t).Handler()
		rec := do(t, h, http.MethodGet, "/newGame", "")
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandleMakeMove(t *testing.T) {
	t.Run("applies the move and the agent replies", func(t *testing.T) {
		h := newTestServer(t).Handler()
		do(t, h, http.MethodPost, "/newGame", `{"humanFirst": true}`)

		rec := do(t, h, http.MethodPost, "/makeMove", `{"row": 1, "col": 1}`)
		require.Equal(t, http.StatusOK, rec.Code)

		state := decodeState(t, rec)
		require.Equal(t, "X", state.Board[1][1])
		require.Equal(t, 2, countFilled(state))
	})

	t.Run("rejects an out of range move without touching the board", func(t *testing.T) {
		h := newTestServer(t).Handler()
		do(t, h, http.MethodPost, "/newGame", `{"humanFirst": true}`)

		rec := do(t, h, http.MethodPost, "/makeMove", `{"row": 3, "col": 0}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		rec = do(t, h, http.MethodPost, "/makeMove", `{"row": 0, "col": 0}`)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects an occupied cell", func(t *testing.T) {
		h := newTestServer(t).Handler()
		do(t, h, http.MethodPost, "/newGame", `{"humanFirst": true}`)
		do(t, h, http.MethodPost, "/makeMove", `{"row": 1, "col": 1}`)

		rec := do(t, h, http.MethodPost, "/makeMove", `{"row": 1, "col": 1}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		h := newTestServer(t).Handler()
		do(t, h, http.MethodPost, "/newGame", `{"humanFirst": true}`)

		rec := do(t, h, http.MethodPost, "/makeMove", `{"row": `)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("conflicts once the game is over", func(t *testing.T) {
		h := newTestServer(t).Handler()
		do(t, h, http.MethodPost, "/newGame", `{"humanFirst": true}`)

		// Play until the game ends, then one more move must 409.
		moves := []string{
			`{"row": 0, "col": 0}`, `{"row": 0, "col": 1}`, `{"row": 0, "col": 2}`,
			`{"row": 1, "col": 0}`, `{"row": 1, "col": 1}`, `{"row": 1, "col": 2}`,
			`{"row": 2, "col": 0}`, `{"row": 2, "col": 1}`, `{"row": 2, "col": 2}`,
		}
		over := false
		for _, body := range moves {
			rec := do(t, h, http.MethodPost, "/makeMove", body)
			if rec.Code == http.StatusConflict {
				over = true
				break
			}
			if rec.Code == http.StatusOK && decodeState(t, rec).Outcome != "ongoing" {
				over = true
				rec = do(t, h, http.MethodPost, "/makeMove", `{"row": 2, "col": 2}`)
				require.Equal(t, http.StatusConflict, rec.Code)
				break
			}
			// Occupied cells happen since the agent also plays; skip them.
			if rec.Code == http.StatusBadRequest {
				continue
			}
		}
		require.True(t, over, "nine attempts must end the game")
	})
}

func TestHandleAgentMove(t *testing.T) {
	t.Run("places one mark", func(t *testing.T) {
		h := newTestServer(t).Handler()
		do(t, h, http.MethodPost, "/newGame", `{"humanFirst": true}`)

		rec := do(t, h, http.MethodGet, "/agentMove", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, countFilled(decodeState(t, rec)))
	})

	t.Run("rejects POST", func(t *testing.T) {
		h := newTestServer(t).Handler()
		rec := do(t, h, http.MethodPost, "/agentMove", "")
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandleTrain(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/train", `{"episodes": 50, "ability": 0.5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, 50, resp["episodes"])
	require.Positive(t, resp["entries"])
}
