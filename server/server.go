package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"tictactoe/agent"
	"tictactoe/experiments"
	"tictactoe/game"
	"tictactoe/meta"
	"tictactoe/player"
)

// Server exposes one game at a time over HTTP. Every newGame request
// restarts the board, so the loop is restartable per request. The served
// agent plays O with exploration disabled; the human (or remote caller)
// plays X. One mutex serializes all game and training access.
type Server struct {
	mu     sync.Mutex
	board  game.Board
	agent  *agent.Agent
	greedy *player.Greedy
	cfg    meta.RunConfig
	rng    *rand.Rand
}

func New(a *agent.Agent, cfg meta.RunConfig, rng *rand.Rand) *Server {
	return &Server{
		board:  game.NewBoard(),
		agent:  a,
		greedy: player.NewGreedy(a, rng),
		cfg:    cfg,
		rng:    rng,
	}
}

// Handler returns the route table; split from Start for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/newGame", s.handleNewGame)
	mux.HandleFunc("/makeMove", s.handleMakeMove)
	mux.HandleFunc("/agentMove", s.handleAgentMove)
	mux.HandleFunc("/train", s.handleTrain)
	return mux
}

// Start serves until the listener fails.
func (s *Server) Start(addr string) error {
	log.Info().Msgf("serving on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

type newGameRequest struct {
	HumanFirst bool `json:"humanFirst"`
}

type moveRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type trainRequest struct {
	Episodes int     `json:"episodes"`
	Ability  float64 `json:"ability"`
}

type stateResponse struct {
	Board   [3][3]string `json:"board"`
	Outcome string       `json:"outcome"`
	Winner  string       `json:"winner,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req newGameRequest
	// An empty body means the agent opens.
	_ = json.NewDecoder(r.Body).Decode(&req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = game.NewBoard()
	if !req.HumanFirst {
		s.agentReply()
	}
	log.Info().Msgf("new game started, human first: %v", req.HumanFirst)
	s.writeState(w)
}

func (s *Server) handleMakeMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	move := game.Move{Row: req.Row, Col: req.Col}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board.Evaluate().Terminal() {
		writeError(w, http.StatusConflict, "game is over, start a new game")
		return
	}
	// Reject bad input without touching the board.
	if !move.InRange() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("move %s out of range", move))
		return
	}
	if s.board[move.Row][move.Col] != game.Empty {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("cell %s is already occupied", move))
		return
	}

	s.board.Apply(move, game.X)
	if !s.board.Evaluate().Terminal() {
		s.agentReply()
	}
	s.writeState(w)
}

func (s *Server) handleAgentMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board.Evaluate().Terminal() {
		writeError(w, http.StatusConflict, "game is over, start a new game")
		return
	}
	s.agentReply()
	s.writeState(w)
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req trainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.cfg
	if req.Episodes > 0 {
		cfg.Episodes = req.Episodes
	}
	if req.Ability > 0 {
		cfg.TeacherAbility = req.Ability
	}

	// Training explores with the agent's stored epsilon; greedy serving is
	// unaffected since the greedy policy ignores epsilon.
	if err := experiments.Train(s.agent, cfg, s.rng); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{
		"episodes": cfg.Episodes,
		"entries":  s.agent.Entries(),
	})
}

// agentReply places the agent's O move. Callers hold the lock and have
// checked the game is not over.
func (s *Server) agentReply() {
	move := s.greedy.ChooseMove(s.board, game.O)
	s.board.Apply(move, game.O)
}

func (s *Server) writeState(w http.ResponseWriter) {
	outcome := s.board.Evaluate()
	resp := stateResponse{Outcome: outcome.String()}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			resp.Board[i][j] = s.board[i][j].String()
		}
	}
	if winner, ok := outcome.Winner(); ok {
		resp.Winner = winner.String()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}
