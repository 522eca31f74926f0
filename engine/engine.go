package engine

import (
	"golang.org/x/exp/rand"

	"tictactoe/agent"
	"tictactoe/game"
	"tictactoe/player"
)

// Engine owns one board exclusively and drives full episodes between the
// learning agent (playing O) and an opponent policy (playing X). Policies
// only ever produce legal moves, so an illegal application panics inside
// the board rather than surfacing as a recoverable error.
type Engine struct {
	board    game.Board
	agent    *agent.Agent
	opponent player.Policy
	rng      *rand.Rand
}

func NewEngine(a *agent.Agent, opponent player.Policy, rng *rand.Rand) *Engine {
	return &Engine{board: game.NewBoard(), agent: a, opponent: opponent, rng: rng}
}

// Reset discards the current board so the engine can start a fresh game.
func (e *Engine) Reset() { e.board = game.NewBoard() }

// Board returns a copy of the current board.
func (e *Engine) Board() game.Board { return e.board }

// Start runs one training episode with the first mover drawn 50/50.
func (e *Engine) Start() game.Outcome {
	return e.RunEpisode(e.rng.Float64() < 0.5)
}

// RunEpisode plays one episode and feeds the agent's update rule. Credit
// for an agent move is assigned only once the opponent's reply (or the
// terminal outcome) is known: the agent acts, the opponent answers, and
// only then is the earlier decision evaluated. The two-ply lag is the
// temporal structure Q-learning and SARSA assume. Termination is checked
// after every ply; intermediate transitions carry zero reward.
func (e *Engine) RunEpisode(opponentFirst bool) game.Outcome {
	e.Reset()

	if opponentFirst {
		e.opponentMove()
	}
	prevState := e.board.Key()
	prevAction := e.agent.GetAction(prevState, e.board.LegalMoves())

	for {
		e.board.Apply(prevAction, game.O)
		if outcome := e.board.Evaluate(); outcome.Terminal() {
			e.finalUpdate(prevState, prevAction, rewardFor(outcome))
			return outcome
		}

		e.opponentMove()
		if outcome := e.board.Evaluate(); outcome.Terminal() {
			e.finalUpdate(prevState, prevAction, rewardFor(outcome))
			return outcome
		}

		// Game continues: observe the new state and pick the next action
		// epsilon-greedily before correcting the previous estimate.
		newState := e.board.Key()
		newLegal := e.board.LegalMoves()
		newAction := e.agent.GetAction(newState, newLegal)
		e.agent.Update(prevState, &newState, prevAction, &newAction, newLegal, 0)
		prevState = newState
		prevAction = newAction
	}
}

func (e *Engine) opponentMove() {
	move := e.opponent.ChooseMove(e.board, game.X)
	e.board.Apply(move, game.X)
}

// finalUpdate closes the episode: no next state, no next action, and the
// target is the raw reward.
func (e *Engine) finalUpdate(prevState game.StateKey, prevAction game.Move, reward float64) {
	e.agent.Update(prevState, nil, prevAction, nil, nil, reward)
}

// rewardFor maps a terminal outcome to the agent's (O) reward: +1 for a
// win, -1 for a loss, 0 for a draw.
func rewardFor(outcome game.Outcome) float64 {
	switch outcome {
	case game.OWins:
		return 1
	case game.XWins:
		return -1
	case game.Draw:
		return 0
	default:
		panic("reward for a non-terminal outcome")
	}
}

// PlayMatch runs one game between two policies without learning updates
// and returns the final board and outcome. firstMover names the mark that
// opens.
func PlayMatch(xPolicy, oPolicy player.Policy, firstMover game.Mark) (game.Board, game.Outcome) {
	board := game.NewBoard()
	mover := firstMover
	for {
		policy := xPolicy
		if mover == game.O {
			policy = oPolicy
		}
		move := policy.ChooseMove(board, mover)
		board.Apply(move, mover)
		if outcome := board.Evaluate(); outcome.Terminal() {
			return board, outcome
		}
		mover = mover.Opponent()
	}
}
