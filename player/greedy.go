package player

import (
	"golang.org/x/exp/rand"

	"tictactoe/agent"
	"tictactoe/game"
)

// Greedy plays a trained agent's value table with exploration disabled and
// no learning updates. It only reads the table and owns its tie-break
// randomness, so evaluation workers can share one agent across goroutines.
type Greedy struct {
	agent *agent.Agent
	rng   *rand.Rand
}

func NewGreedy(a *agent.Agent, rng *rand.Rand) *Greedy {
	return &Greedy{agent: a, rng: rng}
}

func (p *Greedy) ChooseMove(b game.Board, _ game.Mark) game.Move {
	return p.agent.GreedyMove(b.Key(), b.LegalMoves(), p.rng)
}
