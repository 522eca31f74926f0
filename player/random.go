package player

import (
	"golang.org/x/exp/rand"

	"tictactoe/game"
)

// Random picks uniformly among the legal moves.
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (p *Random) ChooseMove(b game.Board, _ game.Mark) game.Move {
	legal := b.LegalMoves()
	return legal[p.rng.Intn(len(legal))]
}
