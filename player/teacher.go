package player

import (
	"golang.org/x/exp/rand"

	"tictactoe/game"
	"tictactoe/searcher"
)

// ScriptedTeacher plays optimally with probability ability and uniformly
// at random otherwise, giving the learner an opponent of controlled
// strength: ability 1.0 is a perfect adversary, 0.0 pure noise. It does
// not learn.
type ScriptedTeacher struct {
	ability float64
	search  *searcher.Minimax
	rng     *rand.Rand
}

func NewScriptedTeacher(ability float64, search *searcher.Minimax, rng *rand.Rand) *ScriptedTeacher {
	if ability < 0 || ability > 1 {
		panic("teacher ability must be in [0,1]")
	}
	return &ScriptedTeacher{ability: ability, search: search, rng: rng}
}

// ChooseMove draws once per call, not once per game.
func (t *ScriptedTeacher) ChooseMove(b game.Board, mover game.Mark) game.Move {
	if t.rng.Float64() < t.ability {
		_, move := t.search.BestMove(b, mover)
		return move
	}
	legal := b.LegalMoves()
	return legal[t.rng.Intn(len(legal))]
}
