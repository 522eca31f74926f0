package player

import (
	"tictactoe/game"
	"tictactoe/searcher"
)

// Searcher always plays the minimax-optimal move. It is the strongest
// evaluation opponent and plays deterministically.
type Searcher struct {
	search *searcher.Minimax
}

func NewSearcher(search *searcher.Minimax) *Searcher {
	return &Searcher{search: search}
}

func (p *Searcher) ChooseMove(b game.Board, mover game.Mark) game.Move {
	_, move := p.search.BestMove(b, mover)
	return move
}
