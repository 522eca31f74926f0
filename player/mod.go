package player

import "tictactoe/game"

// Policy produces one legal move for the given board and mover identity.
// The game loop treats every move source the same way: the learning agent,
// the scripted teacher, the search engine, and the human all satisfy it.
type Policy interface {
	ChooseMove(b game.Board, mover game.Mark) game.Move
}
