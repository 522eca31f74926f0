package searcher

import (
	"sync"

	"tictactoe/game"
)

// Terminal values. X maximizes and O minimizes; the extremes bound the
// value range of this game, so finding one is a correctness-preserving
// early exit rather than heuristic pruning.
const (
	XWinValue = 1
	OWinValue = -XWinValue
	DrawValue = 0
)

type positionKey struct {
	state game.StateKey
	mover game.Mark
}

type entry struct {
	value   int
	move    game.Move
	hasMove bool
}

// Minimax searches the remaining legal moves exhaustively, memoized by
// (state key, mover). The cache is append-only and never invalidated:
// values are search-invariant and the game has no hidden information, so
// one Minimax can be shared for the life of the process. Reads take the
// read lock; concurrent first-time searches of the same position may
// recompute, which is idempotent.
type Minimax struct {
	mu    sync.RWMutex
	cache map[positionKey]entry
}

func NewMinimax() *Minimax {
	return &Minimax{cache: make(map[positionKey]entry)}
}

// Size returns the number of cached positions.
func (m *Minimax) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

// Value returns the game-theoretic value of the position with mover to play.
func (m *Minimax) Value(b game.Board, mover game.Mark) int {
	value, _, _ := m.search(b, mover)
	return value
}

// BestMove returns the value of the position and an optimal move for the
// mover. Ties among equally valued moves break by enumeration order, so
// search is deterministic. Terminal boards carry no move and return the
// zero move; a non-terminal position that somehow yields no best move
// falls back to the first empty cell rather than failing.
func (m *Minimax) BestMove(b game.Board, mover game.Mark) (int, game.Move) {
	value, move, hasMove := m.search(b, mover)
	if hasMove {
		return value, move
	}
	if legal := b.LegalMoves(); len(legal) > 0 {
		return value, legal[0]
	}
	return value, game.Move{}
}

func (m *Minimax) search(b game.Board, mover game.Mark) (int, game.Move, bool) {
	if outcome := b.Evaluate(); outcome.Terminal() {
		return terminalValue(outcome), game.Move{}, false
	}

	key := positionKey{state: b.Key(), mover: mover}
	m.mu.RLock()
	cached, ok := m.cache[key]
	m.mu.RUnlock()
	if ok {
		return cached.value, cached.move, cached.hasMove
	}

	value, move := m.expand(b, mover)

	m.mu.Lock()
	m.cache[key] = entry{value: value, move: move, hasMove: true}
	m.mu.Unlock()
	return value, move, true
}

// expand evaluates every legal move recursively with the opponent to move,
// stopping early once the mover's best possible value is reached.
func (m *Minimax) expand(b game.Board, mover game.Mark) (int, game.Move) {
	maximizing := mover == game.X
	best := 2
	if maximizing {
		best = -2
	}
	var bestMove game.Move
	for _, move := range b.LegalMoves() {
		next := b
		next.Apply(move, mover)
		value, _, _ := m.search(next, mover.Opponent())
		if maximizing && value > best {
			best, bestMove = value, move
			if best == XWinValue {
				break
			}
		} else if !maximizing && value < best {
			best, bestMove = value, move
			if best == OWinValue {
				break
			}
		}
	}
	return best, bestMove
}

func terminalValue(outcome game.Outcome) int {
	switch outcome {
	case game.XWins:
		return XWinValue
	case game.OWins:
		return OWinValue
	case game.Draw:
		return DrawValue
	default:
		panic("terminal value of an ongoing game")
	}
}
