package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"tictactoe/game"
)

// naiveValue recomputes the game-theoretic value without memoization or
// early exits, as a reference for the cached search.
func naiveValue(b game.Board, mover game.Mark) int {
	if outcome := b.Evaluate(); outcome.Terminal() {
		return terminalValue(outcome)
	}
	best := 2
	if mover == game.X {
		best = -2
	}
	for _, move := range b.LegalMoves() {
		next := b
		next.Apply(move, mover)
		value := naiveValue(next, mover.Opponent())
		if mover == game.X && value > best {
			best = value
		} else if mover == game.O && value < best {
			best = value
		}
	}
	return best
}

func corners() []game.Move {
	return []game.Move{{Row: 0, Col: 0}, {Row: 0, Col: 2}, {Row: 2, Col: 0}, {Row: 2, Col: 2}}
}

func TestValue(t *testing.T) {
	t.Run("empty board is a draw under best play", func(t *testing.T) {
		m := NewMinimax()
		require.Equal(t, DrawValue, m.Value(game.NewBoard(), game.X))
	})

	t.Run("immediate win for X", func(t *testing.T) {
		b := game.NewBoard()
		b.Apply(game.Move{Row: 0, Col: 0}, game.X)
		b.Apply(game.Move{Row: 1, Col: 0}, game.O)
		b.Apply(game.Move{Row: 0, Col: 1}, game.X)
		b.Apply(game.Move{Row: 1, Col: 1}, game.O)

		m := NewMinimax()
		value, move := m.BestMove(b, game.X)
		require.Equal(t, XWinValue, value)
		require.Equal(t, game.Move{Row: 0, Col: 2}, move)
	})
}

func TestSelfPlayDraws(t *testing.T) {
	m := NewMinimax()
	board := game.NewBoard()
	mover := game.X
	for !board.Evaluate().Terminal() {
		_, move := m.BestMove(board, mover)
		board.Apply(move, mover)
		mover = mover.Opponent()
	}
	require.Equal(t, game.Draw, board.Evaluate())
}

func TestCenterOpeningForcesCorner(t *testing.T) {
	board := game.NewBoard()
	board.Apply(game.Move{Row: 1, Col: 1}, game.X)

	m := NewMinimax()
	value, move := m.BestMove(board, game.O)
	require.Equal(t, DrawValue, value, "center opening is drawn under best play")
	require.Contains(t, corners(), move, "only a corner reply holds the draw")
}

func TestMemoMatchesNaive(t *testing.T) {
	// Sample positions from random playouts and compare the cached search
	// against the plain recursive recomputation for both movers.
	m := NewMinimax()
	rng := rand.New(rand.NewSource(7))

	for g := 0; g < 20; g++ {
		board := game.NewBoard()
		mover := game.X
		for !board.Evaluate().Terminal() {
			require.Equal(t, naiveValue(board, game.X), m.Value(board, game.X), board.Key())
			require.Equal(t, naiveValue(board, game.O), m.Value(board, game.O), board.Key())

			legal := board.LegalMoves()
			board.Apply(legal[rng.Intn(len(legal))], mover)
			mover = mover.Opponent()
		}
	}
}

func TestRepeatedCallsAreStable(t *testing.T) {
	board := game.NewBoard()
	board.Apply(game.Move{Row: 1, Col: 1}, game.X)

	m := NewMinimax()
	value1, move1 := m.BestMove(board, game.O)
	size := m.Size()
	value2, move2 := m.BestMove(board, game.O)

	require.Equal(t, value1, value2)
	require.Equal(t, move1, move2)
	require.Equal(t, size, m.Size(), "a cache hit must not grow the cache")
}

func TestNeverLosesToRandom(t *testing.T) {
	m := NewMinimax()
	rng := rand.New(rand.NewSource(42))

	playout := func(searchMark game.Mark) game.Outcome {
		board := game.NewBoard()
		mover := game.X
		for !board.Evaluate().Terminal() {
			var move game.Move
			if mover == searchMark {
				_, move = m.BestMove(board, mover)
			} else {
				legal := board.LegalMoves()
				move = legal[rng.Intn(len(legal))]
			}
			board.Apply(move, mover)
			mover = mover.Opponent()
		}
		return board.Evaluate()
	}

	t.Run("as X never loses", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			require.NotEqual(t, game.OWins, playout(game.X))
		}
	})

	t.Run("as O never loses", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			require.NotEqual(t, game.XWins, playout(game.O))
		}
	})
}
