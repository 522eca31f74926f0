package game

// Mark is a cell value on the board.
type Mark byte

const (
	Empty Mark = '-'
	X     Mark = 'X'
	O     Mark = 'O'
)

func (m Mark) String() string { return string(m) }

// Opponent returns the other player's mark.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	default:
		panic("no opponent for an empty mark")
	}
}

// StateKey is the canonical row-major encoding of a board. Two boards are
// the same state iff their keys are equal. Keys index value tables and
// memoize search results.
type StateKey string
