package game

// Outcome is the terminal status of a board.
type Outcome int

const (
	Ongoing Outcome = iota
	XWins
	OWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case XWins:
		return "X wins"
	case OWins:
		return "O wins"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

// Terminal reports whether the game is over.
func (o Outcome) Terminal() bool { return o != Ongoing }

// Winner returns the winning mark, if any.
func (o Outcome) Winner() (Mark, bool) {
	switch o {
	case XWins:
		return X, true
	case OWins:
		return O, true
	default:
		return Empty, false
	}
}

// The 8 winning lines: 3 rows, 3 columns, 2 diagonals.
var lines = [8][3]Move{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Evaluate checks every winning line for three equal non-empty marks. If
// none is found the game is a draw on a full board and ongoing otherwise.
// The check is symmetric in X and O.
func (b Board) Evaluate() Outcome {
	for _, line := range lines {
		first := b[line[0].Row][line[0].Col]
		if first == Empty {
			continue
		}
		if first == b[line[1].Row][line[1].Col] && first == b[line[2].Row][line[2].Col] {
			if first == X {
				return XWins
			}
			return OWins
		}
	}
	if b.Full() {
		return Draw
	}
	return Ongoing
}
