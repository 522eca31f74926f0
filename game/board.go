package game

import (
	"fmt"
	"strings"
)

// Board is a 3x3 grid of marks. A board is exclusively owned and mutated
// by one game loop at a time.
type Board [3][3]Mark

// NewBoard returns an empty board.
func NewBoard() Board {
	var b Board
	for i := range b {
		for j := range b[i] {
			b[i][j] = Empty
		}
	}
	return b
}

// Key flattens the board row-major into its canonical state key.
func (b Board) Key() StateKey {
	var sb strings.Builder
	sb.Grow(9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sb.WriteByte(byte(b[i][j]))
		}
	}
	return StateKey(sb.String())
}

// LegalMoves returns the empty cells in row-major order.
func (b Board) LegalMoves() []Move {
	moves := make([]Move, 0, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if b[i][j] == Empty {
				moves = append(moves, Move{Row: i, Col: j})
			}
		}
	}
	return moves
}

// Apply writes mark into the cell named by move. Only legal moves are ever
// generated, so an occupied or out-of-range cell indicates a logic error in
// move generation and panics.
func (b *Board) Apply(move Move, mark Mark) {
	if mark != X && mark != O {
		panic(fmt.Sprintf("cannot place mark %q", mark))
	}
	if !move.InRange() {
		panic(fmt.Sprintf("move %s out of range", move))
	}
	if b[move.Row][move.Col] != Empty {
		panic(fmt.Sprintf("cell %s is already occupied", move))
	}
	b[move.Row][move.Col] = mark
}

// Full reports whether no empty cells remain.
func (b Board) Full() bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if b[i][j] == Empty {
				return false
			}
		}
	}
	return true
}

// String renders the board with row and column indices for terminal play.
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("    0   1   2\n\n")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&sb, "%d   ", i)
		for j := 0; j < 3; j++ {
			fmt.Fprintf(&sb, "%s   ", b[i][j])
		}
		sb.WriteString("\n\n")
	}
	return sb.String()
}
