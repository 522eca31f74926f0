package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Move identifies a cell by row and column, both in [0,2].
type Move struct {
	Row int
	Col int
}

func (m Move) InRange() bool {
	return m.Row >= 0 && m.Row < 3 && m.Col >= 0 && m.Col < 3
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}

// ParseMove reads a move in "row,col" form. It validates format and range
// only; occupancy is checked against a board by the caller.
func ParseMove(input string) (Move, error) {
	parts := strings.Split(strings.TrimSpace(input), ",")
	if len(parts) != 2 {
		return Move{}, fmt.Errorf("expected move in row,col format, got %q", input)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Move{}, fmt.Errorf("invalid row %q: %w", parts[0], err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Move{}, fmt.Errorf("invalid column %q: %w", parts[1], err)
	}
	move := Move{Row: row, Col: col}
	if !move.InRange() {
		return Move{}, fmt.Errorf("move %s out of range, rows and columns go from 0 to 2", move)
	}
	return move, nil
}
