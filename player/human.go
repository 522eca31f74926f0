package player

import (
	"bufio"
	"fmt"
	"io"

	"tictactoe/game"
)

// Human reads moves from an input stream, re-prompting until the input
// names an empty in-range cell. Bad input never touches the board.
type Human struct {
	in  *bufio.Reader
	out io.Writer
}

func NewHuman(in io.Reader, out io.Writer) *Human {
	return &Human{in: bufio.NewReader(in), out: out}
}

func (h *Human) ChooseMove(b game.Board, mover game.Mark) game.Move {
	fmt.Fprint(h.out, b)
	for {
		fmt.Fprintf(h.out, "Your move (%s)! Please select a row and column from 0-2 in the format row,col: ", mover)
		line, err := h.in.ReadString('\n')
		if err != nil && line == "" {
			// The input channel is gone; no legal move can ever be produced.
			panic(fmt.Sprintf("reading human move: %v", err))
		}
		move, perr := game.ParseMove(line)
		if perr != nil {
			fmt.Fprintf(h.out, "INVALID INPUT! %v\n", perr)
			continue
		}
		if b[move.Row][move.Col] != game.Empty {
			fmt.Fprintln(h.out, "INVALID MOVE! That cell is taken, choose again.")
			continue
		}
		return move
	}
}
