package metrics

import (
	"sync/atomic"

	"tictactoe/game"
)

// Tally accumulates game results from the agent's perspective. Counters
// are atomic so parallel evaluation workers can share one tally.
type Tally struct {
	wins   atomic.Int64
	draws  atomic.Int64
	losses atomic.Int64
}

// Record routes a terminal outcome to the right counter given the mark the
// agent played.
func (t *Tally) Record(outcome game.Outcome, agentMark game.Mark) {
	winner, ok := outcome.Winner()
	switch {
	case !ok:
		t.draws.Add(1)
	case winner == agentMark:
		t.wins.Add(1)
	default:
		t.losses.Add(1)
	}
}

// Snapshot returns an immutable copy of the current counts.
func (t *Tally) Snapshot() Summary {
	return Summary{
		Wins:   int(t.wins.Load()),
		Draws:  int(t.draws.Load()),
		Losses: int(t.losses.Load()),
	}
}

// Summary is a point-in-time view of a tally.
type Summary struct {
	Wins   int
	Draws  int
	Losses int
}

func (s Summary) Games() int { return s.Wins + s.Draws + s.Losses }
