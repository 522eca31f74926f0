package agent

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"tictactoe/game"
)

// Algorithm tags the update rule an agent learns with.
type Algorithm string

const (
	QLearning Algorithm = "q-learning" // off-policy
	SARSA     Algorithm = "sarsa"      // on-policy
)

// ValueTable maps move -> state key -> estimated value Q(state, move).
// Entries are created lazily on first write; unseen pairs read as 0.
type ValueTable map[game.Move]map[game.StateKey]float64

func (vt ValueTable) get(state game.StateKey, move game.Move) float64 {
	return vt[move][state]
}

func (vt ValueTable) set(state game.StateKey, move game.Move, value float64) {
	byState, ok := vt[move]
	if !ok {
		byState = make(map[game.StateKey]float64)
		vt[move] = byState
	}
	byState[state] = value
}

// futureEstimate computes the discounted-future term of an update target
// for a non-terminal transition. It is the only point where the two
// learning algorithms differ.
type futureEstimate func(a *Agent, next game.StateKey, nextAction *game.Move, nextLegal []game.Move) float64

// maxFuture is the off-policy Q-learning estimate: the best value
// attainable from the next state regardless of the move actually taken.
func maxFuture(a *Agent, next game.StateKey, _ *game.Move, nextLegal []game.Move) float64 {
	best := math.Inf(-1)
	for _, move := range nextLegal {
		if v := a.values.get(next, move); v > best {
			best = v
		}
	}
	if math.IsInf(best, -1) {
		return 0
	}
	return best
}

// onPolicyFuture is the SARSA estimate: the value of the move the policy
// actually chose at the next state.
func onPolicyFuture(a *Agent, next game.StateKey, nextAction *game.Move, _ []game.Move) float64 {
	if nextAction == nil {
		panic("sarsa update on a non-terminal transition requires the next action")
	}
	return a.values.get(next, *nextAction)
}

// Agent is a tabular temporal-difference learner. One agent exclusively
// owns its value table; the table grows as new states are visited and is
// never pre-allocated.
type Agent struct {
	algorithm Algorithm
	alpha     float64 // learning rate
	gamma     float64 // discount
	epsilon   float64 // exploration rate
	values    ValueTable
	future    futureEstimate
	rng       *rand.Rand
}

func NewQLearner(alpha, gamma, epsilon float64, rng *rand.Rand) *Agent {
	return newAgent(QLearning, alpha, gamma, epsilon, rng)
}

func NewSARSALearner(alpha, gamma, epsilon float64, rng *rand.Rand) *Agent {
	return newAgent(SARSA, alpha, gamma, epsilon, rng)
}

func newAgent(algorithm Algorithm, alpha, gamma, epsilon float64, rng *rand.Rand) *Agent {
	if alpha <= 0 || alpha > 1 {
		panic("alpha must be in (0,1]")
	}
	if gamma < 0 || gamma > 1 {
		panic("gamma must be in [0,1]")
	}
	if epsilon < 0 || epsilon > 1 {
		panic("epsilon must be in [0,1]")
	}
	return &Agent{
		algorithm: algorithm,
		alpha:     alpha,
		gamma:     gamma,
		epsilon:   epsilon,
		values:    make(ValueTable),
		future:    futureFor(algorithm),
		rng:       rng,
	}
}

func futureFor(algorithm Algorithm) futureEstimate {
	switch algorithm {
	case QLearning:
		return maxFuture
	case SARSA:
		return onPolicyFuture
	default:
		panic(fmt.Sprintf("unknown algorithm %q", algorithm))
	}
}

// GetAction picks a move epsilon-greedily: explore uniformly at random
// with probability epsilon, otherwise exploit the best known value.
func (a *Agent) GetAction(state game.StateKey, legal []game.Move) game.Move {
	if len(legal) == 0 {
		panic("no legal moves to choose from")
	}
	if a.rng.Float64() < a.epsilon {
		return legal[a.rng.Intn(len(legal))]
	}
	return a.GreedyMove(state, legal, a.rng)
}

// GreedyMove returns the argmax move with ties broken uniformly at random
// using rng. Random tie-breaking is intentional and differs from search's
// deterministic first-found rule: the extra diversity matters during
// training. GreedyMove only reads the value table, so evaluation workers
// may call it concurrently on a shared agent with their own rng.
func (a *Agent) GreedyMove(state game.StateKey, legal []game.Move, rng *rand.Rand) game.Move {
	if len(legal) == 0 {
		panic("no legal moves to choose from")
	}
	best := math.Inf(-1)
	maximizers := make([]game.Move, 0, len(legal))
	for _, move := range legal {
		switch v := a.values.get(state, move); {
		case v > best:
			best = v
			maximizers = append(maximizers[:0], move)
		case v == best:
			maximizers = append(maximizers, move)
		}
	}
	return maximizers[rng.Intn(len(maximizers))]
}

// Update applies one temporal-difference correction to Q(prev, prevAction).
// next and nextAction are nil on terminal transitions, whose target is the
// raw reward with no discounting term. Exactly one table entry changes, by
// alpha * (target - old value).
func (a *Agent) Update(prev game.StateKey, next *game.StateKey, prevAction game.Move, nextAction *game.Move, nextLegal []game.Move, reward float64) {
	target := reward
	if next != nil {
		target += a.gamma * a.future(a, *next, nextAction, nextLegal)
	}
	old := a.values.get(prev, prevAction)
	a.values.set(prev, prevAction, old+a.alpha*(target-old))
}

// Value reads Q(state, move); unseen pairs are 0.
func (a *Agent) Value(state game.StateKey, move game.Move) float64 {
	return a.values.get(state, move)
}

// Entries returns the number of (state, action) values learned so far.
func (a *Agent) Entries() int {
	n := 0
	for _, byState := range a.values {
		n += len(byState)
	}
	return n
}

func (a *Agent) Algorithm() Algorithm { return a.algorithm }

func (a *Agent) Alpha() float64 { return a.alpha }

func (a *Agent) Gamma() float64 { return a.gamma }

func (a *Agent) Epsilon() float64 { return a.epsilon }

// SetEpsilon adjusts the exploration rate; evaluation forces it to 0.
func (a *Agent) SetEpsilon(epsilon float64) {
	if epsilon < 0 || epsilon > 1 {
		panic("epsilon must be in [0,1]")
	}
	a.epsilon = epsilon
}
