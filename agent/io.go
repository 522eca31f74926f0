package agent

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// ErrNotFound reports a missing persisted agent. Callers that need a
// trained agent check for it before any game is played.
var ErrNotFound = errors.New("agent file not found")

// snapshot is the persisted form of an agent: the full value table plus
// hyperparameters and the learning-rule tag. The round trip is lossless.
type snapshot struct {
	Algorithm Algorithm
	Alpha     float64
	Gamma     float64
	Epsilon   float64
	Values    ValueTable
}

// SaveTo serializes the agent with gob.
func (a *Agent) SaveTo(w io.Writer) error {
	snap := snapshot{
		Algorithm: a.algorithm,
		Alpha:     a.alpha,
		Gamma:     a.gamma,
		Epsilon:   a.epsilon,
		Values:    a.values,
	}
	if err := gob.NewEncoder(w).Encode(snap); err != nil {
		return errors.Wrap(err, "encoding agent")
	}
	return nil
}

// Save writes the agent to path, replacing any previous file.
func (a *Agent) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating agent file %s", path)
	}
	if err := a.SaveTo(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "closing agent file %s", path)
}

// LoadFrom deserializes an agent and rebinds its update rule from the
// persisted algorithm tag.
func LoadFrom(r io.Reader, rng *rand.Rand) (*Agent, error) {
	var snap snapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return nil, errors.Wrap(err, "decoding agent")
	}
	a := newAgent(snap.Algorithm, snap.Alpha, snap.Gamma, snap.Epsilon, rng)
	if snap.Values != nil {
		a.values = snap.Values
	}
	return a, nil
}

// Load reads a persisted agent from path. A missing file wraps ErrNotFound
// so callers can fail fast.
func Load(path string, rng *rand.Rand) (*Agent, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrNotFound, "no agent at %s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening agent file %s", path)
	}
	defer f.Close()
	return LoadFrom(f, rng)
}
