package experiments

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"tictactoe/agent"
	"tictactoe/meta"
)

func testConfig() meta.RunConfig {
	cfg := meta.Default()
	cfg.Games = 100
	cfg.EvalWorkers = 4
	cfg.Seed = 17
	cfg.Results = false
	return cfg
}

func TestEvaluate(t *testing.T) {
	t.Run("untrained agent never beats minimax", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		a := agent.NewQLearner(0.5, 0.9, 0.1, rng)

		cfg := testConfig()
		cfg.Opponent = "minimax"
		summary, err := Evaluate(a, cfg)
		require.NoError(t, err)

		require.Zero(t, summary.Wins)
		require.Equal(t, 100, summary.Draws+summary.Losses)
		require.Zero(t, a.Epsilon(), "evaluation must force pure greedy play")
	})

	t.Run("counts add up against a random opponent", func(t *testing.T) {
		rng := rand.New(rand.NewSource(2))
		a := agent.NewQLearner(0.5, 0.9, 0.1, rng)

		cfg := testConfig()
		cfg.Opponent = "random"
		summary, err := Evaluate(a, cfg)
		require.NoError(t, err)
		require.Equal(t, 100, summary.Games())
	})

	t.Run("rejects an unknown opponent", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		a := agent.NewQLearner(0.5, 0.9, 0.1, rng)

		cfg := testConfig()
		cfg.Opponent = "alphago"
		_, err := Evaluate(a, cfg)
		require.Error(t, err)
	})

	t.Run("rejects a non-positive game count", func(t *testing.T) {
		rng := rand.New(rand.NewSource(4))
		a := agent.NewQLearner(0.5, 0.9, 0.1, rng)

		cfg := testConfig()
		cfg.Games = 0
		_, err := Evaluate(a, cfg)
		require.Error(t, err)
	})
}

func TestTrain(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	a := agent.NewSARSALearner(0.5, 0.9, 0.1, rng)

	cfg := meta.Default()
	cfg.Episodes = 200
	cfg.ProgressInterval = 0
	cfg.TeacherAbility = 0.5
	cfg.AgentPath = filepath.Join(t.TempDir(), "sarsa.gob")

	require.NoError(t, Train(a, cfg, rng))
	require.Positive(t, a.Entries())

	loaded, err := agent.Load(cfg.AgentPath, rng)
	require.NoError(t, err)
	require.Equal(t, agent.SARSA, loaded.Algorithm())
	require.Equal(t, a.Entries(), loaded.Entries())
}
