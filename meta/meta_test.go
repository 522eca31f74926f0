package meta

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("merges file values over the current config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.yaml")
		require.NoError(t, os.WriteFile(path, []byte("alpha: 0.25\nepisodes: 1234\nopponent: teacher\n"), 0644))

		cfg := Default()
		require.NoError(t, Load(path, &cfg))

		require.Equal(t, 0.25, cfg.Alpha)
		require.Equal(t, 1234, cfg.Episodes)
		require.Equal(t, "teacher", cfg.Opponent)
		// Untouched fields keep their values.
		require.Equal(t, float64(DefaultGamma), cfg.Gamma)
		require.Equal(t, DefaultAgentPath, cfg.AgentPath)
	})

	t.Run("fails on a missing file", func(t *testing.T) {
		cfg := Default()
		require.Error(t, Load(filepath.Join(t.TempDir(), "none.yaml"), &cfg))
	})

	t.Run("fails on malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("alpha: [not a number"), 0644))

		cfg := Default()
		require.Error(t, Load(path, &cfg))
	})
}
