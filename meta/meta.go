package meta

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for training, evaluation, and serving runs.
const (
	DefaultAlpha            = 0.5
	DefaultGamma            = 0.9
	DefaultEpsilon          = 0.1
	DefaultTeacherAbility   = 0.9
	DefaultTrainEpisodes    = 50000
	DefaultEvalGames        = 1000
	DefaultProgressInterval = 10000
	DefaultEvalWorkers      = 8
	DefaultAgentPath        = "q_agent.gob"
	DefaultAddr             = ":8080"
	DefaultOpponent         = "minimax"
)

// RunConfig carries every tunable for a run. Flags populate it first; a
// YAML file can then be merged over it with Load.
type RunConfig struct {
	Alpha            float64 `yaml:"alpha"`
	Gamma            float64 `yaml:"gamma"`
	Epsilon          float64 `yaml:"epsilon"`
	TeacherAbility   float64 `yaml:"teacher_ability"`
	Episodes         int     `yaml:"episodes"`
	Games            int     `yaml:"games"`
	ProgressInterval int     `yaml:"progress_interval"`
	EvalWorkers      int     `yaml:"eval_workers"`
	AgentPath        string  `yaml:"agent_path"`
	Addr             string  `yaml:"addr"`
	Opponent         string  `yaml:"opponent"`
	Results          bool    `yaml:"results"`
	Seed             uint64  `yaml:"seed"`
}

// Default returns a RunConfig populated with the package defaults.
func Default() RunConfig {
	return RunConfig{
		Alpha:            DefaultAlpha,
		Gamma:            DefaultGamma,
		Epsilon:          DefaultEpsilon,
		TeacherAbility:   DefaultTeacherAbility,
		Episodes:         DefaultTrainEpisodes,
		Games:            DefaultEvalGames,
		ProgressInterval: DefaultProgressInterval,
		EvalWorkers:      DefaultEvalWorkers,
		AgentPath:        DefaultAgentPath,
		Addr:             DefaultAddr,
		Opponent:         DefaultOpponent,
	}
}

// Load merges the YAML file at path over cfg. Fields absent from the file
// keep their current values.
func Load(path string, cfg *RunConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}
