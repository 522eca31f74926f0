package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"tictactoe/agent"
	"tictactoe/engine"
	"tictactoe/experiments"
	"tictactoe/game"
	"tictactoe/meta"
	"tictactoe/player"
	"tictactoe/server"
)

func main() {
	mode := flag.String("mode", "play", "Run mode: train, eval, play, or serve")
	agentType := flag.String("agent", "q", "Learner type: q or sarsa")
	episodes := flag.Int("episodes", meta.DefaultTrainEpisodes, "Number of training episodes")
	games := flag.Int("games", meta.DefaultEvalGames, "Number of evaluation games")
	ability := flag.Float64("ability", meta.DefaultTeacherAbility, "Teacher ability in [0,1]")
	alpha := flag.Float64("alpha", meta.DefaultAlpha, "Learning rate")
	gamma := flag.Float64("gamma", meta.DefaultGamma, "Discount factor")
	epsilon := flag.Float64("epsilon", meta.DefaultEpsilon, "Exploration rate")
	path := flag.String("path", meta.DefaultAgentPath, "Agent file path")
	opponent := flag.String("opponent", meta.DefaultOpponent, "Evaluation opponent: minimax, random, or teacher")
	addr := flag.String("addr", meta.DefaultAddr, "Serve address")
	configPath := flag.String("config", "", "Optional YAML config merged over the flags")
	results := flag.Bool("results", false, "Write evaluation records as CSV")
	seed := flag.Uint64("seed", 0, "RNG seed, 0 for time-based")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg := meta.RunConfig{
		Alpha:            *alpha,
		Gamma:            *gamma,
		Epsilon:          *epsilon,
		TeacherAbility:   *ability,
		Episodes:         *episodes,
		Games:            *games,
		ProgressInterval: meta.DefaultProgressInterval,
		EvalWorkers:      meta.DefaultEvalWorkers,
		AgentPath:        *path,
		Addr:             *addr,
		Opponent:         *opponent,
		Results:          *results,
		Seed:             *seed,
	}
	if *configPath != "" {
		if err := meta.Load(*configPath, &cfg); err != nil {
			log.Fatal().Err(err).Msg("loading config")
		}
	}

	rngSeed := cfg.Seed
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(rngSeed))

	switch *mode {
	case "train":
		runTrain(*agentType, cfg, rng)
	case "eval":
		runEval(cfg, rng)
	case "play":
		runPlay(cfg, rng)
	case "serve":
		runServe(cfg, rng)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		flag.Usage()
		os.Exit(2)
	}
}

func newLearner(agentType string, cfg meta.RunConfig, rng *rand.Rand) *agent.Agent {
	switch agentType {
	case "q":
		return agent.NewQLearner(cfg.Alpha, cfg.Gamma, cfg.Epsilon, rng)
	case "s", "sarsa":
		return agent.NewSARSALearner(cfg.Alpha, cfg.Gamma, cfg.Epsilon, rng)
	default:
		log.Fatal().Msgf("unknown agent type %q, want q or sarsa", agentType)
		return nil
	}
}

func runTrain(agentType string, cfg meta.RunConfig, rng *rand.Rand) {
	a := newLearner(agentType, cfg, rng)
	if err := experiments.Train(a, cfg, rng); err != nil {
		log.Fatal().Err(err).Msg("training failed")
	}
}

func runEval(cfg meta.RunConfig, rng *rand.Rand) {
	// A missing agent fails fast before any game is played.
	a, err := agent.Load(cfg.AgentPath, rng)
	if err != nil {
		log.Fatal().Err(err).Msg("loading agent")
	}

	summary, err := experiments.Evaluate(a, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("evaluation failed")
	}

	total := summary.Games()
	fmt.Printf("\nEvaluation results:\n")
	fmt.Printf("Games:   %d\n", total)
	fmt.Printf("Wins:    %d (%.1f%%)\n", summary.Wins, percent(summary.Wins, total))
	fmt.Printf("Draws:   %d (%.1f%%)\n", summary.Draws, percent(summary.Draws, total))
	fmt.Printf("Losses:  %d (%.1f%%)\n", summary.Losses, percent(summary.Losses, total))
}

func runPlay(cfg meta.RunConfig, rng *rand.Rand) {
	a, err := agent.Load(cfg.AgentPath, rng)
	switch {
	case errors.Is(err, agent.ErrNotFound):
		log.Warn().Msgf("no trained agent at %s, playing against a fresh one", cfg.AgentPath)
		a = agent.NewQLearner(cfg.Alpha, cfg.Gamma, 0, rng)
	case err != nil:
		log.Fatal().Err(err).Msg("loading agent")
	default:
		a.SetEpsilon(0)
	}

	stdin := bufio.NewReader(os.Stdin)
	human := player.NewHuman(stdin, os.Stdout)
	greedy := player.NewGreedy(a, rng)

	first := game.O
	if askYesNo(stdin, "Would you like to go first? [y/n]: ") {
		first = game.X
	}

	board, outcome := engine.PlayMatch(human, greedy, first)
	fmt.Print(board)
	switch outcome {
	case game.XWins:
		fmt.Println("You win!")
	case game.OWins:
		fmt.Println("The agent wins!")
	default:
		fmt.Println("It's a draw!")
	}
}

func runServe(cfg meta.RunConfig, rng *rand.Rand) {
	a, err := agent.Load(cfg.AgentPath, rng)
	switch {
	case errors.Is(err, agent.ErrNotFound):
		log.Warn().Msgf("no trained agent found at %s, serving a fresh untrained agent", cfg.AgentPath)
		a = agent.NewQLearner(cfg.Alpha, cfg.Gamma, cfg.Epsilon, rng)
	case err != nil:
		log.Fatal().Err(err).Msg("loading agent")
	default:
		log.Info().Msgf("loaded %s agent from %s with %d learned entries", a.Algorithm(), cfg.AgentPath, a.Entries())
	}

	srv := server.New(a, cfg, rng)
	if err := srv.Start(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func askYesNo(in *bufio.Reader, prompt string) bool {
	for {
		fmt.Print(prompt)
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			log.Fatal().Err(err).Msg("reading input")
		}
		switch strings.TrimSpace(strings.ToLower(line)) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		fmt.Println("Invalid input. Please enter 'y' or 'n'.")
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
