package experiments

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"tictactoe/agent"
	"tictactoe/engine"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/meta"
	"tictactoe/player"
	"tictactoe/searcher"
)

// Opponent names an evaluation opponent policy.
type Opponent string

const (
	OpponentMinimax Opponent = "minimax"
	OpponentRandom  Opponent = "random"
	OpponentTeacher Opponent = "teacher"
)

func (o Opponent) valid() bool {
	switch o {
	case OpponentMinimax, OpponentRandom, OpponentTeacher:
		return true
	default:
		return false
	}
}

func (o Opponent) policy(ability float64, search *searcher.Minimax, rng *rand.Rand) player.Policy {
	switch o {
	case OpponentMinimax:
		return player.NewSearcher(search)
	case OpponentRandom:
		return player.NewRandom(rng)
	case OpponentTeacher:
		return player.NewScriptedTeacher(ability, search, rng)
	default:
		panic(fmt.Sprintf("unknown opponent %q", o))
	}
}

// Train runs episodes against the scripted teacher, alternating the first
// mover randomly each episode, then persists the agent. Training is
// sequential: the value table has a single writer.
func Train(a *agent.Agent, cfg meta.RunConfig, rng *rand.Rand) error {
	search := searcher.NewMinimax()
	teacher := player.NewScriptedTeacher(cfg.TeacherAbility, search, rng)
	eng := engine.NewEngine(a, teacher, rng)

	log.Info().Msgf("training %s agent for %d episodes against teacher ability %.2f...",
		a.Algorithm(), cfg.Episodes, cfg.TeacherAbility)
	start := time.Now()

	var tally metrics.Tally
	for i := 0; i < cfg.Episodes; i++ {
		outcome := eng.Start()
		tally.Record(outcome, game.O)
		if cfg.ProgressInterval > 0 && (i+1)%cfg.ProgressInterval == 0 {
			log.Info().Msgf("episode %d of %d | elapsed %s | positions cached %d",
				i+1, cfg.Episodes, time.Since(start).Round(time.Second), search.Size())
		}
	}

	summary := tally.Snapshot()
	log.Info().Msgf("training complete in %s: %d wins, %d draws, %d losses",
		time.Since(start).Round(time.Millisecond), summary.Wins, summary.Draws, summary.Losses)

	if err := a.Save(cfg.AgentPath); err != nil {
		return err
	}
	log.Info().Msgf("agent saved to %s with %d learned entries", cfg.AgentPath, a.Entries())
	return nil
}

// Evaluate plays games with exploration forced to 0 and no learning
// updates; the agent always plays the second mover (O) and the opponent
// opens as X. Episodes are spread over a worker pool: each worker owns its
// board, engine, and randomness while the value table is shared read-only.
func Evaluate(a *agent.Agent, cfg meta.RunConfig) (metrics.Summary, error) {
	kind := Opponent(cfg.Opponent)
	if !kind.valid() {
		return metrics.Summary{}, fmt.Errorf("unknown opponent %q, want minimax, random, or teacher", cfg.Opponent)
	}
	if cfg.Games <= 0 {
		return metrics.Summary{}, fmt.Errorf("games must be positive, got %d", cfg.Games)
	}
	workers := cfg.EvalWorkers
	if workers <= 0 {
		workers = 1
	}

	a.SetEpsilon(0)
	search := searcher.NewMinimax()

	log.Info().Msgf("evaluating %s agent over %d games against %s opponent...",
		a.Algorithm(), cfg.Games, kind)
	start := time.Now()

	task := make(chan int, cfg.Games)
	for i := 0; i < cfg.Games; i++ {
		task <- i
	}
	close(task)

	var tally metrics.Tally
	records := make([]metrics.EpisodeRecord, cfg.Games)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(seed))
			opponent := kind.policy(cfg.TeacherAbility, search, rng)
			greedy := player.NewGreedy(a, rng)

			for i := range task {
				episodeStart := time.Now()
				board, outcome := engine.PlayMatch(opponent, greedy, game.X)
				tally.Record(outcome, game.O)
				records[i] = metrics.EpisodeRecord{
					ID:           i + 1,
					StartingMark: game.X.String(),
					Outcome:      outcome.String(),
					Moves:        9 - len(board.LegalMoves()),
					Duration:     time.Since(episodeStart),
				}
			}
		}(cfg.Seed + uint64(w) + 1)
	}
	wg.Wait()

	summary := tally.Snapshot()
	log.Info().Msgf("evaluation complete in %s: %d wins, %d draws, %d losses over %d games",
		time.Since(start).Round(time.Millisecond), summary.Wins, summary.Draws, summary.Losses, summary.Games())

	if cfg.Results {
		writer, err := metrics.NewWriter("evaluation")
		if err != nil {
			return summary, err
		}
		if err := writer.WriteEpisodeRecords(records); err != nil {
			return summary, err
		}
		if err := writer.WriteSummary(summary); err != nil {
			return summary, err
		}
		log.Info().Msgf("stored episode records under %s", writer.Dir())
	}
	return summary, nil
}
