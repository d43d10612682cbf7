package fission

import (
	"context"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilefission/internal/config"
	"github.com/vovakirdan/tilefission/internal/games/fission/core"
	"github.com/vovakirdan/tilefission/internal/games/fission/levels"
	"github.com/vovakirdan/tilefission/internal/logging"
)

// Simulation outcomes.
const (
	OutcomeGameOver  = "game_over"
	OutcomeTurnLimit = "turn_limit"
	OutcomeStuck     = "stuck"
)

// SimOptions configure a headless simulation.
type SimOptions struct {
	Games    int
	Seed     int64 // game i uses Seed+i
	MaxTurns int
	Config   config.FissionConfig
	Logger   *log.Logger
}

// SimResult is the outcome of one simulated game.
type SimResult struct {
	Seed    int64
	Score   int
	Moves   int
	Stats   core.Stats
	Outcome string
}

// SimReport aggregates a simulation.
type SimReport struct {
	Results   []SimResult
	BestScore int
	BestTile  int
	AvgScore  float64
	AvgTurns  float64
}

// RunSimulation plays seeded endless games with the bot and no presentation.
// It stops early when ctx is cancelled and returns the games finished so far.
func RunSimulation(ctx context.Context, opts SimOptions) (SimReport, error) {
	if opts.Games <= 0 {
		opts.Games = 1
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = 1000
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	var report SimReport
	for i := 0; i < opts.Games; i++ {
		if err := ctx.Err(); err != nil {
			return summarize(report), err
		}
		seed := opts.Seed + int64(i)
		res := simulateOne(opts.Config, seed, opts.MaxTurns, logger.With("seed", seed))
		logger.Debug("simulated game", "seed", seed, "score", res.Score, "turns", res.Stats.Turns, "outcome", res.Outcome)
		report.Results = append(report.Results, res)
	}
	return summarize(report), nil
}

func simulateOne(cfg config.FissionConfig, seed int64, maxTurns int, logger *log.Logger) SimResult {
	t := &tally{specialBonus: cfg.Scoring.SpecialBonus}
	rules := RulesFromConfig(cfg)
	board := core.NewBoard(cfg.Board.Width, cfg.Board.Height)
	m := core.NewMachine(board, core.Deps{
		Logger:    logger,
		RNG:       rand.New(rand.NewSource(seed)),
		IDs:       core.NewIDSource(seed),
		Scorer:    t,
		Moves:     t,
		Presenter: core.InstantPresenter{},
		Levels:    newGoalTracker(levels.Goal{Type: levels.GoalNone}, t),
	}, rules)
	m.SpawnInitial(cfg.Board.InitialTiles)

	bot := NewBot(seed)
	res := SimResult{Seed: seed, Outcome: OutcomeTurnLimit}
	settle := board.Size()*4 + 16
	for m.Stats().Turns < maxTurns {
		if m.Phase() == core.PhaseGameOver {
			res.Outcome = OutcomeGameOver
			break
		}
		turn, ok := bot.Choose(board)
		if !ok {
			res.Outcome = OutcomeStuck
			break
		}
		if !Play(m, turn, settle) {
			logger.Warn("bot turn not accepted", "from", turn.From, "to", turn.To, "phase", m.Phase())
			res.Outcome = OutcomeStuck
			break
		}
	}
	if m.Phase() == core.PhaseGameOver {
		res.Outcome = OutcomeGameOver
	}
	res.Score = t.score
	res.Moves = t.moves
	res.Stats = m.Stats()
	return res
}

func summarize(r SimReport) SimReport {
	if len(r.Results) == 0 {
		return r
	}
	var score, turns int
	for _, res := range r.Results {
		score += res.Score
		turns += res.Stats.Turns
		r.BestScore = max(r.BestScore, res.Score)
		r.BestTile = max(r.BestTile, res.Stats.MaxValue)
	}
	n := float64(len(r.Results))
	r.AvgScore = float64(score) / n
	r.AvgTurns = float64(turns) / n
	return r
}
