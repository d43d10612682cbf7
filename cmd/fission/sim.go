package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilefission/internal/games/fission"
)

var (
	flagSimGames    int
	flagSimMaxTurns int
	flagSimVerbose  bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Play headless bot games",
	Long: `Play seeded endless games with a simple bot and no terminal UI, then
print statistics. Game i uses seed+i, so runs are reproducible.

Examples:
  fission sim
  fission sim --games 500 --seed 42
  fission sim --games 20 --max-turns 200 --verbose --difficulty hard`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimGames, "games", 100, "Number of games to play")
	simCmd.Flags().IntVar(&flagSimMaxTurns, "max-turns", 500, "Turn limit per game")
	simCmd.Flags().BoolVar(&flagSimVerbose, "verbose", false, "Print every game")
}

func runSim(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	start := time.Now()
	report, err := fission.RunSimulation(ctx, fission.SimOptions{
		Games:    flagSimGames,
		Seed:     seed,
		MaxTurns: flagSimMaxTurns,
		Config:   app.cfg,
		Logger:   app.logger,
	})
	if err != nil && !isCancel(err) {
		return err
	}
	elapsed := time.Since(start)

	if flagSimVerbose {
		fmt.Printf("  %-20s  %-8s  %-6s  %-6s  %-7s  %-6s  %s\n", "Seed", "Score", "Turns", "Merges", "Splits", "Tile", "Outcome")
		for _, r := range report.Results {
			fmt.Printf("  %-20d  %-8d  %-6d  %-6d  %-7d  %-6d  %s\n",
				r.Seed, r.Score, r.Moves, r.Stats.Merges, r.Stats.Splits, r.Stats.MaxValue, r.Outcome)
		}
		fmt.Println()
	}

	fmt.Printf("Games:      %d (seed %d, %s)\n", len(report.Results), seed, elapsed.Round(time.Millisecond))
	fmt.Printf("Best score: %d\n", report.BestScore)
	fmt.Printf("Avg score:  %.1f\n", report.AvgScore)
	fmt.Printf("Avg turns:  %.1f\n", report.AvgTurns)
	fmt.Printf("Best tile:  %d\n", report.BestTile)

	outcomes := make(map[string]int)
	for _, r := range report.Results {
		outcomes[r.Outcome]++
	}
	names := make([]string, 0, len(outcomes))
	for name := range outcomes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-12s %d\n", name, outcomes[name])
	}

	if isCancel(err) {
		fmt.Println("Interrupted.")
	}
	return nil
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
