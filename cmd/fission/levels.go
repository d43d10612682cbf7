package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilefission/internal/config"
	"github.com/vovakirdan/tilefission/internal/games/fission/levels"
	"github.com/vovakirdan/tilefission/internal/storage"
)

var flagResetProgress bool

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List campaign levels and progress",
	Long: `Show the campaign levels, including those from --levels or the
levels.dir config entry, with the best result on each cleared level.

Examples:
  fission levels
  fission levels --levels ./my-levels
  fission levels --reset-progress`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

func init() {
	levelsCmd.Flags().BoolVar(&flagResetProgress, "reset-progress", false, "Forget all cleared levels")
}

func runLevels(_ *cobra.Command, _ []string) error {
	store := openStore()
	defer closeStore(store)

	if flagResetProgress {
		if store == nil {
			return fmt.Errorf("no scores database")
		}
		if err := store.ResetProgress(); err != nil {
			return err
		}
		fmt.Println("Campaign progress reset.")
		return nil
	}

	lvls, err := levels.Load(config.ExpandHome(app.cfg.Levels.Dir))
	if err != nil {
		// Builtin levels are still listed
		app.logger.Warn("some levels failed to load", "err", err)
	}
	if len(lvls) == 0 {
		fmt.Println("No levels available.")
		return nil
	}

	cleared := map[string]storage.LevelRecord{}
	if store != nil {
		if c, err := store.ClearedLevels(); err == nil {
			cleared = c
		}
	}

	fmt.Printf("  %-4s  %-20s  %-5s  %-20s  %s\n", "ID", "Name", "Board", "Goal", "Best")
	fmt.Printf("  %-4s  %-20s  %-5s  %-20s  %s\n", "--", "----", "-----", "----", "----")
	for _, lvl := range lvls {
		best := "-"
		if rec, ok := cleared[lvl.ID]; ok {
			best = fmt.Sprintf("%d pts / %d moves", rec.BestScore, rec.BestMoves)
		}
		board := fmt.Sprintf("%dx%d", lvl.Width, lvl.Height)
		fmt.Printf("  %-4s  %-20s  %-5s  %-20s  %s\n", lvl.ID, lvl.Name, board, lvl.Goal, best)
	}

	fmt.Println()
	fmt.Printf("Cleared %d of %d levels.\n", countCleared(lvls, cleared), len(lvls))
	return nil
}

func countCleared(lvls []levels.Level, cleared map[string]storage.LevelRecord) int {
	n := 0
	for _, lvl := range lvls {
		if _, ok := cleared[lvl.ID]; ok {
			n++
		}
	}
	return n
}
