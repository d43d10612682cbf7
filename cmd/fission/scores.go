package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilefission/internal/games/fission"
	"github.com/vovakirdan/tilefission/internal/registry"
	"github.com/vovakirdan/tilefission/internal/storage"
)

var (
	flagScoreLimit  int
	flagClearScores bool
	flagAllStats    bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores for a game",
	Long: `Display the top high scores for the specified game (default: fission).

Examples:
  fission scores
  fission scores fission_endless --limit 20
  fission scores fission_endless --clear
  fission scores --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoreLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagClearScores, "clear", false, "Delete all scores of the game")
	scoresCmd.Flags().BoolVar(&flagAllStats, "all", false, "Show a summary of every game played")
}

func runScores(_ *cobra.Command, args []string) error {
	gameID := fission.IDCampaign
	if len(args) > 0 {
		gameID = args[0]
	}

	if flagAllStats {
		return printAllStats()
	}

	info, ok := registry.Info(gameID)
	if !ok {
		return fmt.Errorf("unknown game %q, run 'fission list' to see available games", gameID)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagClearScores {
		if err := store.ClearScores(gameID); err != nil {
			return err
		}
		fmt.Printf("Cleared scores for %s.\n", info.Title)
		return nil
	}

	scores, err := store.TopScores(gameID, flagScoreLimit)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", info.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'fission play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-5s  %-5s  %-9s  %s\n", "Rank", "Score", "Moves", "Tile", "Level", "Result", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-5s  %-5s  %-9s  %s\n", "----", "-----", "-----", "----", "-----", "------", "----")

	for i, e := range scores {
		level := e.LevelID
		if level == "" {
			level = "-"
		}
		fmt.Printf("  %-4d  %-8d  %-5d  %-5d  %-5s  %-9s  %s\n",
			i+1, e.Score, e.Moves, e.MaxValue, level, e.Outcome, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(gameID)
	if err == nil && stats.GamesCount > 0 {
		fmt.Println()
		fmt.Printf("Best: %d  Games: %d  Average: %.0f  Best tile: %d\n",
			stats.HighScore, stats.GamesCount, stats.AvgScore, stats.BestTile)
	}
	return nil
}

func printAllStats() error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	all, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No games played yet.")
		return nil
	}

	fmt.Printf("  %-20s  %-6s  %-8s  %-8s  %-5s  %s\n", "Game", "Games", "Best", "Average", "Tile", "Last played")
	fmt.Printf("  %-20s  %-6s  %-8s  %-8s  %-5s  %s\n", "----", "-----", "----", "-------", "----", "-----------")
	for _, g := range registry.List() {
		st, ok := all[g.ID]
		if !ok {
			continue
		}
		fmt.Printf("  %-20s  %-6d  %-8d  %-8.0f  %-5d  %s\n",
			g.Title, st.GamesCount, st.HighScore, st.AvgScore, st.BestTile, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
