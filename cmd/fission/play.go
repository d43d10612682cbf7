package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilefission/internal/games/fission"
	"github.com/vovakirdan/tilefission/internal/platform/tui"
	"github.com/vovakirdan/tilefission/internal/registry"
)

var flagLevel string

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a game",
	Long: `Start playing the specified game (default: fission).

The campaign opens a mode picker unless --level is given.

Controls:
  Arrows/WASD  - Move the cursor
  Space/Enter  - Pick the tile under the cursor, then its target
  Mouse click  - Pick a cell directly
  X            - Drop the selection
  P            - Pause
  R            - Restart (after game over)
  Esc/B        - Back (when paused or over)
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Difficulty options (endless mode):
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  fission play
  fission play fission --level 04
  fission play fission_endless --difficulty hard
  fission play fission_endless --config ./my-fission.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLevel, "level", "", "Campaign level ID to start on (skips the mode picker)")
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := fission.IDCampaign
	if len(args) > 0 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'fission list' to see available games", gameID)
	}

	cfg := runtimeConfig()
	store := openStore()
	defer closeStore(store)

	if gameID == fission.IDCampaign {
		if flagLevel != "" {
			fission.SetStartLevel(flagLevel)
		} else {
			selection, updatedCfg, err := tui.RunFissionModeSelector(store, cfg, app.cfg.Levels.Dir)
			if err != nil {
				return err
			}
			cfg = updatedCfg
			if selection == nil {
				return nil
			}
			gameID = selection.Apply()
		}
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	app.logger.Info("starting game", "game", gameID, "seed", cfg.Seed, "level", flagLevel)

	if _, err := tui.Run(game, store, cfg, app.logger); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
