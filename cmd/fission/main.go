// fission is a merge/split tile puzzle for the terminal.
//
// Usage:
//
//	fission list              - List available games
//	fission play [game]       - Play (campaign mode picker by default)
//	fission menu              - Start menu to pick games interactively
//	fission serve             - Start SSH server for remote play
//	fission scores [game]     - Show high scores for a game
//	fission levels            - List campaign levels and progress
//	fission sim               - Run headless bot games
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.fission/scores.db)
//	--config <path>       - Use a custom fission.yaml
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-file <path>     - Log destination ("-" for stderr, "" to discard)
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tilefission/internal/config"
	"github.com/vovakirdan/tilefission/internal/core"
	"github.com/vovakirdan/tilefission/internal/games/fission"
	"github.com/vovakirdan/tilefission/internal/logging"
	"github.com/vovakirdan/tilefission/internal/platform/tui"
	"github.com/vovakirdan/tilefission/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLevelsDir  string
	flagLogFile    string
	flagLogLevel   string
)

// app holds what every command shares once the flags are parsed.
var app struct {
	cfg       config.FissionConfig
	logger    *log.Logger
	logCloser io.Closer
}

func main() {
	err := rootCmd.Execute()
	teardown()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fission",
	Short: "Fission - merge and split tiles in your terminal",
	Long: `Fission is a turn-based tile puzzle. Move a tile onto a tile of the
same colour to merge them; tiles that grow past the threshold split apart.
Special tiles blast, double, paint and freeze.

Available commands:
  list     - Show all available games
  play     - Play a game directly
  menu     - Interactive game picker menu
  serve    - Start SSH server for remote play
  scores   - View high scores
  levels   - Show campaign levels and progress
  sim      - Play headless bot games

Examples:
  fission play
  fission play fission_endless --difficulty hard
  fission play fission --level 03
  fission menu
  fission serve --ssh :2222
  fission sim --games 200 --seed 7`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.fission/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom fission.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Directory with extra level files")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", `Log file ("-" = stderr, default from config)`)
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(simCmd)
}

// setup loads the config, applies the global flags and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadFission(flagConfig)
	if err != nil {
		return err
	}
	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return err
		}
		config.ApplyFissionPreset(&cfg, preset)
	}
	if flagLevelsDir != "" {
		cfg.Levels.Dir = flagLevelsDir
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Logging.File = flagLogFile
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (logging disabled)\n", err)
	}

	if os.Getenv("NO_COLOR") != "" {
		tui.SetTheme(tui.MonochromeTheme())
	}

	app.cfg = cfg
	app.logger = logger
	app.logCloser = closer
	fission.Configure(fission.Options{Config: &app.cfg, Logger: logger})
	logger.Debug("configured", "command", cmd.Name(), "board", fmt.Sprintf("%dx%d", cfg.Board.Width, cfg.Board.Height))
	return nil
}

func teardown() {
	if app.logCloser != nil {
		_ = app.logCloser.Close()
	}
}

// runtimeConfig sizes the game to the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the scores database. Games still work without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		app.logger.Warn("no score persistence", "err", err)
		return nil
	}
	return store
}

func closeStore(store *storage.Store) {
	if store != nil {
		store.Close()
	}
}
