// Package fission provides the Fission merge/split puzzle for the arcade.
package fission

import (
	"math/rand"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilefission/internal/config"
	platformcore "github.com/vovakirdan/tilefission/internal/core"
	"github.com/vovakirdan/tilefission/internal/games/fission/core"
	"github.com/vovakirdan/tilefission/internal/games/fission/levels"
	"github.com/vovakirdan/tilefission/internal/logging"
	"github.com/vovakirdan/tilefission/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeEndless  Mode = "endless"
)

// Game IDs used by the registry and score storage.
const (
	IDCampaign = "fission"
	IDEndless  = "fission_endless"
)

// updatesPerTick bounds the phase updates run in one tick while no effect is playing.
const updatesPerTick = 16

// Options configure new games. Zero values mean defaults.
type Options struct {
	Config     *config.FissionConfig // used as is when set
	ConfigPath string                // otherwise loaded from here (or the search path)
	StartLevel string                // campaign level ID
	LevelsDir  string                // overrides levels.dir from the config
	Logger     *log.Logger
}

var (
	optsMu sync.RWMutex
	opts   Options
)

// Configure sets the options used by games created afterwards.
func Configure(o Options) {
	optsMu.Lock()
	defer optsMu.Unlock()
	opts = o
}

// SetStartLevel selects the campaign level the next Reset starts on.
func SetStartLevel(id string) {
	optsMu.Lock()
	defer optsMu.Unlock()
	opts.StartLevel = id
}

// takeOptions returns the current options and consumes the start level.
func takeOptions() Options {
	optsMu.Lock()
	defer optsMu.Unlock()
	o := opts
	opts.StartLevel = ""
	return o
}

// Game implements Fission on top of the turn engine.
type Game struct {
	mode Mode
	opts Options
	own  bool // opts were given to the constructor

	cfg        config.FissionConfig
	log        *log.Logger
	rng        *rand.Rand
	ids        *core.IDSource
	baseRules  core.Rules
	difficulty *config.DifficultyManager

	machine *core.Machine
	board   *core.Board
	effects *EffectPlayer
	tally   *tally
	goal    *goalTracker

	levels     []levels.Level
	levelIndex int

	tick    uint64
	screenW int
	screenH int
	layout  layout
	cursor  core.Coord

	gameOver        bool
	won             bool
	paused          bool
	tooSmall        bool
	levelCleared    bool
	levelClearTicks int
	levelStartMoves int
	lastInput       core.InputResult
}

// New creates a campaign game using the package options.
func New() *Game {
	return &Game{mode: ModeCampaign}
}

// NewEndless creates an endless game using the package options.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

// NewWithOptions creates a game that ignores the package options.
func NewWithOptions(mode Mode, o Options) *Game {
	return &Game{mode: mode, opts: o, own: true}
}

func init() {
	registry.Register(IDCampaign, func() registry.Game {
		return New()
	})
	registry.Register(IDEndless, func() registry.Game {
		return NewEndless()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return IDEndless
	}
	return IDCampaign
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Fission (Endless)"
	}
	return "Fission"
}

// Description returns a one-line summary for menus.
func (g *Game) Description() string {
	if g.mode == ModeEndless {
		return "Merge and split until the board locks up"
	}
	return "Hand-made levels with goals"
}

// Reset starts a new game.
func (g *Game) Reset(rc platformcore.RuntimeConfig) {
	o := g.opts
	if !g.own {
		o = takeOptions()
	}

	g.log = o.Logger
	if g.log == nil {
		g.log = logging.Discard()
	}
	g.log = g.log.With("game", g.ID())
	g.cfg = g.loadConfig(o)

	g.rng = rand.New(rand.NewSource(rc.Seed))
	g.ids = core.NewIDSource(rc.Seed)
	g.baseRules = RulesFromConfig(g.cfg)
	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)
	g.tally = &tally{specialBonus: g.cfg.Scoring.SpecialBonus}
	g.effects = NewEffectPlayer(DurationsFrom(g.cfg.Timing))

	g.tick = 0
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.gameOver = false
	g.won = false
	g.paused = false
	g.levelCleared = false
	g.levelClearTicks = 0
	g.lastInput = core.InputIgnored

	if g.mode == ModeCampaign {
		g.startCampaign(o)
	} else {
		g.startEndless()
	}
}

func (g *Game) loadConfig(o Options) config.FissionConfig {
	var cfg config.FissionConfig
	if o.Config != nil {
		cfg = *o.Config
	} else {
		loaded, err := config.LoadFission(o.ConfigPath)
		if err != nil {
			g.log.Warn("config rejected, using defaults", "err", err)
			loaded = config.DefaultFissionConfig()
		}
		cfg = loaded
	}
	if o.LevelsDir != "" {
		cfg.Levels.Dir = o.LevelsDir
	}
	return cfg
}

// RulesFromConfig builds engine rules from the config.
func RulesFromConfig(cfg config.FissionConfig) core.Rules {
	r := core.DefaultRules()
	r.SplitThreshold = cfg.Rules.SplitThreshold
	r.Colors = cfg.Rules.Colors
	r.SpawnPerTurn = cfg.Spawn.PerTurn
	r.SpawnMinValue = cfg.Spawn.MinValue
	r.SpawnMaxValue = cfg.Spawn.MaxValue
	r.SpecialChance = cfg.Spawn.SpecialChance
	r.MergeMultiplier = cfg.Scoring.MergeMultiplier
	r.SplitPoints = cfg.Scoring.SplitPoints
	r.PaintPoints = cfg.Scoring.PaintPoints
	r.JoinTimeoutTicks = cfg.Timing.JoinTimeoutTicks

	r.Abilities = r.Abilities[:0:0]
	for _, name := range cfg.Spawn.Abilities {
		if a, ok := core.ParseAbility(name); ok && a != core.AbilityNone {
			r.Abilities = append(r.Abilities, a)
		}
	}
	return r
}

func (g *Game) deps(tracker core.LevelTracker) core.Deps {
	return core.Deps{
		Logger:    g.log,
		RNG:       g.rng,
		IDs:       g.ids,
		Scorer:    g.tally,
		Moves:     g.tally,
		Presenter: g.effects,
		Levels:    tracker,
	}
}

func (g *Game) startEndless() {
	g.levels = nil
	g.levelIndex = 0
	g.goal = newGoalTracker(levels.Goal{Type: levels.GoalNone}, g.tally)

	g.board = core.NewBoard(g.cfg.Board.Width, g.cfg.Board.Height)
	g.machine = core.NewMachine(g.board, g.deps(g.goal), g.scaledRules())
	placed := g.machine.SpawnInitial(g.cfg.Board.InitialTiles)
	g.log.Info("endless game started", "size", g.board.Width(), "tiles", placed)
	g.relayout()
}

func (g *Game) startCampaign(o Options) {
	all, err := levels.Load(config.ExpandHome(g.cfg.Levels.Dir))
	if err != nil {
		g.log.Warn("some levels could not be loaded", "err", err)
	}
	if len(all) == 0 {
		g.log.Error("no campaign levels, falling back to endless")
		g.mode = ModeEndless
		g.startEndless()
		return
	}
	g.levels = all
	g.levelIndex = 0
	if o.StartLevel != "" {
		if i := levels.IndexOf(all, o.StartLevel); i >= 0 {
			g.levelIndex = i
		} else {
			g.log.Warn("unknown start level", "level", o.StartLevel)
		}
	}
	g.startLevel()
}

// startLevel builds the board of the current level. Score carries over.
func (g *Game) startLevel() {
	lvl := &g.levels[g.levelIndex]
	board, err := lvl.NewBoard(g.ids)
	if err != nil {
		g.log.Error("level board rejected, starting empty", "level", lvl.ID, "err", err)
		board = core.NewBoard(lvl.Width, lvl.Height)
	}
	g.board = board
	g.goal = newGoalTracker(lvl.Goal, g.tally)
	g.levelStartMoves = g.tally.moves
	g.effects.Reset()
	g.machine = core.NewMachine(g.board, g.deps(g.goal), lvl.Rules(g.baseRules))
	if len(lvl.Tiles) == 0 {
		g.machine.SpawnInitial(g.cfg.Board.InitialTiles)
	}
	g.cursor = core.Coord{}
	g.log.Info("level started", "level", lvl.ID, "name", lvl.Name, "goal", lvl.Goal.String())
	g.relayout()
}

// Level returns the current campaign level, or nil in endless mode.
func (g *Game) Level() *levels.Level {
	if g.mode != ModeCampaign || len(g.levels) == 0 {
		return nil
	}
	return &g.levels[g.levelIndex]
}

// scaledRules applies the difficulty curve to the base rules.
func (g *Game) scaledRules() core.Rules {
	r := g.baseRules
	score := g.tally.score
	ticks := int(g.tick)
	r.SpecialChance = g.difficulty.SpecialChance(r.SpecialChance, score, ticks)
	r.SpawnMaxValue = g.difficulty.SpawnMax(r.SpawnMaxValue, r.SplitThreshold, score, ticks)
	r.Colors = g.difficulty.Colors(r.Colors, int(core.ColorCount), score, ticks)
	return r
}

// Step advances the game by one tick.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	g.tick++

	if g.tooSmall {
		return platformcore.StepResult{State: g.State()}
	}

	if in.Has(platformcore.ActionPause) && !g.gameOver && !g.won {
		g.paused = !g.paused
	}
	if g.paused {
		return platformcore.StepResult{State: g.State()}
	}

	g.effects.Tick()

	if g.levelCleared {
		g.levelClearTicks++
		if g.levelClearTicks >= g.cfg.Timing.LevelClearTicks {
			g.advanceLevel()
		}
		return platformcore.StepResult{State: g.State()}
	}

	if g.gameOver || g.won {
		return platformcore.StepResult{State: g.State()}
	}

	g.handleInput(in)
	g.advance()

	var cleared []platformcore.LevelClear
	switch g.machine.Phase() {
	case core.PhaseGameOver:
		g.gameOver = true
		g.log.Info("game over", "score", g.tally.score, "moves", g.tally.moves)
	case core.PhaseLevelComplete:
		lvl := g.Level()
		if lvl != nil {
			g.levelCleared = true
			g.levelClearTicks = 0
			cleared = append(cleared, platformcore.LevelClear{
				LevelID: lvl.ID,
				Score:   g.goal.levelScore(),
				Moves:   g.tally.moves - g.levelStartMoves,
			})
		}
	}
	return platformcore.StepResult{State: g.State(), Cleared: cleared}
}

func (g *Game) handleInput(in platformcore.InputFrame) {
	w, h := g.board.Width(), g.board.Height()
	switch {
	case in.Has(platformcore.ActionUp):
		g.cursor.Y = platformcore.Clamp(g.cursor.Y-1, 0, h-1)
	case in.Has(platformcore.ActionDown):
		g.cursor.Y = platformcore.Clamp(g.cursor.Y+1, 0, h-1)
	case in.Has(platformcore.ActionLeft):
		g.cursor.X = platformcore.Clamp(g.cursor.X-1, 0, w-1)
	case in.Has(platformcore.ActionRight):
		g.cursor.X = platformcore.Clamp(g.cursor.X+1, 0, w-1)
	}

	if in.Has(platformcore.ActionCancel) {
		g.cancelSelection()
	}
	if in.Has(platformcore.ActionSelect) {
		g.input(g.cursor)
	}
	for _, p := range in.Clicks {
		c, ok := g.board.WorldToGrid(core.Vec{X: float64(p.X) + 0.5, Y: float64(p.Y) + 0.5})
		if !ok {
			continue
		}
		g.cursor = c
		g.input(c)
	}
}

func (g *Game) input(c core.Coord) {
	g.lastInput = g.machine.HandleInput(c)
}

// cancelSelection drops a regular tile selection. A special tile stays selected
// since picking it again would activate it.
func (g *Game) cancelSelection() {
	sel, ok := g.machine.Selection()
	if !ok {
		return
	}
	if t, found := g.board.TileAt(sel); found && !t.IsSpecial() {
		g.input(sel)
	}
}

// advance runs the turn pipeline. While effects play the machine gets one update
// per tick; otherwise the turn settles in this tick.
func (g *Game) advance() {
	wasWaiting := g.machine.AcceptingInput()
	for i := 0; i < updatesPerTick; i++ {
		if g.machine.AcceptingInput() || g.machine.Phase().Terminal() {
			break
		}
		g.machine.Update()
		if g.effects.Busy() {
			break
		}
	}
	if !wasWaiting && g.machine.AcceptingInput() && g.mode == ModeEndless {
		g.machine.SetRules(g.scaledRules())
	}
}

// advanceLevel moves to the next campaign level.
func (g *Game) advanceLevel() {
	g.levelCleared = false
	g.levelClearTicks = 0

	if g.levelIndex >= len(g.levels)-1 {
		g.won = true
		g.log.Info("campaign complete", "score", g.tally.score, "moves", g.tally.moves)
		return
	}
	g.levelIndex++
	g.startLevel()
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	st := platformcore.GameState{
		Score:    g.tally.score,
		Moves:    g.tally.moves,
		GameOver: g.gameOver || g.won,
		Won:      g.won,
		Paused:   g.paused || g.tooSmall || g.levelCleared,
	}
	if g.board != nil {
		st.MaxTile = g.board.MaxValue()
	}
	if lvl := g.Level(); lvl != nil {
		st.Level = lvl.ID
	}
	return st
}

// Resize follows a terminal resize, keeping the game in progress.
func (g *Game) Resize(w, h int) {
	g.screenW, g.screenH = w, h
	if g.board != nil {
		g.relayout()
	}
}

