package fission

import (
	"github.com/vovakirdan/tilefission/internal/games/fission/core"
)

// GameStateType names where the game is.
type GameStateType string

const (
	StatePlaying      GameStateType = "playing"
	StateResolving    GameStateType = "resolving"
	StateLevelCleared GameStateType = "level_cleared"
	StateGameOver     GameStateType = "game_over"
	StateWin          GameStateType = "win"
	StatePausedSmall  GameStateType = "paused_small_window"
)

// CellSnapshot is one board cell. Empty cells have a zero value and no ability.
type CellSnapshot struct {
	Value   int
	Color   string
	Ability string
	Empty   bool
}

// Snapshot captures the game for determinism tests and replays.
type Snapshot struct {
	Tick     uint64
	Mode     string
	Level    string // level ID, empty in endless mode
	Score    int
	Moves    int
	Phase    string
	Width    int
	Height   int
	Cells    [][]CellSnapshot // [y][x]
	MaxValue int
	Stats    core.Stats
	State    GameStateType
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case g.gameOver:
		state = StateGameOver
	case g.levelCleared:
		state = StateLevelCleared
	case !g.machine.AcceptingInput():
		state = StateResolving
	}

	w, h := g.board.Width(), g.board.Height()
	cells := make([][]CellSnapshot, h)
	for y := range cells {
		cells[y] = make([]CellSnapshot, w)
		for x := range cells[y] {
			cells[y][x] = CellSnapshot{Empty: true}
		}
	}
	g.board.Each(func(c core.Coord, t *core.Tile) {
		cs := CellSnapshot{Value: t.Value, Color: t.Color.String()}
		if t.IsSpecial() {
			cs.Ability = t.Ability.String()
		}
		cells[c.Y][c.X] = cs
	})

	snap := Snapshot{
		Tick:     g.tick,
		Mode:     string(g.mode),
		Score:    g.tally.score,
		Moves:    g.tally.moves,
		Phase:    g.machine.Phase().String(),
		Width:    w,
		Height:   h,
		Cells:    cells,
		MaxValue: g.board.MaxValue(),
		Stats:    g.machine.Stats(),
		State:    state,
	}
	if lvl := g.Level(); lvl != nil {
		snap.Level = lvl.ID
	}
	return snap
}
