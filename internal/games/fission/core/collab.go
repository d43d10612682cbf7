package core

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Scorer receives point deltas.
type Scorer interface {
	AddScore(amount int)
	AddSpecialBonus()
}

// MoveCounter receives one increment per resolved turn.
type MoveCounter interface {
	IncrementMoves()
}

// Presenter plays effects on its own timeline. Busy reports whether any effect is
// still running; the machine waits for it at phase boundaries.
type Presenter interface {
	Play(e Effect)
	Busy() bool
}

// LevelTracker decides when the current level is won.
type LevelTracker interface {
	CheckLevelCompletion(s Stats)
	IsLevelComplete() bool
}

// Stats are the cumulative counters of a game handed to the level tracker.
type Stats struct {
	Turns        int
	Merges       int
	Splits       int
	Activations  int
	Spawns       int
	Dropped      int
	MaxValue     int
	Tiles        int
	Corrections  int
	JoinTimeouts int
}

// EffectKind identifies a presentation effect.
type EffectKind uint8

const (
	EffectSelect EffectKind = iota
	EffectDeselect
	EffectReject
	EffectMove
	EffectMerge
	EffectSplit
	EffectActivate
	EffectSpawn
	EffectFreeze
)

// String returns the effect name.
func (k EffectKind) String() string {
	switch k {
	case EffectSelect:
		return "select"
	case EffectDeselect:
		return "deselect"
	case EffectReject:
		return "reject"
	case EffectMove:
		return "move"
	case EffectMerge:
		return "merge"
	case EffectSplit:
		return "split"
	case EffectActivate:
		return "activate"
	case EffectSpawn:
		return "spawn"
	case EffectFreeze:
		return "freeze"
	default:
		return "unknown"
	}
}

// Effect is a snapshot of what changed, taken when the change happened.
// Presenters must not reach back into the board.
type Effect struct {
	Kind    EffectKind
	TileID  uuid.UUID
	From    Coord
	To      Coord
	Value   int
	Color   Color
	Ability Ability
	Cells   []Coord
}

// Deps are the collaborators of a Machine. Nil fields fall back to no-op versions.
type Deps struct {
	Logger    *log.Logger
	RNG       *rand.Rand
	IDs       *IDSource
	Scorer    Scorer
	Moves     MoveCounter
	Presenter Presenter
	Levels    LevelTracker
}

type nopScorer struct{}

func (nopScorer) AddScore(int)     {}
func (nopScorer) AddSpecialBonus() {}

type nopMoves struct{}

func (nopMoves) IncrementMoves() {}

// InstantPresenter finishes every effect immediately.
type InstantPresenter struct{}

func (InstantPresenter) Play(Effect) {}
func (InstantPresenter) Busy() bool  { return false }

// nopLevels never completes, so a game without a tracker only ends in GameOver.
type nopLevels struct{}

func (nopLevels) CheckLevelCompletion(Stats) {}
func (nopLevels) IsLevelComplete() bool      { return false }

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

// withDefaults fills nil collaborators and logs each missing one once.
func (d Deps) withDefaults(seed int64) Deps {
	if d.Logger == nil {
		d.Logger = discardLogger()
	}
	if d.RNG == nil {
		d.RNG = rand.New(rand.NewSource(seed))
	}
	if d.IDs == nil {
		d.IDs = NewIDSource(seed)
	}
	if d.Scorer == nil {
		d.Logger.Error("score collaborator missing, points are discarded")
		d.Scorer = nopScorer{}
	}
	if d.Moves == nil {
		d.Logger.Error("move counter missing, turns are not reported")
		d.Moves = nopMoves{}
	}
	if d.Presenter == nil {
		d.Logger.Error("presenter missing, effects complete instantly")
		d.Presenter = InstantPresenter{}
	}
	if d.Levels == nil {
		d.Logger.Error("level tracker missing, level completion disabled")
		d.Levels = nopLevels{}
	}
	return d
}
