package core

import (
	"errors"
	"fmt"
)

// Phase is a step of the turn pipeline.
type Phase uint8

const (
	PhaseWaitingForInput Phase = iota
	PhaseMoving
	PhaseMerging
	PhaseSplitting
	PhaseSpecialActivation
	PhaseSpawning
	PhaseGameOverCheck
	PhaseGameOver
	PhaseLevelComplete
	phaseCount
)

var phaseNames = [...]string{
	PhaseWaitingForInput:   "waiting_for_input",
	PhaseMoving:            "moving",
	PhaseMerging:           "merging",
	PhaseSplitting:         "splitting",
	PhaseSpecialActivation: "special_activation",
	PhaseSpawning:          "spawning",
	PhaseGameOverCheck:     "game_over_check",
	PhaseGameOver:          "game_over",
	PhaseLevelComplete:     "level_complete",
}

// Adding a phase without a name breaks the build here.
func _() {
	var x [1]struct{}
	_ = x[len(phaseNames)-int(phaseCount)]
}

// String returns the phase name.
func (p Phase) String() string {
	if p < phaseCount {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// Terminal reports whether the phase ends the game or level.
func (p Phase) Terminal() bool {
	return p == PhaseGameOver || p == PhaseLevelComplete
}

// Event drives a phase transition.
type Event uint8

const (
	EventMoveAccepted Event = iota
	EventActivationRequested
	EventPhaseComplete
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventMoveAccepted:
		return "move_accepted"
	case EventActivationRequested:
		return "activation_requested"
	case EventPhaseComplete:
		return "phase_complete"
	default:
		return "unknown"
	}
}

// Guards are the board facts consulted by NextPhase.
type Guards struct {
	Outcome         MoveOutcome
	SplitPending    bool
	SpecialsPending bool
	ValidMoveExists bool
	LevelComplete   bool
}

// Transition errors.
var (
	ErrTerminalPhase     = errors.New("phase is terminal")
	ErrInvalidTransition = errors.New("event not accepted in phase")
	ErrSelfTransition    = errors.New("phase cannot transition to itself")
)

// NextPhase returns the phase that follows current on ev.
// It is defined for every input; unsupported combinations return an error.
func NextPhase(current Phase, ev Event, g Guards) (Phase, error) {
	next, err := nextPhase(current, ev, g)
	if err != nil {
		return current, err
	}
	if next == current {
		return current, fmt.Errorf("%v on %v: %w", current, ev, ErrSelfTransition)
	}
	return next, nil
}

func nextPhase(current Phase, ev Event, g Guards) (Phase, error) {
	if current >= phaseCount {
		return current, fmt.Errorf("%v: %w", current, ErrInvalidTransition)
	}
	if current.Terminal() {
		return current, fmt.Errorf("%v on %v: %w", current, ev, ErrTerminalPhase)
	}

	if current == PhaseWaitingForInput {
		switch ev {
		case EventMoveAccepted:
			return PhaseMoving, nil
		case EventActivationRequested:
			return PhaseSpecialActivation, nil
		}
		return current, fmt.Errorf("%v on %v: %w", current, ev, ErrInvalidTransition)
	}
	if ev != EventPhaseComplete {
		return current, fmt.Errorf("%v on %v: %w", current, ev, ErrInvalidTransition)
	}

	switch current {
	case PhaseMoving:
		if g.Outcome == MoveMerge {
			return PhaseMerging, nil
		}
		return afterMutation(g), nil
	case PhaseMerging:
		return afterMutation(g), nil
	case PhaseSplitting:
		if g.SpecialsPending {
			return PhaseSpecialActivation, nil
		}
		return toSpawn(g), nil
	case PhaseSpecialActivation:
		if g.SplitPending {
			return PhaseSplitting, nil
		}
		return toSpawn(g), nil
	case PhaseSpawning:
		return PhaseGameOverCheck, nil
	case PhaseGameOverCheck:
		switch {
		case g.LevelComplete:
			return PhaseLevelComplete, nil
		case !g.ValidMoveExists:
			return PhaseGameOver, nil
		default:
			return PhaseWaitingForInput, nil
		}
	}
	return current, fmt.Errorf("%v on %v: %w", current, ev, ErrInvalidTransition)
}

func afterMutation(g Guards) Phase {
	switch {
	case g.SplitPending:
		return PhaseSplitting
	case g.SpecialsPending:
		return PhaseSpecialActivation
	default:
		return toSpawn(g)
	}
}

// toSpawn skips spawning once the level is won.
func toSpawn(g Guards) Phase {
	if g.LevelComplete {
		return PhaseGameOverCheck
	}
	return PhaseSpawning
}
