package levels

import (
	"fmt"

	"github.com/vovakirdan/tilefission/internal/games/fission/core"
)

// GoalType names a win condition.
type GoalType string

const (
	GoalNone       GoalType = "none"
	GoalReachValue GoalType = "reach_value"
	GoalMerges     GoalType = "merges"
	GoalSplits     GoalType = "splits"
	GoalScore      GoalType = "score"
)

// Goal is the win condition of a level.
type Goal struct {
	Type   GoalType
	Target int
}

// Progress returns the current value measured by the goal, capped at the target.
func (g Goal) Progress(s core.Stats, score int) int {
	var cur int
	switch g.Type {
	case GoalReachValue:
		cur = s.MaxValue
	case GoalMerges:
		cur = s.Merges
	case GoalSplits:
		cur = s.Splits
	case GoalScore:
		cur = score
	default:
		return 0
	}
	if cur > g.Target {
		cur = g.Target
	}
	return cur
}

// Met reports whether the goal is reached. A level without a goal never completes.
func (g Goal) Met(s core.Stats, score int) bool {
	if g.Type == GoalNone || g.Target <= 0 {
		return false
	}
	return g.Progress(s, score) >= g.Target
}

// String describes the goal for the HUD.
func (g Goal) String() string {
	switch g.Type {
	case GoalReachValue:
		return fmt.Sprintf("Build a %d", g.Target)
	case GoalMerges:
		return fmt.Sprintf("Merge %d times", g.Target)
	case GoalSplits:
		return fmt.Sprintf("Split %d tiles", g.Target)
	case GoalScore:
		return fmt.Sprintf("Score %d", g.Target)
	default:
		return "Endless"
	}
}
