package fission

import (
	"github.com/vovakirdan/tilefission/internal/games/fission/core"
	"github.com/vovakirdan/tilefission/internal/games/fission/levels"
)

// tally keeps score and moves for the engine.
type tally struct {
	score        int
	moves        int
	specialBonus int
	bonuses      int
}

func (t *tally) AddScore(amount int) { t.score += amount }

func (t *tally) AddSpecialBonus() {
	t.score += t.specialBonus
	t.bonuses++
}

func (t *tally) IncrementMoves() { t.moves++ }

// goalTracker completes a level once its goal is met. Score goals count only
// points earned since the level started.
type goalTracker struct {
	goal      levels.Goal
	tally     *tally
	baseScore int
	complete  bool
}

func newGoalTracker(goal levels.Goal, t *tally) *goalTracker {
	return &goalTracker{goal: goal, tally: t, baseScore: t.score}
}

func (g *goalTracker) levelScore() int {
	return g.tally.score - g.baseScore
}

func (g *goalTracker) CheckLevelCompletion(s core.Stats) {
	if g.complete {
		return
	}
	g.complete = g.goal.Met(s, g.levelScore())
}

func (g *goalTracker) IsLevelComplete() bool { return g.complete }

// progress returns the goal progress for the HUD.
func (g *goalTracker) progress(s core.Stats) int {
	return g.goal.Progress(s, g.levelScore())
}
