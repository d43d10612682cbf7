package fission

import (
	"math/rand"

	"github.com/vovakirdan/tilefission/internal/games/fission/core"
)

// Turn is one player action: a move from From to To, or an activation when
// both cells are the same special tile.
type Turn struct {
	From core.Coord
	To   core.Coord
}

// Activation reports whether the turn fires a special.
func (t Turn) Activation() bool { return t.From == t.To }

// Bot picks turns. It merges when it can, preferring the largest result,
// fires a special otherwise, and falls back to a random relocation.
type Bot struct {
	rng *rand.Rand
}

// NewBot creates a bot with its own random source.
func NewBot(seed int64) *Bot {
	return &Bot{rng: rand.New(rand.NewSource(seed))}
}

// Choose returns the next turn, or false when the board offers none.
func (b *Bot) Choose(board *core.Board) (Turn, bool) {
	var (
		best      Turn
		bestValue = -1
		specials  []Turn
		moves     []Turn
	)
	for _, c := range board.Specials() {
		specials = append(specials, Turn{From: c, To: c})
	}
	for _, from := range board.Occupied() {
		src, _ := board.TileAt(from)
		for _, to := range lineCells(board, from) {
			plan := board.PlanMove(from, to)
			switch plan.Outcome {
			case core.MoveMerge:
				dst, _ := board.TileAt(to)
				if v := src.Value + dst.Value; v > bestValue {
					best, bestValue = Turn{From: from, To: to}, v
				}
			case core.MoveRelocate:
				moves = append(moves, Turn{From: from, To: to})
			}
		}
	}

	switch {
	case bestValue >= 0:
		return best, true
	case len(specials) > 0:
		return specials[b.rng.Intn(len(specials))], true
	case len(moves) > 0:
		return moves[b.rng.Intn(len(moves))], true
	}
	return Turn{}, false
}

// lineCells returns the other cells of c's row and column.
func lineCells(board *core.Board, c core.Coord) []core.Coord {
	out := make([]core.Coord, 0, board.Width()+board.Height()-2)
	for x := 0; x < board.Width(); x++ {
		if x != c.X {
			out = append(out, core.C(x, c.Y))
		}
	}
	for y := 0; y < board.Height(); y++ {
		if y != c.Y {
			out = append(out, core.C(c.X, y))
		}
	}
	return out
}

// Play feeds a turn to the machine and settles it.
// It returns false if the machine did not accept the turn.
func Play(m *core.Machine, t Turn, maxUpdates int) bool {
	if r := m.HandleInput(t.From); r != core.InputSelected {
		return false
	}
	switch m.HandleInput(t.To) {
	case core.InputMoveStarted, core.InputActivationStarted:
	default:
		return false
	}
	return m.Settle(maxUpdates)
}
