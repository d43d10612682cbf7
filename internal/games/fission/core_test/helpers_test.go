package core_test

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tilefission/internal/games/fission/core"
)

// recorder implements every collaborator the machine talks to.
type recorder struct {
	score   int
	bonuses int
	moves   int
	effects []core.Effect
	stuck   bool
	goal    func(core.Stats) bool
	done    bool
	checks  int
}

func (r *recorder) AddScore(n int)     { r.score += n }
func (r *recorder) AddSpecialBonus()   { r.bonuses++ }
func (r *recorder) IncrementMoves()    { r.moves++ }
func (r *recorder) Play(e core.Effect) { r.effects = append(r.effects, e) }
func (r *recorder) Busy() bool         { return r.stuck }

func (r *recorder) CheckLevelCompletion(s core.Stats) {
	r.checks++
	if r.goal != nil && r.goal(s) {
		r.done = true
	}
}

func (r *recorder) IsLevelComplete() bool { return r.done }

func (r *recorder) count(kind core.EffectKind) int {
	n := 0
	for _, e := range r.effects {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// quietRules disables spawning and specials so scenarios stay deterministic.
func quietRules() core.Rules {
	r := core.DefaultRules()
	r.SpawnPerTurn = 0
	r.SpecialChance = 0
	return r
}

func newMachine(b *core.Board, rules core.Rules) (*core.Machine, *recorder) {
	rec := &recorder{}
	m := core.NewMachine(b, core.Deps{
		RNG:       rand.New(rand.NewSource(7)),
		IDs:       core.NewIDSource(7),
		Scorer:    rec,
		Moves:     rec,
		Presenter: rec,
		Levels:    rec,
	}, rules)
	return m, rec
}

var ids = core.NewIDSource(99)

func place(t *testing.T, b *core.Board, c core.Coord, value int, color core.Color) *core.Tile {
	t.Helper()
	tile := core.NewTile(ids.Next(), value, color)
	if err := b.Place(c, tile); err != nil {
		t.Fatalf("place %v: %v", c, err)
	}
	return tile
}

func placeSpecial(t *testing.T, b *core.Board, c core.Coord, a core.Ability, color core.Color) *core.Tile {
	t.Helper()
	tile := core.NewSpecial(ids.Next(), a, color)
	if err := b.Place(c, tile); err != nil {
		t.Fatalf("place special %v: %v", c, err)
	}
	return tile
}

// play selects from and then to, and runs the turn to completion.
func play(t *testing.T, m *core.Machine, from, to core.Coord) {
	t.Helper()
	if got := m.HandleInput(from); got != core.InputSelected {
		t.Fatalf("select %v: got %v", from, got)
	}
	got := m.HandleInput(to)
	if got != core.InputMoveStarted && got != core.InputActivationStarted {
		t.Fatalf("target %v: got %v", to, got)
	}
	if !m.Settle(200) {
		t.Fatalf("turn did not settle, phase %v", m.Phase())
	}
}

// assertComplement checks that the empty set is exactly the unoccupied cells.
func assertComplement(t *testing.T, b *core.Board) {
	t.Helper()
	empty := make(map[core.Coord]bool)
	for _, c := range b.EmptyCells() {
		empty[c] = true
	}
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			c := core.C(x, y)
			_, occupied := b.TileAt(c)
			if occupied == empty[c] {
				t.Fatalf("cell %v: occupied=%v listed empty=%v", c, occupied, empty[c])
			}
		}
	}
	if len(b.EmptyCells())+b.TileCount() != b.Size() {
		t.Fatalf("empty %d + tiles %d != size %d", len(b.EmptyCells()), b.TileCount(), b.Size())
	}
}

func assertNoOverThreshold(t *testing.T, b *core.Board, threshold int) {
	t.Helper()
	if over := b.FindTilesExceedingThreshold(threshold); len(over) > 0 {
		t.Fatalf("tiles over threshold %d at %v", threshold, over)
	}
}
