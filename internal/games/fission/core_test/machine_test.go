package core_test

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tilefission/internal/games/fission/core"
)

func TestMachineMergeScenario(t *testing.T) {
	b := core.NewBoard(4, 4)
	place(t, b, core.C(0, 0), 6, core.ColorRed)
	place(t, b, core.C(1, 0), 6, core.ColorRed)
	m, rec := newMachine(b, quietRules())

	play(t, m, core.C(0, 0), core.C(1, 0))

	got, ok := b.TileAt(core.C(1, 0))
	if !ok || got.Value != 12 {
		t.Fatalf("expected 12 at (1,0), got %v", got)
	}
	if !b.IsEmpty(core.C(0, 0)) {
		t.Error("(0,0) should be empty")
	}
	if lm, _ := b.LastMerged(); lm != core.C(1, 0) {
		t.Errorf("last merged = %v, expected (1,0)", lm)
	}
	if got.State != core.TileIdle {
		t.Errorf("merged tile should settle to idle, got %v", got.State)
	}
	if rec.moves != 1 {
		t.Errorf("expected 1 move, got %d", rec.moves)
	}
	if rec.score != 12 {
		t.Errorf("expected 12 points, got %d", rec.score)
	}
	if m.Phase() != core.PhaseWaitingForInput {
		t.Errorf("expected waiting for input, got %v", m.Phase())
	}
	assertComplement(t, b)
}

func TestMachineRelocationCountsOneMove(t *testing.T) {
	b := core.NewBoard(4, 4)
	place(t, b, core.C(0, 0), 2, core.ColorRed)
	rules := quietRules()
	rules.SpawnPerTurn = 1
	m, rec := newMachine(b, rules)

	play(t, m, core.C(0, 0), core.C(0, 3))

	if rec.moves != 1 {
		t.Errorf("expected 1 move, got %d", rec.moves)
	}
	if b.TileCount() != 2 {
		t.Errorf("expected the moved tile plus one spawn, got %d tiles", b.TileCount())
	}
	if rec.count(core.EffectMove) != 1 || rec.count(core.EffectSpawn) != 1 {
		t.Errorf("unexpected effects: %+v", rec.effects)
	}
}

func TestMachineMergeThenSplit(t *testing.T) {
	b := core.NewBoard(5, 5)
	place(t, b, core.C(2, 0), 8, core.ColorGreen)
	place(t, b, core.C(2, 2), 6, core.ColorGreen)
	m, rec := newMachine(b, quietRules())

	play(t, m, core.C(2, 0), core.C(2, 2))

	assertNoOverThreshold(t, b, 12)
	if b.TotalValue() != 14 {
		t.Errorf("value not conserved: %d", b.TotalValue())
	}
	if b.TileCount() != 2 {
		t.Errorf("expected 2 tiles after split, got %d", b.TileCount())
	}
	s := m.Stats()
	if s.Merges != 1 || s.Splits != 1 || s.Turns != 1 {
		t.Errorf("unexpected stats %+v", s)
	}
	if rec.moves != 1 {
		t.Errorf("merge+split should count one move, got %d", rec.moves)
	}
	if rec.score != 14+core.DefaultRules().SplitPoints {
		t.Errorf("unexpected score %d", rec.score)
	}
	assertComplement(t, b)
}

func TestMachineBlasterScenario(t *testing.T) {
	b := core.NewBoard(4, 4)
	placeSpecial(t, b, core.C(1, 1), core.AbilityBlaster, core.ColorRed)
	place(t, b, core.C(0, 0), 2, core.ColorRed)
	place(t, b, core.C(0, 1), 3, core.ColorGreen)
	place(t, b, core.C(1, 0), 4, core.ColorBlue)
	m, rec := newMachine(b, quietRules())

	if got := m.HandleInput(core.C(1, 1)); got != core.InputSelected {
		t.Fatalf("first click: %v", got)
	}
	if got := m.HandleInput(core.C(1, 1)); got != core.InputActivationStarted {
		t.Fatalf("second click: %v", got)
	}
	if m.Phase() != core.PhaseSpecialActivation {
		t.Fatalf("expected special activation, got %v", m.Phase())
	}
	if !m.Settle(50) {
		t.Fatal("activation did not settle")
	}

	for _, c := range []core.Coord{core.C(0, 0), core.C(0, 1), core.C(1, 0), core.C(1, 1)} {
		if !b.IsEmpty(c) {
			t.Errorf("cell %v should be empty", c)
		}
	}
	if rec.score != 9 {
		t.Errorf("expected 9 points, got %d", rec.score)
	}
	if rec.bonuses != 1 {
		t.Errorf("expected 1 special bonus, got %d", rec.bonuses)
	}
	if rec.moves != 1 {
		t.Errorf("activation should count one move, got %d", rec.moves)
	}
	assertComplement(t, b)
}

func TestMachineMergeArmsNeighbourSpecial(t *testing.T) {
	b := core.NewBoard(4, 4)
	place(t, b, core.C(0, 0), 5, core.ColorRed)
	place(t, b, core.C(2, 0), 5, core.ColorRed)
	placeSpecial(t, b, core.C(3, 0), core.AbilityBlaster, core.ColorBlue)
	m, rec := newMachine(b, quietRules())

	play(t, m, core.C(0, 0), core.C(2, 0))

	if b.TileCount() != 0 {
		t.Errorf("blaster should clear the merged tile and itself, %d tiles left", b.TileCount())
	}
	if rec.score != 20 {
		t.Errorf("expected merge 10 + blast 10, got %d", rec.score)
	}
	if rec.bonuses != 1 || rec.moves != 1 {
		t.Errorf("bonuses=%d moves=%d", rec.bonuses, rec.moves)
	}
}

func TestMachineDoublerFeedsSplit(t *testing.T) {
	b := core.NewBoard(3, 3)
	placeSpecial(t, b, core.C(1, 1), core.AbilityDoubler, core.ColorRed)
	place(t, b, core.C(1, 0), 8, core.ColorRed)
	m, rec := newMachine(b, quietRules())

	m.HandleInput(core.C(1, 1))
	m.HandleInput(core.C(1, 1))
	if !m.Settle(50) {
		t.Fatal("did not settle")
	}

	assertNoOverThreshold(t, b, 12)
	if b.TotalValue() != 16 {
		t.Errorf("expected doubled value 16 spread over the board, got %d", b.TotalValue())
	}
	s := m.Stats()
	if s.Activations != 1 || s.Splits != 1 {
		t.Errorf("unexpected stats %+v", s)
	}
	if rec.moves != 1 {
		t.Errorf("expected 1 move, got %d", rec.moves)
	}
}

func TestMachineSpecialsActivateInArmingOrder(t *testing.T) {
	b := core.NewBoard(4, 4)
	place(t, b, core.C(0, 0), 2, core.ColorRed)
	place(t, b, core.C(2, 0), 2, core.ColorRed)
	// Neighbours are armed N, E, S, W: (3,0) goes first, then (2,1).
	first := placeSpecial(t, b, core.C(3, 0), core.AbilityDoubler, core.ColorBlue)
	second := placeSpecial(t, b, core.C(2, 1), core.AbilityDoubler, core.ColorGreen)
	m, rec := newMachine(b, quietRules())

	play(t, m, core.C(0, 0), core.C(2, 0))

	var order []core.Coord
	for _, e := range rec.effects {
		if e.Kind == core.EffectActivate {
			order = append(order, e.From)
		}
	}
	if len(order) != 2 || order[0] != core.C(3, 0) || order[1] != core.C(2, 1) {
		t.Fatalf("activation order = %v, want [(3,0) (2,1)]", order)
	}
	if !first.Destroyed() || !second.Destroyed() {
		t.Error("both doublers should be consumed")
	}

	// 4 doubled to 8 by the first, 8 doubled to 16 by the second, then split 8+8.
	if b.TotalValue() != 16 || b.TileCount() != 2 {
		t.Errorf("total %d in %d tiles, want 16 in 2", b.TotalValue(), b.TileCount())
	}
	assertNoOverThreshold(t, b, 12)
	if tile, ok := b.TileAt(core.C(2, 0)); !ok || tile.Value != 8 {
		t.Errorf("merge cell = %+v, want 8", tile)
	}
	// merge 4 + first double 8*1 + second double 16*2 + split 10
	if rec.score != 54 {
		t.Errorf("score = %d, want 54", rec.score)
	}
	s := m.Stats()
	if s.Activations != 2 || s.Splits != 1 {
		t.Errorf("unexpected stats %+v", s)
	}
	if rec.bonuses != 2 || rec.moves != 1 {
		t.Errorf("bonuses=%d moves=%d, want 2 and 1", rec.bonuses, rec.moves)
	}
	assertComplement(t, b)
}

func TestMachineBlasterClearsBeforeNextActivation(t *testing.T) {
	b := core.NewBoard(5, 3)
	place(t, b, core.C(0, 1), 3, core.ColorRed)
	place(t, b, core.C(2, 1), 3, core.ColorRed)
	// E of the merge cell is armed before S.
	placeSpecial(t, b, core.C(3, 1), core.AbilityBlaster, core.ColorBlue)
	placeSpecial(t, b, core.C(2, 2), core.AbilityDoubler, core.ColorBlue)
	m, rec := newMachine(b, quietRules())

	play(t, m, core.C(0, 1), core.C(2, 1))

	if b.TileCount() != 0 {
		t.Errorf("expected an empty board, %d tiles left", b.TileCount())
	}
	// merge 6 + blast of the merged 6; the blaster also removes the doubler,
	// which therefore never activates.
	if rec.count(core.EffectActivate) != 1 {
		t.Errorf("activations = %d, want 1", rec.count(core.EffectActivate))
	}
	if rec.score != 12 {
		t.Errorf("score = %d, want 12", rec.score)
	}
	assertComplement(t, b)
}

func TestMachineFreezeSkipsSpawn(t *testing.T) {
	b := core.NewBoard(3, 3)
	placeSpecial(t, b, core.C(0, 0), core.AbilityFreeze, core.ColorRed)
	place(t, b, core.C(2, 2), 1, core.ColorRed)
	rules := quietRules()
	rules.SpawnPerTurn = 2
	m, rec := newMachine(b, rules)

	m.HandleInput(core.C(0, 0))
	m.HandleInput(core.C(0, 0))
	if !m.Settle(50) {
		t.Fatal("did not settle")
	}
	if b.TileCount() != 1 {
		t.Errorf("freeze should cancel the spawn, got %d tiles", b.TileCount())
	}
	if m.SkipNextSpawn() {
		t.Error("skip flag should be consumed")
	}
	if rec.count(core.EffectFreeze) != 1 {
		t.Error("expected a freeze effect")
	}

	play(t, m, core.C(2, 2), core.C(2, 0))
	if b.TileCount() != 3 {
		t.Errorf("spawning should resume next turn, got %d tiles", b.TileCount())
	}
}

func TestMachineGameOver(t *testing.T) {
	b := core.NewBoard(2, 2)
	place(t, b, core.C(0, 0), 1, core.ColorGreen)
	place(t, b, core.C(0, 1), 1, core.ColorBlue)
	rules := quietRules()
	rules.SpawnPerTurn = 2
	rules.Colors = 1
	m, _ := newMachine(b, rules)

	play(t, m, core.C(0, 0), core.C(1, 0))

	if b.EmptyCount() != 0 {
		t.Fatalf("board should be full, %d empty", b.EmptyCount())
	}
	if b.FindValidMoveExists() {
		t.Fatal("no move should remain")
	}
	if m.Phase() != core.PhaseGameOver {
		t.Errorf("expected game over, got %v", m.Phase())
	}
	if got := m.HandleInput(core.C(0, 0)); got != core.InputIgnored {
		t.Errorf("input after game over should be ignored, got %v", got)
	}
}

func TestMachineInputIgnoredWhileMoving(t *testing.T) {
	b := core.NewBoard(4, 4)
	place(t, b, core.C(0, 0), 2, core.ColorRed)
	place(t, b, core.C(3, 3), 2, core.ColorBlue)
	rules := quietRules()
	rules.JoinTimeoutTicks = 1000
	m, rec := newMachine(b, rules)
	rec.stuck = true

	m.HandleInput(core.C(0, 0))
	if got := m.HandleInput(core.C(0, 2)); got != core.InputMoveStarted {
		t.Fatalf("expected move start, got %v", got)
	}
	m.Update()
	if m.Phase() != core.PhaseMoving {
		t.Fatalf("expected moving while presenter is busy, got %v", m.Phase())
	}

	before := b.Occupied()
	if got := m.HandleInput(core.C(3, 3)); got != core.InputIgnored {
		t.Errorf("expected input to be ignored, got %v", got)
	}
	if m.Phase() != core.PhaseMoving {
		t.Errorf("phase changed to %v", m.Phase())
	}
	after := b.Occupied()
	if len(before) != len(after) {
		t.Fatal("board changed")
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("board changed at %v", before[i])
		}
	}
	if _, selected := m.Selection(); selected {
		t.Error("ignored input must not select")
	}
}

func TestMachineJoinTimeout(t *testing.T) {
	b := core.NewBoard(4, 4)
	tile := place(t, b, core.C(0, 0), 2, core.ColorRed)
	rules := quietRules()
	rules.JoinTimeoutTicks = 3
	m, rec := newMachine(b, rules)
	rec.stuck = true

	m.HandleInput(core.C(0, 0))
	m.HandleInput(core.C(3, 0))
	if tile.State != core.TileMoving {
		t.Fatalf("tile should be moving, got %v", tile.State)
	}

	for i := 0; i < 2; i++ {
		m.Update()
	}
	if m.Phase() != core.PhaseMoving {
		t.Fatalf("should still wait before the timeout, got %v", m.Phase())
	}
	if !m.Settle(100) {
		t.Fatal("timeouts should let the turn finish")
	}
	if tile.State != core.TileIdle {
		t.Errorf("tile should be forced idle, got %v", tile.State)
	}
	if m.Stats().JoinTimeouts == 0 {
		t.Error("expected join timeouts to be counted")
	}
	if rec.moves != 1 {
		t.Errorf("expected 1 move, got %d", rec.moves)
	}
}

func TestMachineSelection(t *testing.T) {
	b := core.NewBoard(4, 4)
	tile := place(t, b, core.C(1, 1), 2, core.ColorRed)
	place(t, b, core.C(1, 3), 2, core.ColorBlue)
	m, rec := newMachine(b, quietRules())

	tests := []struct {
		name     string
		at       core.Coord
		want     core.InputResult
		selected bool
	}{
		{"empty cell", core.C(0, 0), core.InputRejected, false},
		{"off board", core.C(9, 9), core.InputRejected, false},
		{"select", core.C(1, 1), core.InputSelected, true},
		{"deselect", core.C(1, 1), core.InputDeselected, false},
		{"select again", core.C(1, 1), core.InputSelected, true},
		{"incompatible target", core.C(1, 3), core.InputRejected, false},
	}

	for _, tt := range tests {
		got := m.HandleInput(tt.at)
		if got != tt.want {
			t.Errorf("%s: got %v, expected %v", tt.name, got, tt.want)
		}
		if _, sel := m.Selection(); sel != tt.selected {
			t.Errorf("%s: selected=%v, expected %v", tt.name, sel, tt.selected)
		}
	}
	if tile.State != core.TileIdle {
		t.Errorf("tile should be idle after rejection, got %v", tile.State)
	}
	if rec.moves != 0 || m.Phase() != core.PhaseWaitingForInput {
		t.Error("rejected input must not start a turn")
	}
	if rec.count(core.EffectReject) != 1 {
		t.Error("expected one reject effect")
	}
}

func TestMachineLevelCompleteSkipsSpawn(t *testing.T) {
	b := core.NewBoard(4, 4)
	place(t, b, core.C(0, 0), 3, core.ColorRed)
	place(t, b, core.C(0, 3), 3, core.ColorRed)
	rules := quietRules()
	rules.SpawnPerTurn = 2
	m, rec := newMachine(b, rules)
	rec.goal = func(s core.Stats) bool { return s.MaxValue >= 6 }

	play(t, m, core.C(0, 0), core.C(0, 3))

	if m.Phase() != core.PhaseLevelComplete {
		t.Fatalf("expected level complete, got %v", m.Phase())
	}
	if b.TileCount() != 1 {
		t.Errorf("no spawn after the level is won, got %d tiles", b.TileCount())
	}
	if rec.checks == 0 {
		t.Error("tracker should be consulted")
	}
}

func TestMachineMissingCollaborators(t *testing.T) {
	b := core.NewBoard(3, 3)
	place(t, b, core.C(0, 0), 1, core.ColorRed)
	place(t, b, core.C(2, 0), 1, core.ColorRed)
	m := core.NewMachine(b, core.Deps{}, quietRules())

	if m.HandleInput(core.C(0, 0)) != core.InputSelected {
		t.Fatal("select failed")
	}
	if m.HandleInput(core.C(2, 0)) != core.InputMoveStarted {
		t.Fatal("move failed")
	}
	if !m.Settle(20) {
		t.Fatal("turn should resolve with default collaborators")
	}
	if got, _ := b.TileAt(core.C(2, 0)); got == nil || got.Value != 2 {
		t.Error("merge should still apply")
	}
}

func TestMachineRandomPlayKeepsInvariants(t *testing.T) {
	b := core.NewBoard(5, 5)
	rules := core.DefaultRules()
	rules.SpawnPerTurn = 2
	rules.SpecialChance = 0.2
	rules.SplitThreshold = 8
	rules.SpawnMaxValue = 4
	m, _ := newMachine(b, rules)
	m.SpawnInitial(8)

	rng := rand.New(rand.NewSource(11))
	for turn := 0; turn < 3000 && !m.Phase().Terminal(); turn++ {
		from := core.C(rng.Intn(5), rng.Intn(5))
		to := core.C(rng.Intn(5), rng.Intn(5))
		m.HandleInput(from)
		m.HandleInput(to)
		if !m.Settle(500) {
			t.Fatalf("turn %d did not settle, phase %v", turn, m.Phase())
		}
		assertComplement(t, b)
		assertNoOverThreshold(t, b, rules.SplitThreshold)
	}
	if c := m.Stats().Corrections; c != 0 {
		t.Errorf("engine produced %d board corrections", c)
	}
}

func TestSpawnColorsComeFromPalette(t *testing.T) {
	if got := core.Palette(0); len(got) != 1 || got[0] != core.ColorRed {
		t.Errorf("Palette(0) = %v, want [red]", got)
	}
	if got := core.Palette(99); len(got) != int(core.ColorCount) {
		t.Errorf("Palette(99) has %d colors, want %d", len(got), core.ColorCount)
	}

	rules := quietRules()
	rules.Colors = 1
	b := core.NewBoard(4, 4)
	m, _ := newMachine(b, rules)
	if n := m.SpawnInitial(10); n != 10 {
		t.Fatalf("SpawnInitial placed %d, want 10", n)
	}
	b.Each(func(c core.Coord, tile *core.Tile) {
		if tile.Color != core.ColorRed {
			t.Errorf("tile at %v has color %v with a one-color palette", c, tile.Color)
		}
	})
}
