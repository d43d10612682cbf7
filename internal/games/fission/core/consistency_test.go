package core

import "testing"

func corruptedBoard(t *testing.T) (*Board, *Tile) {
	t.Helper()
	ids := NewIDSource(5)
	b := NewBoard(3, 3)
	a := NewTile(ids.Next(), 2, ColorRed)
	if err := b.Place(C(0, 0), a); err != nil {
		t.Fatal(err)
	}
	ghost := NewTile(ids.Next(), 4, ColorBlue)
	if err := b.Place(C(1, 1), ghost); err != nil {
		t.Fatal(err)
	}

	// destroyed tile still referenced by its cell
	ghost.destroyed = true
	// same tile in two cells, second one still listed as empty
	b.cells[b.index(C(2, 2))] = a
	// free cell missing from the empty set
	delete(b.empty, C(2, 0))
	// coordinate that is not on the board
	b.empty[C(7, 7)] = struct{}{}
	return b, a
}

func TestCheckConsistencyRepairs(t *testing.T) {
	b, a := corruptedBoard(t)

	fixes := b.CheckConsistency()
	kinds := make(map[CorrectionKind]int)
	for _, f := range fixes {
		kinds[f.Kind]++
	}

	expected := map[CorrectionKind]int{
		CorrectionDestroyedTile: 1,
		CorrectionDuplicateTile: 1,
		CorrectionMissingEmpty:  2, // (2,0) and the freed ghost cell
		CorrectionForeignEmpty:  1,
	}
	for kind, n := range expected {
		if kinds[kind] != n {
			t.Errorf("%v: got %d corrections, expected %d (all: %v)", kind, kinds[kind], n, fixes)
		}
	}

	if got, ok := b.TileAt(C(0, 0)); !ok || got != a {
		t.Error("first reference to a tile should be kept")
	}
	for _, c := range []Coord{C(1, 1), C(2, 2), C(2, 0)} {
		if !b.IsEmpty(c) {
			t.Errorf("cell %v should be empty after repair", c)
		}
		if _, listed := b.empty[c]; !listed {
			t.Errorf("cell %v should be in the empty set", c)
		}
	}
	if _, listed := b.empty[C(7, 7)]; listed {
		t.Error("off-board coordinate should be removed")
	}
	if len(b.empty) != 8 {
		t.Errorf("expected 8 empty cells, got %d", len(b.empty))
	}
}

func TestCheckConsistencyIdempotent(t *testing.T) {
	b, _ := corruptedBoard(t)
	if first := b.CheckConsistency(); len(first) == 0 {
		t.Fatal("expected corrections on a corrupted board")
	}
	if second := b.CheckConsistency(); len(second) != 0 {
		t.Errorf("second check should find nothing, got %v", second)
	}
}

func TestCheckConsistencyStaleEmpty(t *testing.T) {
	b := NewBoard(2, 2)
	tile := NewTile(NewIDSource(1).Next(), 1, ColorGreen)
	if err := b.Place(C(1, 0), tile); err != nil {
		t.Fatal(err)
	}
	b.empty[C(1, 0)] = struct{}{}

	fixes := b.CheckConsistency()
	if len(fixes) != 1 || fixes[0].Kind != CorrectionStaleEmpty {
		t.Fatalf("expected one stale_empty correction, got %v", fixes)
	}
	if b.EmptyCount() != 3 {
		t.Errorf("expected 3 empty cells, got %d", b.EmptyCount())
	}
}
