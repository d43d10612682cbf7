package core

import (
	"fmt"

	"github.com/google/uuid"
)

// Placement is one tile produced by a split.
type Placement struct {
	At     Coord
	Value  int
	TileID uuid.UUID
}

// SplitResult reports an applied split.
type SplitResult struct {
	Origin   Coord
	Value    int
	Color    Color
	Placed   []Placement
	Dropped  []int
	Overflow int // parts placed outside the 8-neighbourhood
}

// FindTilesExceedingThreshold returns every regular tile with a value above threshold,
// in row-major order.
func (b *Board) FindTilesExceedingThreshold(threshold int) []Coord {
	var out []Coord
	for i, t := range b.cells {
		if t != nil && !t.IsSpecial() && t.Value > threshold {
			out = append(out, b.coordAt(i))
		}
	}
	return out
}

// SplitValues partitions value into the fewest near-equal parts that are each at most
// threshold, never fewer than two. The first value%n parts carry the remainder.
func SplitValues(value, threshold int) []int {
	if threshold < 1 {
		threshold = 1
	}
	n := (value + threshold - 1) / threshold
	if n < 2 {
		n = 2
	}
	base, rem := value/n, value%n
	parts := make([]int, n)
	for i := range parts {
		parts[i] = base
		if i < rem {
			parts[i]++
		}
	}
	return parts
}

// PerformSplit destroys the over-threshold tile at c and scatters its value.
// The first part returns to c, the rest fill free neighbours in N, E, S, W, NE, SE,
// SW, NW order and then the nearest free cells. Parts with nowhere to go are dropped.
// Parts of value zero are never placed.
func (b *Board) PerformSplit(c Coord, threshold int, ids *IDSource) (SplitResult, error) {
	t, ok := b.TileAt(c)
	if !ok {
		return SplitResult{}, fmt.Errorf("split %v: %w", c, ErrCellEmpty)
	}
	if t.IsSpecial() || t.Value <= threshold {
		return SplitResult{}, fmt.Errorf("split %v: %w", c, ErrNotOverThreshold)
	}

	res := SplitResult{Origin: c, Value: t.Value, Color: t.Color}
	parts := SplitValues(t.Value, threshold)
	if _, err := b.Clear(c); err != nil {
		return SplitResult{}, err
	}

	candidates := append([]Coord{c}, b.Neighbors8(c)...)
	for _, v := range parts {
		if v <= 0 {
			continue
		}
		at, local := b.nextSplitCell(candidates, c)
		if !local && !b.IsEmpty(at) {
			res.Dropped = append(res.Dropped, v)
			continue
		}
		nt := NewTile(ids.Next(), v, res.Color)
		if err := b.Place(at, nt); err != nil {
			res.Dropped = append(res.Dropped, v)
			continue
		}
		if !local {
			res.Overflow++
		}
		res.Placed = append(res.Placed, Placement{At: at, Value: v, TileID: nt.ID})
	}
	return res, nil
}

// nextSplitCell returns the first free candidate, or the nearest free cell to origin
// with local=false. When the board is full the returned coordinate is occupied.
func (b *Board) nextSplitCell(candidates []Coord, origin Coord) (Coord, bool) {
	for _, n := range candidates {
		if b.IsEmpty(n) {
			return n, true
		}
	}
	return b.nearestEmpty(origin)
}

// nearestEmpty finds the free cell closest to c by Manhattan distance, ties broken
// row-major.
func (b *Board) nearestEmpty(c Coord) (Coord, bool) {
	best, found, bestDist := Coord{}, false, 0
	for i, t := range b.cells {
		if t != nil {
			continue
		}
		at := b.coordAt(i)
		d := at.Manhattan(c)
		if !found || d < bestDist {
			best, found, bestDist = at, true, d
		}
	}
	if !found {
		return c, false
	}
	return best, false
}

// UnionCoords returns first followed by the members of second not already present.
func UnionCoords(first, second []Coord) []Coord {
	seen := make(map[Coord]struct{}, len(first)+len(second))
	out := make([]Coord, 0, len(first)+len(second))
	for _, list := range [][]Coord{first, second} {
		for _, c := range list {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
