package core

import (
	"fmt"
	"sort"
)

// Board owns cell occupancy for a width×height grid.
// Cells are stored row-major: index = y*width + x.
// The empty set is a cache that must always equal the complement of the occupied cells.
type Board struct {
	width  int
	height int
	cells  []*Tile
	empty  map[Coord]struct{}

	lastMerged    Coord
	hasLastMerged bool

	geom   Geometry
	armSeq uint64
}

// NewBoard creates an empty board. Dimensions below 1 are raised to 1.
func NewBoard(width, height int) *Board {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	b := &Board{
		width:  width,
		height: height,
		cells:  make([]*Tile, width*height),
		empty:  make(map[Coord]struct{}, width*height),
		geom:   DefaultGeometry(),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.empty[C(x, y)] = struct{}{}
		}
	}
	return b
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// Size returns the number of cells.
func (b *Board) Size() int { return b.width * b.height }

func (b *Board) index(c Coord) int {
	return c.Y*b.width + c.X
}

func (b *Board) coordAt(i int) Coord {
	return C(i%b.width, i/b.width)
}

// InBounds reports whether c is on the board.
func (b *Board) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < b.width && c.Y >= 0 && c.Y < b.height
}

// IsEmpty reports whether c is on the board and holds no tile.
func (b *Board) IsEmpty(c Coord) bool {
	return b.InBounds(c) && b.cells[b.index(c)] == nil
}

// TileAt returns the tile at c.
func (b *Board) TileAt(c Coord) (*Tile, bool) {
	if !b.InBounds(c) {
		return nil, false
	}
	t := b.cells[b.index(c)]
	return t, t != nil
}

// Place puts a tile into an empty cell.
func (b *Board) Place(c Coord, t *Tile) error {
	switch {
	case !b.InBounds(c):
		return fmt.Errorf("place at %v: %w", c, ErrOutOfBounds)
	case t == nil:
		return fmt.Errorf("place at %v: %w", c, ErrNilTile)
	case t.destroyed:
		return fmt.Errorf("place at %v: %w", c, ErrTileDestroyed)
	case t.placed:
		return fmt.Errorf("place at %v: %w", c, ErrTileAlreadyPlaced)
	case b.cells[b.index(c)] != nil:
		return fmt.Errorf("place at %v: %w", c, ErrCellOccupied)
	}
	b.cells[b.index(c)] = t
	t.placed = true
	delete(b.empty, c)
	return nil
}

// Clear destroys the tile at c and frees the cell.
func (b *Board) Clear(c Coord) (*Tile, error) {
	if !b.InBounds(c) {
		return nil, fmt.Errorf("clear %v: %w", c, ErrOutOfBounds)
	}
	t := b.cells[b.index(c)]
	if t == nil {
		return nil, fmt.Errorf("clear %v: %w", c, ErrCellEmpty)
	}
	b.cells[b.index(c)] = nil
	b.empty[c] = struct{}{}
	t.placed = false
	t.destroyed = true
	t.armedSeq = 0
	return t, nil
}

// Move transfers ownership of the tile at from to the empty cell to.
func (b *Board) Move(from, to Coord) error {
	switch {
	case !b.InBounds(from) || !b.InBounds(to):
		return fmt.Errorf("move %v -> %v: %w", from, to, ErrOutOfBounds)
	case b.cells[b.index(from)] == nil:
		return fmt.Errorf("move %v -> %v: %w", from, to, ErrCellEmpty)
	case from == to:
		return nil
	case b.cells[b.index(to)] != nil:
		return fmt.Errorf("move %v -> %v: %w", from, to, ErrCellOccupied)
	}
	b.cells[b.index(to)] = b.cells[b.index(from)]
	b.cells[b.index(from)] = nil
	b.empty[from] = struct{}{}
	delete(b.empty, to)
	return nil
}

// EmptyCells returns the free cells in row-major order.
func (b *Board) EmptyCells() []Coord {
	out := make([]Coord, 0, len(b.empty))
	for c := range b.empty {
		out = append(out, c)
	}
	sortRowMajor(out)
	return out
}

// EmptyCount returns the number of free cells.
func (b *Board) EmptyCount() int {
	return len(b.empty)
}

// Occupied returns the occupied cells in row-major order.
func (b *Board) Occupied() []Coord {
	out := make([]Coord, 0, b.Size()-len(b.empty))
	for i, t := range b.cells {
		if t != nil {
			out = append(out, b.coordAt(i))
		}
	}
	return out
}

// TileCount returns the number of placed tiles.
func (b *Board) TileCount() int {
	n := 0
	for _, t := range b.cells {
		if t != nil {
			n++
		}
	}
	return n
}

// MaxValue returns the largest regular tile value on the board.
func (b *Board) MaxValue() int {
	best := 0
	for _, t := range b.cells {
		if t != nil && !t.IsSpecial() && t.Value > best {
			best = t.Value
		}
	}
	return best
}

// TotalValue returns the sum of all regular tile values.
func (b *Board) TotalValue() int {
	sum := 0
	for _, t := range b.cells {
		if t != nil && !t.IsSpecial() {
			sum += t.Value
		}
	}
	return sum
}

// LastMerged returns the cell of the most recent merge.
func (b *Board) LastMerged() (Coord, bool) {
	return b.lastMerged, b.hasLastMerged
}

func (b *Board) setLastMerged(c Coord) {
	b.lastMerged = c
	b.hasLastMerged = true
}

// Neighbors4 returns the in-bounds orthogonal neighbours of c in N, E, S, W order.
func (b *Board) Neighbors4(c Coord) []Coord {
	out := make([]Coord, 0, 4)
	for _, o := range offsets4 {
		n := c.Add(o[0], o[1])
		if b.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// Neighbors8 returns the in-bounds neighbours of c in N, E, S, W, NE, SE, SW, NW order.
func (b *Board) Neighbors8(c Coord) []Coord {
	out := make([]Coord, 0, 8)
	for _, o := range offsets8 {
		n := c.Add(o[0], o[1])
		if b.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// FindValidMoveExists reports whether the player has any legal action left.
// A tile can act when an orthogonal neighbour is empty or holds a tile it can merge with.
// Any special tile on the board can always be activated.
func (b *Board) FindValidMoveExists() bool {
	for i, t := range b.cells {
		if t == nil {
			continue
		}
		if t.IsSpecial() {
			return true
		}
		c := b.coordAt(i)
		for _, n := range b.Neighbors4(c) {
			other := b.cells[b.index(n)]
			if other == nil || t.CanMergeWith(other) {
				return true
			}
		}
	}
	return false
}

// Specials returns the cells holding special tiles in row-major order.
func (b *Board) Specials() []Coord {
	var out []Coord
	for i, t := range b.cells {
		if t != nil && t.IsSpecial() {
			out = append(out, b.coordAt(i))
		}
	}
	return out
}

// PendingSpecials returns the armed special tiles in arming order.
func (b *Board) PendingSpecials() []Coord {
	var out []Coord
	for i, t := range b.cells {
		if t != nil && t.IsSpecial() && t.Armed() {
			out = append(out, b.coordAt(i))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return b.cells[b.index(out[i])].armedSeq < b.cells[b.index(out[j])].armedSeq
	})
	return out
}

// Arm marks the special tile at c as pending. Arming an armed tile keeps its position in line.
func (b *Board) Arm(c Coord) error {
	t, ok := b.TileAt(c)
	if !ok {
		return fmt.Errorf("arm %v: %w", c, ErrCellEmpty)
	}
	if !t.IsSpecial() {
		return fmt.Errorf("arm %v: %w", c, ErrNotSpecial)
	}
	if !t.Armed() {
		b.armSeq++
		t.armedSeq = b.armSeq
	}
	return nil
}

// armAround arms every special tile in the 8-neighbourhood of c and returns the newly armed cells.
func (b *Board) armAround(c Coord) []Coord {
	var armed []Coord
	for _, n := range b.Neighbors8(c) {
		t := b.cells[b.index(n)]
		if t == nil || !t.IsSpecial() || t.Armed() {
			continue
		}
		b.armSeq++
		t.armedSeq = b.armSeq
		armed = append(armed, n)
	}
	return armed
}

// Each calls fn for every occupied cell in row-major order.
func (b *Board) Each(fn func(c Coord, t *Tile)) {
	for i, t := range b.cells {
		if t != nil {
			fn(b.coordAt(i), t)
		}
	}
}

func sortRowMajor(cs []Coord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Y != cs[j].Y {
			return cs[i].Y < cs[j].Y
		}
		return cs[i].X < cs[j].X
	})
}
