package core

import "fmt"

// Coord represents a cell position on the board.
// X increases to the right, Y increases downward (screen coordinates).
type Coord struct {
	X int
	Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns a new Coord offset by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Manhattan returns the Manhattan distance to another coordinate.
func (c Coord) Manhattan(other Coord) int {
	dx := c.X - other.X
	dy := c.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Adjacent8 reports whether other is one of the eight cells surrounding c.
func (c Coord) Adjacent8(other Coord) bool {
	if c == other {
		return false
	}
	dx := c.X - other.X
	dy := c.Y - other.Y
	return dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1
}

// Aligned reports whether c and other share a row or a column.
func (c Coord) Aligned(other Coord) bool {
	return c.X == other.X || c.Y == other.Y
}

// offsets4 are the orthogonal neighbour offsets in N, E, S, W order.
var offsets4 = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// offsets8 extend offsets4 with the diagonals NE, SE, SW, NW.
// Split placement and special-tile effects depend on this order.
var offsets8 = [8][2]int{
	{0, -1}, {1, 0}, {0, 1}, {-1, 0},
	{1, -1}, {1, 1}, {-1, 1}, {-1, -1},
}

// sign returns -1, 0 or 1.
func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
