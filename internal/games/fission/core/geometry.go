package core

import (
	"errors"
	"math"
)

// Vec is a position in world space.
type Vec struct {
	X float64
	Y float64
}

// Geometry maps grid cells to world positions.
// Cell (0,0) covers [Origin, Origin+CellSize).
type Geometry struct {
	Origin Vec
	CellW  float64
	CellH  float64
}

// DefaultGeometry maps each cell to a unit square at the origin.
func DefaultGeometry() Geometry {
	return Geometry{CellW: 1, CellH: 1}
}

// Geometry returns the board's world mapping.
func (b *Board) Geometry() Geometry {
	return b.geom
}

// SetGeometry replaces the board's world mapping. Cell sizes must be positive.
func (b *Board) SetGeometry(g Geometry) error {
	if g.CellW <= 0 || g.CellH <= 0 {
		return errors.New("geometry: cell size must be positive")
	}
	b.geom = g
	return nil
}

// GridToWorld returns the world position of the centre of cell c.
func (b *Board) GridToWorld(c Coord) Vec {
	return Vec{
		X: b.geom.Origin.X + (float64(c.X)+0.5)*b.geom.CellW,
		Y: b.geom.Origin.Y + (float64(c.Y)+0.5)*b.geom.CellH,
	}
}

// WorldToGrid returns the cell containing p and whether that cell is on the board.
func (b *Board) WorldToGrid(p Vec) (Coord, bool) {
	c := Coord{
		X: int(math.Floor((p.X - b.geom.Origin.X) / b.geom.CellW)),
		Y: int(math.Floor((p.Y - b.geom.Origin.Y) / b.geom.CellH)),
	}
	return c, b.InBounds(c)
}
