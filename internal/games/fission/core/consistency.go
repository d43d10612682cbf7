package core

import (
	"fmt"

	"github.com/google/uuid"
)

// CorrectionKind classifies a repair made by CheckConsistency.
type CorrectionKind uint8

const (
	// CorrectionDestroyedTile: a cell still referenced a destroyed tile.
	CorrectionDestroyedTile CorrectionKind = iota
	// CorrectionDuplicateTile: the same tile was referenced by two cells.
	CorrectionDuplicateTile
	// CorrectionStaleEmpty: an occupied cell was listed as empty.
	CorrectionStaleEmpty
	// CorrectionMissingEmpty: a free cell was missing from the empty set.
	CorrectionMissingEmpty
	// CorrectionForeignEmpty: the empty set held a coordinate off the board.
	CorrectionForeignEmpty
	// CorrectionPlacedFlag: a tile's placement flag disagreed with the cells.
	CorrectionPlacedFlag
)

// String returns the correction name.
func (k CorrectionKind) String() string {
	switch k {
	case CorrectionDestroyedTile:
		return "destroyed_tile"
	case CorrectionDuplicateTile:
		return "duplicate_tile"
	case CorrectionStaleEmpty:
		return "stale_empty"
	case CorrectionMissingEmpty:
		return "missing_empty"
	case CorrectionForeignEmpty:
		return "foreign_empty"
	case CorrectionPlacedFlag:
		return "placed_flag"
	default:
		return "unknown"
	}
}

// Correction describes one divergence found and repaired.
type Correction struct {
	Kind   CorrectionKind
	At     Coord
	TileID uuid.UUID
}

func (c Correction) String() string {
	if c.TileID == uuid.Nil {
		return fmt.Sprintf("%s at %v", c.Kind, c.At)
	}
	return fmt.Sprintf("%s at %v (tile %s)", c.Kind, c.At, c.TileID)
}

// CheckConsistency recomputes occupancy from the cell array, repairs the empty set
// and drops references to destroyed or duplicated tiles. It returns every repair made;
// a second call with no mutation in between returns nothing.
func (b *Board) CheckConsistency() []Correction {
	var fixes []Correction
	seen := make(map[*Tile]struct{}, len(b.cells))

	for i, t := range b.cells {
		if t == nil {
			continue
		}
		c := b.coordAt(i)
		if t.destroyed {
			b.cells[i] = nil
			fixes = append(fixes, Correction{Kind: CorrectionDestroyedTile, At: c, TileID: t.ID})
			continue
		}
		if _, dup := seen[t]; dup {
			b.cells[i] = nil
			fixes = append(fixes, Correction{Kind: CorrectionDuplicateTile, At: c, TileID: t.ID})
			continue
		}
		seen[t] = struct{}{}
		if !t.placed {
			t.placed = true
			fixes = append(fixes, Correction{Kind: CorrectionPlacedFlag, At: c, TileID: t.ID})
		}
	}

	for c := range b.empty {
		if !b.InBounds(c) {
			delete(b.empty, c)
			fixes = append(fixes, Correction{Kind: CorrectionForeignEmpty, At: c})
		}
	}

	for i, t := range b.cells {
		c := b.coordAt(i)
		_, listed := b.empty[c]
		switch {
		case t != nil && listed:
			delete(b.empty, c)
			fixes = append(fixes, Correction{Kind: CorrectionStaleEmpty, At: c, TileID: t.ID})
		case t == nil && !listed:
			b.empty[c] = struct{}{}
			fixes = append(fixes, Correction{Kind: CorrectionMissingEmpty, At: c})
		}
	}
	return fixes
}
