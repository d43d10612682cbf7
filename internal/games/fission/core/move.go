package core

import "fmt"

// MoveOutcome classifies a requested move.
type MoveOutcome uint8

const (
	MoveRejected MoveOutcome = iota
	MoveRelocate
	MoveMerge
)

// String returns the outcome name.
func (o MoveOutcome) String() string {
	switch o {
	case MoveRejected:
		return "rejected"
	case MoveRelocate:
		return "relocate"
	case MoveMerge:
		return "merge"
	default:
		return "unknown"
	}
}

// RejectReason explains a rejected move.
type RejectReason uint8

const (
	RejectNone RejectReason = iota
	RejectOutOfBounds
	RejectNoTile
	RejectSameCell
	RejectNotAligned
	RejectPathBlocked
	RejectIncompatible
)

// String returns a short description of the reason.
func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectOutOfBounds:
		return "out of bounds"
	case RejectNoTile:
		return "no tile at source"
	case RejectSameCell:
		return "source equals destination"
	case RejectNotAligned:
		return "not in the same row or column"
	case RejectPathBlocked:
		return "path blocked"
	case RejectIncompatible:
		return "destination tile is incompatible"
	default:
		return "unknown"
	}
}

// MovePlan is the classification of a move before it is applied.
type MovePlan struct {
	From    Coord
	To      Coord
	Outcome MoveOutcome
	Reason  RejectReason
}

// MergeResult reports an applied merge.
type MergeResult struct {
	At    Coord
	Value int
	Added int
}

// PlanMove classifies a move from one cell to another without mutating the board.
// Moves travel in a straight line along a row or column; every cell strictly between
// the endpoints must be empty.
func (b *Board) PlanMove(from, to Coord) MovePlan {
	p := MovePlan{From: from, To: to}
	reject := func(r RejectReason) MovePlan {
		p.Outcome = MoveRejected
		p.Reason = r
		return p
	}

	if !b.InBounds(from) || !b.InBounds(to) {
		return reject(RejectOutOfBounds)
	}
	src := b.cells[b.index(from)]
	if src == nil {
		return reject(RejectNoTile)
	}
	if from == to {
		return reject(RejectSameCell)
	}
	if !from.Aligned(to) {
		return reject(RejectNotAligned)
	}

	dx, dy := sign(to.X-from.X), sign(to.Y-from.Y)
	for c := from.Add(dx, dy); c != to; c = c.Add(dx, dy) {
		if b.cells[b.index(c)] != nil {
			return reject(RejectPathBlocked)
		}
	}

	dst := b.cells[b.index(to)]
	switch {
	case dst == nil:
		p.Outcome = MoveRelocate
	case src.CanMergeWith(dst):
		p.Outcome = MoveMerge
	default:
		return reject(RejectIncompatible)
	}
	return p
}

// ResolveMove plans and applies a move in one step.
func (b *Board) ResolveMove(from, to Coord) (MoveOutcome, error) {
	p := b.PlanMove(from, to)
	switch p.Outcome {
	case MoveRelocate:
		if err := b.Move(from, to); err != nil {
			return MoveRejected, err
		}
	case MoveMerge:
		if _, err := b.merge(from, to); err != nil {
			return MoveRejected, err
		}
	}
	return p.Outcome, nil
}

// merge folds the tile at from into the tile at to and destroys the source.
func (b *Board) merge(from, to Coord) (MergeResult, error) {
	src, ok := b.TileAt(from)
	if !ok {
		return MergeResult{}, fmt.Errorf("merge %v -> %v: %w", from, to, ErrCellEmpty)
	}
	dst, ok := b.TileAt(to)
	if !ok {
		return MergeResult{}, fmt.Errorf("merge %v -> %v: %w", from, to, ErrCellEmpty)
	}
	if !src.CanMergeWith(dst) {
		return MergeResult{}, fmt.Errorf("merge %v -> %v: %w", from, to, ErrCellOccupied)
	}
	added := src.Value
	if _, err := b.Clear(from); err != nil {
		return MergeResult{}, err
	}
	dst.Value += added
	b.setLastMerged(to)
	return MergeResult{At: to, Value: dst.Value, Added: added}, nil
}
