package core

import "errors"

// Board mutation errors. Callers wrap them with the offending coordinate.
var (
	ErrOutOfBounds       = errors.New("coordinate out of bounds")
	ErrCellOccupied      = errors.New("cell already occupied")
	ErrCellEmpty         = errors.New("cell is empty")
	ErrNilTile           = errors.New("nil tile")
	ErrTileAlreadyPlaced = errors.New("tile already placed on the board")
	ErrTileDestroyed     = errors.New("tile was destroyed")
	ErrNotOverThreshold  = errors.New("tile value does not exceed the split threshold")
	ErrNotSpecial        = errors.New("tile has no ability")
)
