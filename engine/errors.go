package engine

import "errors"

var (
	ErrOutOfBounds     = errors.New("column out of bounds")
	ErrColumnFull      = errors.New("column full")
	ErrGameOver        = errors.New("game over")
	ErrInvalidSettings = errors.New("invalid board settings")
	ErrFloatingPiece   = errors.New("piece without support")
)
