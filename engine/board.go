package engine

import "fmt"

type Cell int

const (
	CellEmpty Cell = iota
	CellRed
	CellYellow
)

// Board is a grid addressed as (col, row) with row 0 at
// the top. Pieces fall towards the highest row index.
type Board struct {
	cols  int
	rows  int
	cells []Cell
}

func NewBoard(cols, rows int) Board {
	b := Board{}
	b.Reset(cols, rows)
	return b
}

func (b *Board) Reset(cols, rows int) {
	b.cols = cols
	b.rows = rows
	b.cells = make([]Cell, cols*rows)
}

func (b Board) At(col, row int) Cell {
	return b.cells[b.index(col, row)]
}

func (b *Board) Set(col, row int, value Cell) {
	b.cells[b.index(col, row)] = value
}

func (b Board) InBounds(col, row int) bool {
	return col >= 0 && row >= 0 && col < b.cols && row < b.rows
}

func (b Board) IsEmpty(col, row int) bool {
	return b.InBounds(col, row) && b.At(col, row) == CellEmpty
}

func (b Board) CountEmpty() int {
	count := 0
	for _, cell := range b.cells {
		if cell == CellEmpty {
			count++
		}
	}
	return count
}

func (b Board) Cols() int {
	return b.cols
}

func (b Board) Rows() int {
	return b.rows
}

func (b Board) Clone() Board {
	clone := Board{cols: b.cols, rows: b.rows}
	clone.cells = make([]Cell, len(b.cells))
	copy(clone.cells, b.cells)
	return clone
}

// Equal reports whether both boards have the same shape and contents.
func (b Board) Equal(other Board) bool {
	if b.cols != other.cols || b.rows != other.rows || len(b.cells) != len(other.cells) {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Strings renders the board top row first using 'R', 'Y' and '.'.
func (b Board) Strings() []string {
	out := make([]string, b.rows)
	line := make([]byte, b.cols)
	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			line[col] = b.At(col, row).Rune()
		}
		out[row] = string(line)
	}
	return out
}

func (b Board) index(col, row int) int {
	return row*b.cols + col
}

func (c Cell) String() string {
	switch c {
	case CellRed:
		return "Red"
	case CellYellow:
		return "Yellow"
	default:
		return "Empty"
	}
}

func (c Cell) Rune() byte {
	switch c {
	case CellRed:
		return 'R'
	case CellYellow:
		return 'Y'
	default:
		return '.'
	}
}

func cellFromRune(r byte) (Cell, error) {
	switch r {
	case 'R', 'r':
		return CellRed, nil
	case 'Y', 'y':
		return CellYellow, nil
	case '.', ' ', '_':
		return CellEmpty, nil
	default:
		return CellEmpty, fmt.Errorf("unknown cell %q", r)
	}
}

func CellFromPlayer(player PlayerColor) Cell {
	if player == PlayerRed {
		return CellRed
	}
	return CellYellow
}

func PlayerFromCell(cell Cell) (PlayerColor, error) {
	switch cell {
	case CellRed:
		return PlayerRed, nil
	case CellYellow:
		return PlayerYellow, nil
	default:
		return PlayerRed, fmt.Errorf("empty cell has no player")
	}
}
