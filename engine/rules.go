package engine

// directions are (dcol, drow) steps: horizontal, vertical and both diagonals.
var directions = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// lineThrough reports the aligned run of at least winLength pieces that
// passes through (col, row), if any.
func lineThrough(board Board, col, row, winLength int) ([]Coord, bool) {
	cell := board.At(col, row)
	if cell == CellEmpty {
		return nil, false
	}
	for i := 0; i < 4; i++ {
		dx := directions[i][0]
		dy := directions[i][1]
		back := countDirection(board, col, row, -dx, -dy, cell)
		forward := countDirection(board, col, row, dx, dy, cell)
		if back+forward+1 < winLength {
			continue
		}
		line := make([]Coord, 0, back+forward+1)
		for step := -back; step <= forward; step++ {
			line = append(line, Coord{Col: col + step*dx, Row: row + step*dy})
		}
		return line, true
	}
	return nil, false
}

func countDirection(board Board, col, row, dx, dy int, cell Cell) int {
	count := 0
	x := col + dx
	y := row + dy
	for board.InBounds(x, y) && board.At(x, y) == cell {
		count++
		x += dx
		y += dy
	}
	return count
}

// findWinner scans the whole board. Used when a position is built from an
// arbitrary layout rather than by playing moves.
func findWinner(board Board, winLength int) (PlayerColor, []Coord, bool) {
	for row := 0; row < board.Rows(); row++ {
		for col := 0; col < board.Cols(); col++ {
			if board.At(col, row) == CellEmpty {
				continue
			}
			if line, ok := lineThrough(board, col, row, winLength); ok {
				player, _ := PlayerFromCell(board.At(col, row))
				return player, line, true
			}
		}
	}
	return PlayerRed, nil, false
}
