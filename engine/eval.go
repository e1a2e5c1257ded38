package engine

import "fmt"

// WinScore is the magnitude returned for a decided game. Settings.Validate
// keeps every partial evaluation below it.
const WinScore = 100000.0

// Evaluator scores a position from Red's perspective: higher favours Red,
// lower favours Yellow.
type Evaluator func(pos Position) float64

const (
	EvaluatorStandard = "standard"
	EvaluatorZero     = "zero"
)

// EvaluatorByName resolves the evaluator names accepted in configuration.
func EvaluatorByName(name string) (Evaluator, error) {
	switch name {
	case "", EvaluatorStandard:
		return Evaluate, nil
	case EvaluatorZero:
		return ZeroEvaluator, nil
	default:
		return nil, fmt.Errorf("unknown evaluator %q", name)
	}
}

// ZeroEvaluator scores every position 0, leaving only immediate wins to
// distinguish moves.
func ZeroEvaluator(Position) float64 {
	return 0
}

// Evaluate is the standard evaluator. A won position scores ±WinScore.
// Otherwise each occupied cell opens one window of WinLength cells per
// direction. A window holding pieces of a single color contributes
// count^count, positive for Red and negative for Yellow; a window holding
// both colors, or running off the board, contributes nothing. Each
// (start, direction) window is counted once per call.
func Evaluate(pos Position) float64 {
	if winner, ok := pos.Winner(); ok {
		if winner == PlayerRed {
			return WinScore
		}
		return -WinScore
	}
	board := pos.Board()
	winLength := pos.Settings().WinLength
	cols := board.Cols()
	rows := board.Rows()
	seen := make([]bool, cols*rows*len(directions))

	value := 0.0
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if board.At(col, row) == CellEmpty {
				continue
			}
			for d := 0; d < len(directions); d++ {
				dx := directions[d][0]
				dy := directions[d][1]
				if !windowFits(board, col, row, dx, dy, winLength) {
					continue
				}
				key := (row*cols+col)*len(directions) + d
				if seen[key] {
					continue
				}
				seen[key] = true
				value += scoreWindow(board, col, row, dx, dy, winLength)
			}
		}
	}
	return value
}

func windowFits(board Board, col, row, dx, dy, length int) bool {
	endCol := col + (length-1)*dx
	endRow := row + (length-1)*dy
	return board.InBounds(col, row) && board.InBounds(endCol, endRow)
}

func scoreWindow(board Board, col, row, dx, dy, length int) float64 {
	red := 0
	yellow := 0
	for i := 0; i < length; i++ {
		switch board.At(col+i*dx, row+i*dy) {
		case CellRed:
			red++
		case CellYellow:
			yellow++
		}
	}
	switch {
	case red > 0 && yellow > 0:
		return 0
	case red > 0:
		return runValue(red)
	case yellow > 0:
		return -runValue(yellow)
	default:
		return 0
	}
}

// runValue is n^n: 1, 4, 27 for runs of 1, 2, 3.
func runValue(n int) float64 {
	value := 1.0
	for i := 0; i < n; i++ {
		value *= float64(n)
	}
	return value
}
