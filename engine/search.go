package engine

import (
	"fmt"
	"math"
)

// SearchStats counts the work done by one search call.
type SearchStats struct {
	Nodes   int64
	Leaves  int64
	Cutoffs int64
}

// Minimax runs plain minimax to depth plies and returns the chosen move with
// its score. Red maximizes and Yellow minimizes; the root routine is picked
// from the side to move. stats may be nil.
func Minimax(pos Position, depth int, eval Evaluator, stats *SearchStats) (Move, float64) {
	if stats == nil {
		stats = &SearchStats{}
	}
	if pos.ToMove() == PlayerRed {
		return minimaxMax(pos, depth, eval, stats)
	}
	return minimaxMin(pos, depth, eval, stats)
}

func minimaxMax(pos Position, depth int, eval Evaluator, stats *SearchStats) (Move, float64) {
	stats.Nodes++
	if depth <= 0 || pos.IsTerminal() {
		stats.Leaves++
		return NoMove, eval(pos)
	}
	bestMove := NoMove
	bestValue := math.Inf(-1)
	for _, move := range legalMoves(pos) {
		next := playOn(pos, move)
		if next.IsTerminal() {
			stats.Leaves++
			return move, eval(next)
		}
		_, value := minimaxMin(next, depth-1, eval, stats)
		if value > bestValue {
			bestMove, bestValue = move, value
		}
	}
	return bestMove, bestValue
}

func minimaxMin(pos Position, depth int, eval Evaluator, stats *SearchStats) (Move, float64) {
	stats.Nodes++
	if depth <= 0 || pos.IsTerminal() {
		stats.Leaves++
		return NoMove, eval(pos)
	}
	bestMove := NoMove
	bestValue := math.Inf(1)
	for _, move := range legalMoves(pos) {
		next := playOn(pos, move)
		if next.IsTerminal() {
			stats.Leaves++
			return move, eval(next)
		}
		_, value := minimaxMax(next, depth-1, eval, stats)
		if value < bestValue {
			bestMove, bestValue = move, value
		}
	}
	return bestMove, bestValue
}

// AlphaBeta is Minimax with alpha-beta pruning. It returns the same score as
// Minimax for the same arguments, and the same move: cutoffs only fire when
// alpha strictly exceeds beta.
func AlphaBeta(pos Position, depth int, eval Evaluator, stats *SearchStats) (Move, float64) {
	if stats == nil {
		stats = &SearchStats{}
	}
	alpha := math.Inf(-1)
	beta := math.Inf(1)
	if pos.ToMove() == PlayerRed {
		return alphaBetaMax(pos, depth, eval, alpha, beta, stats)
	}
	return alphaBetaMin(pos, depth, eval, alpha, beta, stats)
}

func alphaBetaMax(pos Position, depth int, eval Evaluator, alpha, beta float64, stats *SearchStats) (Move, float64) {
	stats.Nodes++
	if depth <= 0 || pos.IsTerminal() {
		stats.Leaves++
		return NoMove, eval(pos)
	}
	bestMove := NoMove
	bestValue := math.Inf(-1)
	for _, move := range legalMoves(pos) {
		next := playOn(pos, move)
		if next.IsTerminal() {
			stats.Leaves++
			return move, eval(next)
		}
		_, value := alphaBetaMin(next, depth-1, eval, alpha, beta, stats)
		if value > bestValue {
			bestMove, bestValue = move, value
		}
		alpha = math.Max(alpha, bestValue)
		if alpha > beta {
			stats.Cutoffs++
			return bestMove, bestValue
		}
	}
	return bestMove, bestValue
}

func alphaBetaMin(pos Position, depth int, eval Evaluator, alpha, beta float64, stats *SearchStats) (Move, float64) {
	stats.Nodes++
	if depth <= 0 || pos.IsTerminal() {
		stats.Leaves++
		return NoMove, eval(pos)
	}
	bestMove := NoMove
	bestValue := math.Inf(1)
	for _, move := range legalMoves(pos) {
		next := playOn(pos, move)
		if next.IsTerminal() {
			stats.Leaves++
			return move, eval(next)
		}
		_, value := alphaBetaMax(next, depth-1, eval, alpha, beta, stats)
		if value < bestValue {
			bestMove, bestValue = move, value
		}
		beta = math.Min(beta, bestValue)
		if alpha > beta {
			stats.Cutoffs++
			return bestMove, bestValue
		}
	}
	return bestMove, bestValue
}

// legalMoves panics on a non-terminal position without moves; callers have
// already handled terminal positions.
func legalMoves(pos Position) []Move {
	moves := pos.LegalActions()
	if len(moves) == 0 {
		panic("engine: no legal moves in non-terminal position")
	}
	return moves
}

func playOn(pos Position, move Move) Position {
	next := pos.Clone()
	if err := next.Play(move); err != nil {
		panic(fmt.Sprintf("engine: legal move %d rejected: %v", move, err))
	}
	return next
}
