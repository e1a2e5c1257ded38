package engine

import "lukechampine.com/frand"

// RandomMove picks a legal move uniformly at random. It returns NoMove when
// the position has no legal move.
func RandomMove(pos Position) Move {
	moves := pos.LegalActions()
	if len(moves) == 0 {
		return NoMove
	}
	return moves[frand.Intn(len(moves))]
}
