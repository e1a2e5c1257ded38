package engine

// Move is the column a piece is dropped into.
type Move int

// NoMove is returned when a search has no designated move, i.e. at depth 0 or
// from a terminal position.
const NoMove Move = -1

func (m Move) IsValid(cols int) bool {
	return m >= 0 && int(m) < cols
}
