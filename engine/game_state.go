package engine

import (
	"fmt"
	"strings"
)

type PlayerColor int

const (
	PlayerRed PlayerColor = iota
	PlayerYellow
)

func (p PlayerColor) Opponent() PlayerColor {
	if p == PlayerRed {
		return PlayerYellow
	}
	return PlayerRed
}

func (p PlayerColor) String() string {
	if p == PlayerRed {
		return "red"
	}
	return "yellow"
}

// Position is what the search consumes. Implementations must make Clone a
// deep copy: mutating the clone never affects the receiver.
type Position interface {
	Clone() Position
	LegalActions() []Move
	Play(move Move) error
	IsTerminal() bool
	Winner() (PlayerColor, bool)
	ToMove() PlayerColor
	Board() Board
	Settings() Settings
}

// Coord addresses a single cell.
type Coord struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// GameState is the Connect-X position: a board, the side to move and the
// winner once four (or WinLength) pieces line up.
type GameState struct {
	settings    Settings
	board       Board
	toMove      PlayerColor
	moveCount   int
	hasWinner   bool
	winner      PlayerColor
	winningLine []Coord
}

var _ Position = (*GameState)(nil)

func NewGameState(settings Settings) *GameState {
	s := &GameState{}
	s.Reset(settings)
	return s
}

func (s *GameState) Reset(settings Settings) {
	s.settings = settings
	s.board = NewBoard(settings.Columns, settings.Rows)
	s.toMove = PlayerRed
	s.moveCount = 0
	s.hasWinner = false
	s.winner = PlayerRed
	s.winningLine = nil
}

// ParseGameState builds a position from rows listed top first, using 'R', 'Y'
// and '.' for cells. Pieces must rest on the bottom row or on another piece.
func ParseGameState(settings Settings, toMove PlayerColor, rows ...string) (*GameState, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if len(rows) != settings.Rows {
		return nil, fmt.Errorf("%w: got %d rows, want %d", ErrInvalidSettings, len(rows), settings.Rows)
	}
	s := NewGameState(settings)
	s.toMove = toMove
	for row, line := range rows {
		if len(line) != settings.Columns {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidSettings, row, len(line), settings.Columns)
		}
		for col := 0; col < len(line); col++ {
			cell, err := cellFromRune(line[col])
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", row, col, err)
			}
			if cell == CellEmpty {
				continue
			}
			s.board.Set(col, row, cell)
			s.moveCount++
		}
	}
	for col := 0; col < settings.Columns; col++ {
		for row := 0; row < settings.Rows-1; row++ {
			if s.board.At(col, row) != CellEmpty && s.board.At(col, row+1) == CellEmpty {
				return nil, fmt.Errorf("%w at col %d row %d", ErrFloatingPiece, col, row)
			}
		}
	}
	if winner, line, ok := findWinner(s.board, settings.WinLength); ok {
		s.hasWinner = true
		s.winner = winner
		s.winningLine = line
	}
	return s, nil
}

// Clone satisfies Position; use Copy when the concrete type is needed.
func (s *GameState) Clone() Position {
	return s.Copy()
}

func (s *GameState) Copy() *GameState {
	clone := *s
	clone.board = s.board.Clone()
	clone.winningLine = append([]Coord(nil), s.winningLine...)
	return &clone
}

func (s *GameState) CanPlay(move Move) bool {
	if !move.IsValid(s.board.Cols()) {
		return false
	}
	return s.board.At(int(move), 0) == CellEmpty
}

// LegalActions lists the columns that are not full, in ascending order.
func (s *GameState) LegalActions() []Move {
	moves := make([]Move, 0, s.board.Cols())
	for col := 0; col < s.board.Cols(); col++ {
		if s.CanPlay(Move(col)) {
			moves = append(moves, Move(col))
		}
	}
	return moves
}

func (s *GameState) Play(move Move) error {
	if s.hasWinner {
		return ErrGameOver
	}
	if !move.IsValid(s.board.Cols()) {
		return fmt.Errorf("play %d: %w", move, ErrOutOfBounds)
	}
	col := int(move)
	for row := s.board.Rows() - 1; row >= 0; row-- {
		if s.board.At(col, row) != CellEmpty {
			continue
		}
		s.board.Set(col, row, CellFromPlayer(s.toMove))
		s.moveCount++
		if line, ok := lineThrough(s.board, col, row, s.settings.WinLength); ok {
			s.hasWinner = true
			s.winner = s.toMove
			s.winningLine = line
		}
		s.toMove = s.toMove.Opponent()
		return nil
	}
	return fmt.Errorf("play %d: %w", move, ErrColumnFull)
}

func (s *GameState) IsTerminal() bool {
	if s.hasWinner {
		return true
	}
	for col := 0; col < s.board.Cols(); col++ {
		if s.board.At(col, 0) == CellEmpty {
			return false
		}
	}
	return true
}

func (s *GameState) Winner() (PlayerColor, bool) {
	return s.winner, s.hasWinner
}

func (s *GameState) WinningLine() []Coord {
	return append([]Coord(nil), s.winningLine...)
}

func (s *GameState) ToMove() PlayerColor {
	return s.toMove
}

// Board returns a copy of the grid.
func (s *GameState) Board() Board {
	return s.board.Clone()
}

func (s *GameState) Settings() Settings {
	return s.settings
}

func (s *GameState) MoveCount() int {
	return s.moveCount
}

func (s *GameState) String() string {
	return strings.Join(s.board.Strings(), "\n")
}
