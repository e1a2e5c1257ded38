package engine

import "fmt"

const (
	DefaultColumns   = 7
	DefaultRows      = 6
	DefaultWinLength = 4

	MaxColumns = 16
	MaxRows    = 16
)

// Settings holds the board geometry shared by positions, evaluation and
// search.
type Settings struct {
	Columns   int `json:"columns"`
	Rows      int `json:"rows"`
	WinLength int `json:"win_length"`
}

func DefaultSettings() Settings {
	return Settings{
		Columns:   DefaultColumns,
		Rows:      DefaultRows,
		WinLength: DefaultWinLength,
	}
}

// Validate rejects boards that do not fit in memory limits and geometries
// where a non-terminal evaluation could reach WinScore.
func (s Settings) Validate() error {
	if s.Columns <= 0 || s.Rows <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSettings, s.Columns, s.Rows)
	}
	if s.Columns > MaxColumns || s.Rows > MaxRows {
		return fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrInvalidSettings, s.Columns, s.Rows, MaxColumns, MaxRows)
	}
	if s.WinLength < 2 {
		return fmt.Errorf("%w: win length %d", ErrInvalidSettings, s.WinLength)
	}
	if s.WinLength > s.Columns && s.WinLength > s.Rows {
		return fmt.Errorf("%w: win length %d does not fit %dx%d", ErrInvalidSettings, s.WinLength, s.Columns, s.Rows)
	}
	if bound := MaxPartialScore(s); bound >= WinScore {
		return fmt.Errorf("%w: partial scores up to %.0f reach the win score on %dx%d win %d",
			ErrInvalidSettings, bound, s.Columns, s.Rows, s.WinLength)
	}
	return nil
}

// MaxPartialScore bounds |Evaluate| on a position without a winner: every
// window is scored at most once and, with no winner, holds at most
// WinLength-1 pieces of one color.
func MaxPartialScore(s Settings) float64 {
	return float64(windowCount(s)) * runValue(s.WinLength-1)
}

func windowCount(s Settings) int {
	total := 0
	for _, d := range directions {
		cols := s.Columns - (s.WinLength-1)*abs(d[0])
		rows := s.Rows - (s.WinLength-1)*abs(d[1])
		if cols > 0 && rows > 0 {
			total += cols * rows
		}
	}
	return total
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
