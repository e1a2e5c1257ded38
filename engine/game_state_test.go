package engine

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, settings Settings, toMove PlayerColor, rows ...string) *GameState {
	t.Helper()
	state, err := ParseGameState(settings, toMove, rows...)
	if err != nil {
		t.Fatalf("parse position: %v", err)
	}
	return state
}

func TestPlayDropsToLowestEmptyRowAndSwitchesSide(t *testing.T) {
	state := NewGameState(DefaultSettings())
	if err := state.Play(3); err != nil {
		t.Fatalf("play: %v", err)
	}
	if err := state.Play(3); err != nil {
		t.Fatalf("play: %v", err)
	}
	board := state.Board()
	if got := board.At(3, 5); got != CellRed {
		t.Fatalf("expected red at bottom of column 3, got %s", got)
	}
	if got := board.At(3, 4); got != CellYellow {
		t.Fatalf("expected yellow stacked on red, got %s", got)
	}
	if state.ToMove() != PlayerRed {
		t.Fatalf("expected red to move after two plies, got %s", state.ToMove())
	}
	if state.MoveCount() != 2 {
		t.Fatalf("expected 2 moves, got %d", state.MoveCount())
	}
}

func TestLegalActionsSkipFullColumns(t *testing.T) {
	state := mustParse(t, DefaultSettings(), PlayerRed,
		"R......",
		"Y......",
		"R......",
		"Y......",
		"R.....Y",
		"Y.....R",
	)
	moves := state.LegalActions()
	want := []Move{1, 2, 3, 4, 5, 6}
	if len(moves) != len(want) {
		t.Fatalf("expected %v, got %v", want, moves)
	}
	for i := range want {
		if moves[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, moves)
		}
	}
	if state.CanPlay(0) {
		t.Fatalf("column 0 is full")
	}
	if err := state.Play(0); !errors.Is(err, ErrColumnFull) {
		t.Fatalf("expected ErrColumnFull, got %v", err)
	}
	if err := state.Play(7); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	state := mustParse(t, DefaultSettings(), PlayerYellow,
		".......",
		".......",
		".......",
		".......",
		"...Y...",
		"..RR...",
	)
	before := state.Board()
	clone := state.Clone()
	for _, move := range clone.LegalActions() {
		if err := clone.Play(move); err != nil {
			t.Fatalf("play on clone: %v", err)
		}
	}
	if !state.Board().Equal(before) {
		t.Fatalf("playing on a clone changed the original board:\n%s", state)
	}
	if state.ToMove() != PlayerYellow {
		t.Fatalf("playing on a clone changed the side to move")
	}
	if state.MoveCount() != 3 {
		t.Fatalf("playing on a clone changed the move count: %d", state.MoveCount())
	}
}

func TestBoardAccessorReturnsCopy(t *testing.T) {
	state := NewGameState(DefaultSettings())
	board := state.Board()
	board.Set(0, 5, CellRed)
	if state.Board().At(0, 5) != CellEmpty {
		t.Fatalf("mutating the returned board leaked into the position")
	}
}

func TestWinDetectionAllDirections(t *testing.T) {
	cases := []struct {
		name string
		rows []string
		want PlayerColor
	}{
		{
			name: "horizontal",
			rows: []string{".......", ".......", ".......", ".......", "YYY....", "RRRR..."},
			want: PlayerRed,
		},
		{
			name: "vertical",
			rows: []string{".......", ".......", "Y......", "Y......", "Y.R....", "YRR.R.."},
			want: PlayerYellow,
		},
		{
			name: "rising diagonal",
			rows: []string{".......", ".......", "...R...", "..RY...", ".RYY...", "RYYR..."},
			want: PlayerRed,
		},
		{
			name: "falling diagonal",
			rows: []string{".......", ".......", "Y......", "RY.....", "RRY....", "RRYY..."},
			want: PlayerYellow,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := mustParse(t, DefaultSettings(), PlayerRed, tc.rows...)
			winner, ok := state.Winner()
			if !ok {
				t.Fatalf("expected a winner")
			}
			if winner != tc.want {
				t.Fatalf("expected %s to win, got %s", tc.want, winner)
			}
			if !state.IsTerminal() {
				t.Fatalf("won position must be terminal")
			}
			if len(state.WinningLine()) < 4 {
				t.Fatalf("expected a winning line of 4, got %v", state.WinningLine())
			}
		})
	}
}

func TestPlayDetectsWinAndRejectsFurtherMoves(t *testing.T) {
	state := NewGameState(DefaultSettings())
	for _, move := range []Move{0, 6, 1, 6, 2, 6, 3} {
		if err := state.Play(move); err != nil {
			t.Fatalf("play %d: %v", move, err)
		}
	}
	winner, ok := state.Winner()
	if !ok || winner != PlayerRed {
		t.Fatalf("expected red to win, got %s (%v)", winner, ok)
	}
	if err := state.Play(4); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
}

func TestFullBoardWithoutLineIsDraw(t *testing.T) {
	state := mustParse(t, DefaultSettings(), PlayerRed, drawRows...)
	if !state.IsTerminal() {
		t.Fatalf("full board must be terminal")
	}
	if _, ok := state.Winner(); ok {
		t.Fatalf("expected no winner on the draw board")
	}
	if len(state.LegalActions()) != 0 {
		t.Fatalf("expected no legal actions")
	}
}

func TestParseGameStateRejectsBadInput(t *testing.T) {
	settings := DefaultSettings()
	if _, err := ParseGameState(settings, PlayerRed, "......."); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings for short board, got %v", err)
	}
	floating := []string{".......", ".......", ".......", "...R...", ".......", "......."}
	if _, err := ParseGameState(settings, PlayerRed, floating...); !errors.Is(err, ErrFloatingPiece) {
		t.Fatalf("expected ErrFloatingPiece, got %v", err)
	}
	unknown := []string{".......", ".......", ".......", ".......", ".......", "...X..."}
	if _, err := ParseGameState(settings, PlayerRed, unknown...); err == nil {
		t.Fatalf("expected an error for an unknown cell")
	}
	if _, err := ParseGameState(Settings{Columns: 3, Rows: 3, WinLength: 4}, PlayerRed, "...", "...", "..."); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings for an unwinnable geometry, got %v", err)
	}
}

// drawRows fills a 7x6 board without any line of four.
var drawRows = []string{
	"RYRYRYR",
	"RYRYRYR",
	"YRYRYRY",
	"YRYRYRY",
	"RYRYRYR",
	"RYRYRYR",
}
