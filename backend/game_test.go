package main

import (
	"testing"
	"time"

	"github.com/yoavweinshall/pa2-connect/engine"
)

func humanGame() Game {
	settings := DefaultGameSettings()
	settings.RedType = PlayerHuman
	settings.YellowType = PlayerHuman
	g := NewGame(settings)
	g.Start()
	return g
}

func TestTryApplyMoveRequiresRunningGame(t *testing.T) {
	settings := DefaultGameSettings()
	g := NewGame(settings)
	if applied, _ := g.TryApplyMove(0); applied {
		t.Fatalf("expected move to be rejected before start")
	}
}

func TestTryApplyMoveRecordsHistory(t *testing.T) {
	g := humanGame()
	for _, col := range []engine.Move{3, 3, 4} {
		if applied, reason := g.TryApplyMove(col); !applied {
			t.Fatalf("move %d rejected: %s", col, reason)
		}
	}
	entries := g.History().All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(entries))
	}
	if entries[1].Move != 3 || entries[1].Row != 4 || entries[1].Player != engine.PlayerYellow {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}
	if entries[0].IsAi {
		t.Fatalf("human move recorded as AI")
	}
}

func TestTryApplyMoveRejectsFullColumn(t *testing.T) {
	g := humanGame()
	for i := 0; i < 6; i++ {
		if applied, reason := g.TryApplyMove(0); !applied {
			t.Fatalf("fill move %d rejected: %s", i, reason)
		}
	}
	applied, reason := g.TryApplyMove(0)
	if applied {
		t.Fatalf("expected full column to be rejected")
	}
	if reason != "Illegal move: column full" {
		t.Fatalf("unexpected reason %q", reason)
	}
	if applied, _ := g.TryApplyMove(9); applied {
		t.Fatalf("expected out-of-range column to be rejected")
	}
}

func TestGameDetectsWinner(t *testing.T) {
	g := humanGame()
	for _, col := range []engine.Move{0, 6, 1, 6, 2, 6, 3} {
		if applied, reason := g.TryApplyMove(col); !applied {
			t.Fatalf("move %d rejected: %s", col, reason)
		}
	}
	if g.Status() != StatusRedWon {
		t.Fatalf("expected red to win, got %s", statusToString(g.Status()))
	}
	if line := g.State().WinningLine(); len(line) != 4 {
		t.Fatalf("expected a 4-cell winning line, got %v", line)
	}
	if applied, _ := g.TryApplyMove(5); applied {
		t.Fatalf("expected no moves after the game ended")
	}
}

func TestGameDetectsDraw(t *testing.T) {
	settings := DefaultGameSettings()
	settings.Board = engine.Settings{Columns: 3, Rows: 2, WinLength: 3}
	settings.RedType = PlayerHuman
	settings.YellowType = PlayerHuman
	g := NewGame(settings)
	g.Start()
	// Bottom row R Y R, top row Y R Y.
	for _, col := range []engine.Move{0, 1, 2, 0, 1, 2} {
		if applied, reason := g.TryApplyMove(col); !applied {
			t.Fatalf("move %d rejected: %s", col, reason)
		}
	}
	if g.Status() != StatusDraw {
		t.Fatalf("expected a draw, got %s", statusToString(g.Status()))
	}
}

func TestRandomPlayersFinishGame(t *testing.T) {
	settings := DefaultGameSettings()
	settings.RedType = PlayerRandom
	settings.YellowType = PlayerRandom
	g := NewGame(settings)
	g.Start()
	limit := settings.Board.Columns * settings.Board.Rows
	for i := 0; i < limit && g.Status() == StatusRunning; i++ {
		if !g.Tick(false, nil) {
			t.Fatalf("random player failed to move at ply %d", i)
		}
	}
	if g.Status() == StatusRunning {
		t.Fatalf("expected the game to finish within %d plies", limit)
	}
}

func TestTickPublishesHintForHuman(t *testing.T) {
	withConfig(t, func(cfg *Config) { cfg.HintDepth = 2 })
	g := humanGame()
	var hints []hintPayload
	sink := func(p hintPayload) { hints = append(hints, p) }

	deadline := time.Now().Add(3 * time.Second)
	for len(hints) == 0 && time.Now().Before(deadline) {
		g.Tick(true, sink)
		time.Sleep(5 * time.Millisecond)
	}
	if len(hints) != 1 {
		t.Fatalf("expected one hint, got %d", len(hints))
	}
	hint := hints[0]
	if !hint.Active || hint.Depth != 2 || hint.NextPlayer != 1 || hint.MoveNumber != 0 {
		t.Fatalf("unexpected hint %+v", hint)
	}
	if !g.State().CanPlay(engine.Move(hint.Column)) {
		t.Fatalf("hint suggests an illegal column %d", hint.Column)
	}

	// No second search for the same turn.
	for i := 0; i < 5; i++ {
		g.Tick(true, sink)
	}
	if len(hints) != 1 {
		t.Fatalf("expected the hint to be published once per turn, got %d", len(hints))
	}
}
