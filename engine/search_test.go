package engine

import (
	"fmt"
	"testing"
)

type algorithm struct {
	name string
	run  func(Position, int, Evaluator, *SearchStats) (Move, float64)
}

var algorithms = []algorithm{
	{name: "minimax", run: Minimax},
	{name: "alphabeta", run: AlphaBeta},
}

func TestSearchTakesImmediateWin(t *testing.T) {
	redToMove := mustParse(t, DefaultSettings(), PlayerRed,
		".......",
		".......",
		".......",
		".......",
		"YYY....",
		"RRR....",
	)
	// Red threatens column 3 too, but yellow moves first and wins in column 6.
	yellowToMove := mustParse(t, DefaultSettings(), PlayerYellow,
		".......",
		".......",
		".......",
		"......Y",
		"R.....Y",
		"RRR...Y",
	)
	cases := []struct {
		name  string
		state *GameState
		want  Move
	}{
		{name: "red", state: redToMove, want: 3},
		{name: "yellow", state: yellowToMove, want: 6},
	}
	for _, tc := range cases {
		for _, alg := range algorithms {
			for _, eval := range []Evaluator{Evaluate, ZeroEvaluator} {
				for depth := 1; depth <= 4; depth++ {
					move, _ := alg.run(tc.state, depth, eval, nil)
					if move != tc.want {
						t.Fatalf("%s/%s depth %d: expected winning move %d, got %d", tc.name, alg.name, depth, tc.want, move)
					}
				}
			}
		}
	}
}

func TestSearchBlocksOpponentWin(t *testing.T) {
	state := mustParse(t, DefaultSettings(), PlayerRed,
		".......",
		".......",
		".......",
		".......",
		"......R",
		"YYY..RR",
	)
	for _, alg := range algorithms {
		for depth := 2; depth <= 4; depth++ {
			move, score := alg.run(state, depth, Evaluate, nil)
			if move != 3 {
				t.Fatalf("%s depth %d: expected blocking move 3, got %d (score %f)", alg.name, depth, move, score)
			}
			if score <= -WinScore {
				t.Fatalf("%s depth %d: blocking line should not be lost, got %f", alg.name, depth, score)
			}
		}
	}
}

func TestSearchEmptyBoardDepthOneTiesPickFirstColumn(t *testing.T) {
	state := NewGameState(DefaultSettings())
	if got := Evaluate(state); got != 0 {
		t.Fatalf("expected empty board to score 0, got %f", got)
	}
	for _, alg := range algorithms {
		move, score := alg.run(state, 1, ZeroEvaluator, nil)
		if move != 0 || score != 0 {
			t.Fatalf("%s: expected tie broken towards column 0 with score 0, got %d (%f)", alg.name, move, score)
		}
	}
}

func TestSearchDepthZeroAndTerminalRootHaveNoMove(t *testing.T) {
	state := mustParse(t, DefaultSettings(), PlayerRed,
		".......", ".......", ".......", ".......", ".......", "...R...")
	for _, alg := range algorithms {
		move, score := alg.run(state, 0, Evaluate, nil)
		if move != NoMove || score != Evaluate(state) {
			t.Fatalf("%s: expected NoMove with the static score at depth 0, got %d (%f)", alg.name, move, score)
		}
	}
	won := mustParse(t, DefaultSettings(), PlayerYellow,
		".......", ".......", ".......", ".......", "YYY....", "RRRR...")
	for _, alg := range algorithms {
		move, score := alg.run(won, 3, Evaluate, nil)
		if move != NoMove || score != WinScore {
			t.Fatalf("%s: expected NoMove with the win score on a terminal root, got %d (%f)", alg.name, move, score)
		}
	}
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	openings := [][]Move{
		{},
		{3},
		{3, 3},
		{3, 2, 4, 4, 2},
		{0, 6, 1, 5, 3, 3, 4},
		{3, 3, 3, 3, 2, 4, 4, 2},
		{6, 6, 6, 5, 5, 4, 0, 1, 2},
	}
	for i, opening := range openings {
		state := NewGameState(DefaultSettings())
		for _, move := range opening {
			if err := state.Play(move); err != nil {
				t.Fatalf("opening %d: play %d: %v", i, move, err)
			}
		}
		for depth := 1; depth <= 4; depth++ {
			t.Run(fmt.Sprintf("opening%d/depth%d", i, depth), func(t *testing.T) {
				var mmStats, abStats SearchStats
				mmMove, mmScore := Minimax(state, depth, Evaluate, &mmStats)
				abMove, abScore := AlphaBeta(state, depth, Evaluate, &abStats)
				if mmScore != abScore {
					t.Fatalf("score mismatch: minimax %f, alphabeta %f", mmScore, abScore)
				}
				if mmMove != abMove {
					t.Fatalf("move mismatch: minimax %d, alphabeta %d", mmMove, abMove)
				}
				if abStats.Nodes > mmStats.Nodes {
					t.Fatalf("alphabeta visited more nodes than minimax: %d > %d", abStats.Nodes, mmStats.Nodes)
				}
				if mmStats.Cutoffs != 0 {
					t.Fatalf("minimax must not prune, got %d cutoffs", mmStats.Cutoffs)
				}
			})
		}
	}
}

func TestAlphaBetaPrunesOnDeeperSearch(t *testing.T) {
	state := NewGameState(DefaultSettings())
	var mmStats, abStats SearchStats
	Minimax(state, 4, Evaluate, &mmStats)
	AlphaBeta(state, 4, Evaluate, &abStats)
	if abStats.Cutoffs == 0 || abStats.Nodes >= mmStats.Nodes {
		t.Fatalf("expected pruning at depth 4: minimax nodes=%d alphabeta nodes=%d cutoffs=%d", mmStats.Nodes, abStats.Nodes, abStats.Cutoffs)
	}
}

func TestSearchDoesNotMutateCallerPosition(t *testing.T) {
	state := mustParse(t, DefaultSettings(), PlayerYellow,
		".......", ".......", ".......", ".......", "...Y...", "..RRR..")
	before := state.Board()
	for _, alg := range algorithms {
		alg.run(state, 3, Evaluate, nil)
	}
	BestMove(state, DefaultSearchOptions())
	if !state.Board().Equal(before) || state.ToMove() != PlayerYellow {
		t.Fatalf("search changed the caller's position:\n%s", state)
	}
}

func TestSearchOnVariantBoard(t *testing.T) {
	settings := Settings{Columns: 5, Rows: 4, WinLength: 3}
	state := mustParse(t, settings, PlayerRed,
		".....",
		".....",
		".....",
		"RR.YY",
	)
	for _, alg := range algorithms {
		move, _ := alg.run(state, 2, Evaluate, nil)
		if move != 2 {
			t.Fatalf("%s: expected move 2 on the 5x4 board, got %d", alg.name, move)
		}
	}
}

type stuckPosition struct {
	*GameState
}

func (s stuckPosition) Clone() Position      { return stuckPosition{s.GameState.Copy()} }
func (s stuckPosition) LegalActions() []Move { return nil }

func TestSearchPanicsWithoutMovesInLivePosition(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for a non-terminal position without moves")
		}
	}()
	Minimax(stuckPosition{NewGameState(DefaultSettings())}, 1, Evaluate, nil)
}
