package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/yoavweinshall/pa2-connect/engine"
)

const (
	kindSearch = "search"
	kindRandom = "random"
)

// contenderConfig describes how one side of the arena picks its moves.
type contenderConfig struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Depth        int    `json:"depth"`
	UseAlphaBeta bool   `json:"use_alpha_beta"`
	Evaluator    string `json:"evaluator"`
}

type contender struct {
	Config contenderConfig
	Elo    float64
	Wins   int
	Losses int
	Draws  int
	Nodes  int64
	Moves  int
}

type gameResult struct {
	Index   int
	RedID   string
	Opening []engine.Move
	Winner  string
	Plies   int
	// ResultForA is 1 for an A win, 0.5 for a draw and 0 for a loss.
	ResultForA  float64
	RedNodes    int64
	YellowNodes int64
	RedMoves    int
	YellowMoves int
	NodesA      int64
	NodesB      int64
	MovesA      int
	MovesB      int
	Elapsed     time.Duration
}

type arena struct {
	settings       engine.Settings
	openingPlies   int
	parallel       int
	eloK           float64
	verifyPruning  bool
	progressEveryN int

	mu       sync.Mutex
	finished int
}

func (c contenderConfig) Validate() error {
	switch c.Kind {
	case kindRandom:
		return nil
	case kindSearch:
		if c.Depth < 0 {
			return fmt.Errorf("%s: negative depth %d", c.ID, c.Depth)
		}
		_, err := engine.EvaluatorByName(c.Evaluator)
		if err != nil {
			return fmt.Errorf("%s: %w", c.ID, err)
		}
		return nil
	}
	return fmt.Errorf("%s: unknown kind %q", c.ID, c.Kind)
}

func (c contenderConfig) String() string {
	if c.Kind == kindRandom {
		return c.ID + "(random)"
	}
	algo := "minimax"
	if c.UseAlphaBeta {
		algo = "alphabeta"
	}
	return fmt.Sprintf("%s(%s d%d %s)", c.ID, algo, c.Depth, c.Evaluator)
}

// Run plays games between a and b and returns results in game order. Game i
// gives a the red pieces when i is even.
func (a *arena) Run(ctx context.Context, first, second contenderConfig, games int) ([]gameResult, error) {
	openings := make([][]engine.Move, games)
	for i := range openings {
		openings[i] = randomOpening(a.settings, a.openingPlies)
	}

	results := make([]gameResult, games)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.parallel, 1))
	for i := 0; i < games; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			red, yellow := first, second
			if i%2 == 1 {
				red, yellow = second, first
			}
			result, err := a.playGame(gctx, red, yellow, openings[i])
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			result.Index = i
			result.ResultForA = resultFor(first.ID, result)
			result.NodesA, result.NodesB = result.RedNodes, result.YellowNodes
			result.MovesA, result.MovesB = result.RedMoves, result.YellowMoves
			if red.ID != first.ID {
				result.NodesA, result.NodesB = result.NodesB, result.NodesA
				result.MovesA, result.MovesB = result.MovesB, result.MovesA
			}
			results[i] = result
			a.reportProgress(result, games)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *arena) reportProgress(result gameResult, total int) {
	a.mu.Lock()
	a.finished++
	finished := a.finished
	a.mu.Unlock()
	if a.progressEveryN > 0 && finished%a.progressEveryN != 0 && finished != total {
		return
	}
	log.Info().
		Int("game", result.Index).
		Int("finished", finished).
		Int("total", total).
		Str("red", result.RedID).
		Str("winner", result.Winner).
		Int("plies", result.Plies).
		Dur("elapsed", result.Elapsed).
		Msg("game finished")
}

// playGame plays opening then lets the contenders alternate until the game
// ends.
func (a *arena) playGame(ctx context.Context, red, yellow contenderConfig, opening []engine.Move) (gameResult, error) {
	start := time.Now()
	state := engine.NewGameState(a.settings)
	for _, move := range opening {
		if err := state.Play(move); err != nil {
			return gameResult{}, fmt.Errorf("opening move %d: %w", move, err)
		}
	}
	result := gameResult{RedID: red.ID, Opening: append([]engine.Move(nil), opening...)}
	for !state.IsTerminal() {
		if err := ctx.Err(); err != nil {
			return gameResult{}, err
		}
		side := red
		if state.ToMove() == engine.PlayerYellow {
			side = yellow
		}
		move, nodes, err := a.chooseMove(side, state)
		if err != nil {
			return gameResult{}, err
		}
		if state.ToMove() == engine.PlayerRed {
			result.RedNodes += nodes
			result.RedMoves++
		} else {
			result.YellowNodes += nodes
			result.YellowMoves++
		}
		if err := state.Play(move); err != nil {
			return gameResult{}, fmt.Errorf("%s played %d: %w", side.ID, move, err)
		}
	}
	result.Plies = state.MoveCount()
	result.Elapsed = time.Since(start)
	if winner, ok := state.Winner(); ok {
		if winner == engine.PlayerRed {
			result.Winner = red.ID
		} else {
			result.Winner = yellow.ID
		}
	}
	return result, nil
}

func (a *arena) chooseMove(c contenderConfig, state *engine.GameState) (engine.Move, int64, error) {
	if c.Kind == kindRandom {
		return engine.RandomMove(state), 0, nil
	}
	eval, err := engine.EvaluatorByName(c.Evaluator)
	if err != nil {
		return engine.NoMove, 0, err
	}
	result := engine.Search(state, engine.SearchOptions{
		Depth:        c.Depth,
		UseAlphaBeta: c.UseAlphaBeta,
		Evaluator:    eval,
	})
	if a.verifyPruning {
		if err := verifyAgainstOtherAlgorithm(c, state, eval, result); err != nil {
			return engine.NoMove, 0, err
		}
	}
	move := result.Move
	if move == engine.NoMove {
		move = engine.RandomMove(state)
	}
	return move, result.Stats.Nodes, nil
}

// verifyAgainstOtherAlgorithm re-runs the search with pruning toggled and
// fails on any difference in move or score.
func verifyAgainstOtherAlgorithm(c contenderConfig, state *engine.GameState, eval engine.Evaluator, got engine.SearchResult) error {
	other := engine.Search(state, engine.SearchOptions{
		Depth:        c.Depth,
		UseAlphaBeta: !c.UseAlphaBeta,
		Evaluator:    eval,
	})
	if other.Move != got.Move || other.Score != got.Score {
		return fmt.Errorf("pruning mismatch for %s at %d plies: alpha-beta=%v got move %d score %f, other got move %d score %f",
			c.ID, state.MoveCount(), c.UseAlphaBeta, got.Move, got.Score, other.Move, other.Score)
	}
	return nil
}

// randomOpening plays up to plies uniformly random moves, stopping short of
// any move that would end the game.
func randomOpening(settings engine.Settings, plies int) []engine.Move {
	state := engine.NewGameState(settings)
	opening := make([]engine.Move, 0, plies)
	for len(opening) < plies {
		moves := state.LegalActions()
		frand.Shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })
		played := false
		for _, move := range moves {
			next := state.Copy()
			if err := next.Play(move); err != nil || next.IsTerminal() {
				continue
			}
			state = next
			opening = append(opening, move)
			played = true
			break
		}
		if !played {
			break
		}
	}
	return opening
}

func resultFor(id string, result gameResult) float64 {
	switch result.Winner {
	case "":
		return 0.5
	case id:
		return 1
	default:
		return 0
	}
}
