package main

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yoavweinshall/pa2-connect/engine"
)

// aiDecision is a finished search as seen by the game loop.
type aiDecision struct {
	Move    engine.Move
	Score   float64
	Depth   int
	Elapsed time.Duration
	Stats   engine.SearchStats
}

type AIPlayer struct {
	moveMutex  sync.Mutex
	workerDone chan struct{}
	thinking   atomic.Bool
	moveReady  atomic.Bool
	ready      aiDecision
}

func NewAIPlayer() *AIPlayer {
	return &AIPlayer{}
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

func (a *AIPlayer) ChooseMove(state *engine.GameState) engine.Move {
	return a.decide(state, GetConfig(), "choose").Move
}

// StartThinking searches a copy of state on a separate goroutine; poll
// HasMoveReady and collect the result with TakeDecision.
func (a *AIPlayer) StartThinking(state *engine.GameState) {
	a.StartThinkingWithConfig(state, GetConfig(), "think")
}

func (a *AIPlayer) StartThinkingWithConfig(state *engine.GameState, config Config, tag string) {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)

	stateCopy := state.Copy()
	done := make(chan struct{})
	a.workerDone = done
	go func() {
		defer close(done)
		decision := a.decide(stateCopy, config, tag)
		a.moveMutex.Lock()
		a.ready = decision
		a.moveMutex.Unlock()
		a.moveReady.Store(true)
		a.thinking.Store(false)
	}()
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

func (a *AIPlayer) TakeDecision() aiDecision {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.moveReady.Store(false)
	return a.ready
}

// Wait blocks until the current search, if any, has finished.
func (a *AIPlayer) Wait() {
	if a.workerDone != nil {
		<-a.workerDone
	}
}

func (a *AIPlayer) decide(state *engine.GameState, config Config, tag string) aiDecision {
	opts, err := searchOptionsFromConfig(config)
	if err != nil {
		log.Warn().Err(err).Str("tag", tag).Msg("falling back to default search options")
		opts = engine.DefaultSearchOptions()
	}
	start := time.Now()
	result := engine.Search(state, opts)
	decision := aiDecision{
		Move:    result.Move,
		Score:   result.Score,
		Depth:   opts.Depth,
		Elapsed: time.Since(start),
		Stats:   result.Stats,
	}
	if decision.Move == engine.NoMove && !state.IsTerminal() {
		// Depth 0 gives no designated move; keep the game moving.
		decision.Move = engine.RandomMove(state)
	}
	if config.AiLogSearchStats {
		logSearchStats(tag, decision, opts)
	}
	return decision
}

func searchOptionsFromConfig(config Config) (engine.SearchOptions, error) {
	eval, err := engine.EvaluatorByName(config.AiEvaluator)
	if err != nil {
		return engine.SearchOptions{}, err
	}
	return engine.SearchOptions{
		Depth:        config.AiDepth,
		UseAlphaBeta: config.AiUseAlphaBeta,
		Evaluator:    eval,
	}, nil
}

func logSearchStats(tag string, decision aiDecision, opts engine.SearchOptions) {
	nps := 0.0
	if decision.Elapsed > 0 {
		nps = float64(decision.Stats.Nodes) / decision.Elapsed.Seconds()
	}
	log.Info().
		Str("component", "ai").
		Str("tag", tag).
		Int("depth", opts.Depth).
		Bool("alpha_beta", opts.UseAlphaBeta).
		Int("move", int(decision.Move)).
		Float64("score", decision.Score).
		Int64("nodes", decision.Stats.Nodes).
		Int64("leaves", decision.Stats.Leaves).
		Int64("cutoffs", decision.Stats.Cutoffs).
		Float64("nps", nps).
		Dur("elapsed", decision.Elapsed).
		Msg("search stats")
}
