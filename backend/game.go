package main

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yoavweinshall/pa2-connect/engine"
)

type GameStatus int

const (
	StatusNotStarted GameStatus = iota
	StatusRunning
	StatusRedWon
	StatusYellowWon
	StatusDraw
)

type Game struct {
	settings     GameSettings
	state        *engine.GameState
	status       GameStatus
	history      MoveHistory
	redPlayer    IPlayer
	yellowPlayer IPlayer
	hintAI       *AIPlayer
	hintFor      int
	turnStart    time.Time
	lastMessage  string
}

func NewGame(settings GameSettings) Game {
	g := Game{}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	if err := settings.Board.Validate(); err != nil {
		log.Warn().Err(err).Msg("invalid board settings, using defaults")
		settings.Board = engine.DefaultSettings()
	}
	g.settings = settings
	g.state = engine.NewGameState(settings.Board)
	g.status = StatusNotStarted
	g.history.Clear()
	g.createPlayers()
	g.hintAI = nil
	g.hintFor = -1
	g.turnStart = time.Now()
	g.lastMessage = ""
	log.Info().
		Str("red", settings.RedType.String()).
		Str("yellow", settings.YellowType.String()).
		Int("columns", settings.Board.Columns).
		Int("rows", settings.Board.Rows).
		Int("win_length", settings.Board.WinLength).
		Msg("new game")
}

func (g *Game) Start() {
	if g.status == StatusNotStarted {
		g.status = StatusRunning
		g.turnStart = time.Now()
	}
}

func (g *Game) State() *engine.GameState {
	return g.state.Copy()
}

func (g *Game) Status() GameStatus {
	return g.status
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) LastMessage() string {
	return g.lastMessage
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

// TryApplyMove plays move for the side to move and updates the game status.
func (g *Game) TryApplyMove(move engine.Move) (bool, string) {
	return g.applyMove(move, nil)
}

func (g *Game) applyMove(move engine.Move, decision *aiDecision) (bool, string) {
	if g.status != StatusRunning {
		return false, "game not running"
	}
	player := g.currentPlayer()
	mover := g.state.ToMove()
	if err := g.state.Play(move); err != nil {
		switch {
		case errors.Is(err, engine.ErrColumnFull):
			g.lastMessage = "Illegal move: column full"
		case errors.Is(err, engine.ErrOutOfBounds):
			g.lastMessage = "Illegal move: out of bounds"
		default:
			g.lastMessage = "Illegal move: " + err.Error()
		}
		return false, g.lastMessage
	}
	g.lastMessage = ""
	entry := HistoryEntry{
		Move:      move,
		Row:       landingRow(g.state, move),
		Player:    mover,
		ElapsedMs: float64(time.Since(g.turnStart).Milliseconds()),
		IsAi:      player != nil && !player.IsHuman(),
	}
	if decision != nil {
		entry.Depth = decision.Depth
		entry.Score = decision.Score
		entry.HasScore = true
	}
	g.history.Push(entry)
	log.Debug().
		Str("player", mover.String()).
		Int("column", int(move)).
		Int("row", entry.Row).
		Bool("ai", entry.IsAi).
		Float64("elapsed_ms", entry.ElapsedMs).
		Msg("move played")

	if winner, ok := g.state.Winner(); ok {
		if winner == engine.PlayerRed {
			g.status = StatusRedWon
		} else {
			g.status = StatusYellowWon
		}
		log.Info().Str("winner", winner.String()).Int("moves", g.history.Size()).Msg("game won")
		return true, ""
	}
	if g.state.IsTerminal() {
		g.status = StatusDraw
		log.Info().Int("moves", g.history.Size()).Msg("game drawn")
		return true, ""
	}
	g.turnStart = time.Now()
	return true, ""
}

// Tick advances non-human players. It reports whether a move was applied.
func (g *Game) Tick(hintEnabled bool, hintSink func(hintPayload)) bool {
	if g.status != StatusRunning {
		return false
	}
	player := g.currentPlayer()
	if player == nil {
		return false
	}
	if player.IsHuman() {
		if hintEnabled && hintSink != nil {
			g.advanceHint(hintSink)
		}
		human, ok := player.(*HumanPlayer)
		if ok && human.HasPendingMove() {
			applied, _ := g.TryApplyMove(human.TakePendingMove())
			return applied
		}
		return false
	}
	ai, ok := player.(*AIPlayer)
	if ok {
		if ai.HasMoveReady() {
			decision := ai.TakeDecision()
			applied, _ := g.applyMove(decision.Move, &decision)
			return applied
		}
		if !ai.IsThinking() {
			ai.StartThinking(g.state)
		}
		return false
	}
	applied, _ := g.TryApplyMove(player.ChooseMove(g.state.Copy()))
	return applied
}

// advanceHint runs one suggestion search per human turn and publishes it once
// ready.
func (g *Game) advanceHint(hintSink func(hintPayload)) {
	turn := g.history.Size()
	if g.hintAI == nil {
		g.hintAI = NewAIPlayer()
	}
	if g.hintAI.HasMoveReady() {
		decision := g.hintAI.TakeDecision()
		if g.hintFor == turn {
			hintSink(hintPayload{
				Column:     int(decision.Move),
				Score:      decision.Score,
				Depth:      decision.Depth,
				NextPlayer: playerToInt(g.state.ToMove()),
				MoveNumber: turn,
				Active:     true,
			})
		}
		return
	}
	if g.hintFor == turn || g.hintAI.IsThinking() {
		return
	}
	g.hintFor = turn
	config := GetConfig()
	config.AiDepth = config.HintDepth
	g.hintAI.StartThinkingWithConfig(g.state, config, "hint")
}

func (g *Game) SubmitHumanMove(move engine.Move) bool {
	player := g.currentPlayer()
	if player == nil || !player.IsHuman() {
		return false
	}
	human, ok := player.(*HumanPlayer)
	if !ok {
		return false
	}
	human.SetPendingMove(move)
	return true
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) AiThinking() bool {
	ai, ok := g.currentPlayer().(*AIPlayer)
	if ok {
		return ai.IsThinking()
	}
	return false
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerForColor(g.state.ToMove())
}

func (g *Game) playerForColor(color engine.PlayerColor) IPlayer {
	if color == engine.PlayerRed {
		return g.redPlayer
	}
	return g.yellowPlayer
}

func (g *Game) createPlayers() {
	g.redPlayer = newPlayer(g.settings.RedType)
	g.yellowPlayer = newPlayer(g.settings.YellowType)
}

func newPlayer(kind PlayerType) IPlayer {
	switch kind {
	case PlayerAI:
		return NewAIPlayer()
	case PlayerRandom:
		return NewRandomPlayer()
	default:
		return NewHumanPlayer()
	}
}

// landingRow finds the row of the piece most recently dropped in move.
func landingRow(state *engine.GameState, move engine.Move) int {
	board := state.Board()
	for row := 0; row < board.Rows(); row++ {
		if board.At(int(move), row) != engine.CellEmpty {
			return row
		}
	}
	return -1
}
