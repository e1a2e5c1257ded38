package main

import (
	"sync"

	"github.com/yoavweinshall/pa2-connect/engine"
)

type GameController struct {
	mu            sync.Mutex
	game          Game
	hintEnabled   func() bool
	hintPublisher func(hintPayload)
}

func NewGameController(settings GameSettings) *GameController {
	return &GameController{game: NewGame(settings)}
}

func (gc *GameController) SetHintPublisher(enabled func() bool, publisher func(hintPayload)) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.hintEnabled = enabled
	gc.hintPublisher = publisher
}

// OnColumnClicked queues a move for the human to move; Tick applies it.
func (gc *GameController) OnColumnClicked(column int) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.SubmitHumanMove(engine.Move(column))
}

func (gc *GameController) ApplyHumanMove(move engine.Move) (bool, string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if gc.game.Status() != StatusRunning {
		return false, "game not running"
	}
	if !gc.game.CurrentPlayerIsHuman() {
		return false, "not human turn"
	}
	return gc.game.TryApplyMove(move)
}

func (gc *GameController) Tick() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	hintEnabled := false
	if gc.hintEnabled != nil {
		hintEnabled = gc.hintEnabled()
	}
	return gc.game.Tick(hintEnabled, gc.hintPublisher)
}

func (gc *GameController) State() *engine.GameState {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.State()
}

func (gc *GameController) Status() GameStatus {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Status()
}

func (gc *GameController) Settings() GameSettings {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.settings
}

func (gc *GameController) History() MoveHistory {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History()
}

func (gc *GameController) CurrentTurnStartedAtMs() int64 {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.TurnStartedAtMs()
}

func (gc *GameController) LatestHistoryEntry() (HistoryEntry, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	history := gc.game.History()
	if history.Size() == 0 {
		return HistoryEntry{}, false
	}
	entries := history.All()
	return entries[len(entries)-1], true
}

func (gc *GameController) AiThinking() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.AiThinking()
}

func (gc *GameController) Reset(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
}

func (gc *GameController) StartGame(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
	gc.game.Start()
}

// UpdateSettings swaps the player types in place. A board geometry change
// always resets the game.
func (gc *GameController) UpdateSettings(update GameSettings, reset bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if reset || update.Board != gc.game.settings.Board {
		gc.game.Reset(update)
		return
	}
	gc.game.settings = update
	gc.game.createPlayers()
}

func (gc *GameController) LastMessage() string {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.LastMessage()
}
