package main

import "github.com/yoavweinshall/pa2-connect/engine"

type HumanPlayer struct {
	pending     bool
	pendingMove engine.Move
}

func NewHumanPlayer() *HumanPlayer {
	return &HumanPlayer{}
}

func (h *HumanPlayer) IsHuman() bool {
	return true
}

func (h *HumanPlayer) ChooseMove(*engine.GameState) engine.Move {
	return engine.NoMove
}

func (h *HumanPlayer) SetPendingMove(move engine.Move) {
	h.pendingMove = move
	h.pending = true
}

func (h *HumanPlayer) HasPendingMove() bool {
	return h.pending
}

func (h *HumanPlayer) TakePendingMove() engine.Move {
	h.pending = false
	return h.pendingMove
}
