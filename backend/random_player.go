package main

import "github.com/yoavweinshall/pa2-connect/engine"

// RandomPlayer drops into a uniformly chosen legal column.
type RandomPlayer struct{}

func NewRandomPlayer() *RandomPlayer {
	return &RandomPlayer{}
}

func (r *RandomPlayer) IsHuman() bool {
	return false
}

func (r *RandomPlayer) ChooseMove(state *engine.GameState) engine.Move {
	return engine.RandomMove(state)
}
