package main

import "github.com/yoavweinshall/pa2-connect/engine"

type IPlayer interface {
	IsHuman() bool
	ChooseMove(state *engine.GameState) engine.Move
}
