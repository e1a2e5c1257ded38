package main

import "github.com/yoavweinshall/pa2-connect/engine"

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
	PlayerRandom
)

func (t PlayerType) String() string {
	switch t {
	case PlayerAI:
		return "AI"
	case PlayerRandom:
		return "Random"
	default:
		return "Human"
	}
}

type GameSettings struct {
	Board      engine.Settings `json:"board"`
	RedType    PlayerType      `json:"-"`
	YellowType PlayerType      `json:"-"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		Board:      engine.DefaultSettings(),
		RedType:    PlayerHuman,
		YellowType: PlayerAI,
	}
}
