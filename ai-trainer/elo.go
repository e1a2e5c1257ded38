package main

import (
	"math"
	"sort"
)

const initialElo = 1500

func updateElo(a *contender, b *contender, resultForA float64, k float64) {
	expA := 1.0 / (1.0 + math.Pow(10, (b.Elo-a.Elo)/400.0))
	expB := 1.0 / (1.0 + math.Pow(10, (a.Elo-b.Elo)/400.0))
	a.Elo += k * (resultForA - expA)
	b.Elo += k * ((1.0 - resultForA) - expB)
}

// applyResults folds results into both contenders in game order.
func applyResults(a, b *contender, results []gameResult, k float64) {
	for _, result := range results {
		updateElo(a, b, result.ResultForA, k)
		switch result.ResultForA {
		case 1:
			a.Wins++
			b.Losses++
		case 0:
			a.Losses++
			b.Wins++
		default:
			a.Draws++
			b.Draws++
		}
		a.Nodes += result.NodesA
		b.Nodes += result.NodesB
		a.Moves += result.MovesA
		b.Moves += result.MovesB
	}
}

func sortContendersByElo(list []contender) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Elo > list[j].Elo })
}
