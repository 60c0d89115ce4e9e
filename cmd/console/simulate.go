package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/rand"

	"naval-chess/internal/game"
)

type simStats struct {
	Games int
	Shots int
	Min   int
	Max   int
	Tiers map[game.Tier]int
}

func (s simStats) Average() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Shots) / float64(s.Games)
}

func (s simStats) report() {
	log.Info("simulation done",
		"games", s.Games,
		"avg", fmt.Sprintf("%.2f", s.Average()),
		"min", s.Min,
		"max", s.Max)
	for _, t := range []game.Tier{game.TierBridge, game.TierAdjacent, game.TierDensity, game.TierParity} {
		log.Info("tier usage", "tier", t, "shots", s.Tiers[t])
	}
}

// simulate plays the targeting heuristic alone against random fleets.
func simulate(games int, seed uint64, size int, fleet []int, allowTouching bool) (simStats, error) {
	rng := rand.New(rand.NewSource(seed))
	stats := simStats{Tiers: map[game.Tier]int{}}
	for i := 0; i < games; i++ {
		shots, err := sinkFleet(rng, size, fleet, allowTouching, stats.Tiers)
		if err != nil {
			return stats, fmt.Errorf("game %d: %w", i+1, err)
		}
		log.Debug("game finished", "game", i+1, "shots", shots)
		stats.Games++
		stats.Shots += shots
		if stats.Min == 0 || shots < stats.Min {
			stats.Min = shots
		}
		if shots > stats.Max {
			stats.Max = shots
		}
	}
	return stats, nil
}

func sinkFleet(rng *rand.Rand, size int, fleet []int, allowTouching bool, tiers map[game.Tier]int) (int, error) {
	l, err := game.GenerateLayout(rng, size, fleet, allowTouching)
	if err != nil {
		return 0, err
	}
	a := game.NewAttackState(size)
	remaining := append([]int(nil), fleet...)
	shots := 0
	for !game.AllSunk(a, l) {
		cell, tier, err := game.ChooseCell(rng, a, remaining)
		if err != nil {
			return shots, err
		}
		tiers[tier]++
		res, err := game.ApplyAttack(&a, l, cell)
		if err != nil {
			return shots, err
		}
		shots++
		if res == game.ResultHit {
			remaining = game.RemoveSunk(remaining, game.ResolveSunkShips(&a, l))
		}
	}
	return shots, nil
}
