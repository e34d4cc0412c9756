// Package matchtest generates seeded synthetic champion maps and match tables for tests.
package matchtest

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/reallyasi9/lol-draft-model/internal/draft"
	"github.com/reallyasi9/lol-draft-model/internal/lol"
	"github.com/reallyasi9/lol-draft-model/internal/match"
)

// Champions returns a small champion map covering every role and spike.
func Champions() lol.ChampionMap {
	cm := make(lol.ChampionMap)
	for i, role := range lol.Roles {
		for s := range lol.Spikes {
			name := fmt.Sprintf("%s%d", role, s)
			c := lol.Champion{Name: name, Role: role}
			c.Spikes[s] = 1 + (i % 2)
			if (i+s)%2 == 0 {
				c.AP = 1
			} else {
				c.AD = 1
			}
			cm[name] = c
		}
	}
	return cm
}

// Games returns two rows per game, blue side first, with ids 2g and 2g+1. A game's red team
// never plays red in the next game, so the row above a blue row is never its declared
// opponent. Lane leads and results follow logistic models of the player differentials.
func Games(n int, cm lol.ChampionMap, seed int64) []match.Record {
	rng := rand.New(rand.NewSource(seed))
	names := cm.Names()
	teams := []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot", "Golf", "Hotel"}
	leagues := []string{"LCK", "LEC"}

	out := make([]match.Record, 0, 2*n)
	prevRed := -1
	for g := 0; g < n; g++ {
		ti := rng.Intn(len(teams))
		tj := (ti + 1 + rng.Intn(len(teams)-1)) % len(teams)
		for tj == prevRed {
			tj = (ti + 1 + rng.Intn(len(teams)-1)) % len(teams)
		}
		prevRed = tj
		gameID := fmt.Sprintf("G%05d", g)
		date := fmt.Sprintf("2023-%02d-%02d", 1+g/28%12, 1+g%28)
		league := leagues[g%len(leagues)]

		blue := match.Record{
			ID: 2 * g, GameID: gameID, Team: teams[ti], Opponent: teams[tj],
			Date: date, League: league, Side: lol.Blue,
			EloDiff: rng.NormFloat64() * 0.5,
		}
		red := match.Record{
			ID: 2*g + 1, GameID: gameID, Team: teams[tj], Opponent: teams[ti],
			Date: date, League: league, Side: lol.Red,
			EloDiff: -blue.EloDiff,
		}
		for p := range blue.Champions {
			blue.Champions[p] = names[rng.Intn(len(names))]
			red.Champions[p] = names[rng.Intn(len(names))]
			d := rng.NormFloat64()
			blue.PlayerDiff[p] = d
			red.PlayerDiff[p] = -d
		}

		leads := 0.
		for l, positions := range [lol.NumLanes][]lol.Position{
			{lol.Top, lol.Jungle}, {lol.Middle, lol.Jungle}, {lol.Bottom, lol.Jungle, lol.Support},
		} {
			x := 0.
			for _, p := range positions {
				x += blue.PlayerDiff[p]
			}
			if rng.Float64() < sigmoid(x) {
				blue.LeadAt15[l] = 1
				leads++
			} else {
				red.LeadAt15[l] = 1
			}
		}
		if rng.Float64() < sigmoid(0.8*(leads-1.5)+blue.EloDiff+0.1) {
			blue.Result = 1
		} else {
			red.Result = 1
		}
		out = append(out, blue, red)
	}
	return out
}

// Labels assigns each record a seeded random archetype in [0, k).
func Labels(records []match.Record, k int, seed int64) []draft.Labeled {
	rng := rand.New(rand.NewSource(seed))
	out := make([]draft.Labeled, len(records))
	for i, r := range records {
		out[i] = draft.Labeled{Vector: draft.Vector{RowID: r.ID}, TeamComp: rng.Intn(k)}
	}
	return out
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
