package schedule

import (
	"math/rand/v2"

	"github.com/riskibarqy/league-simulator/internal/domain/matchup"
)

// Shuffle permutes items in place with Fisher–Yates, walking from the last
// index down and drawing an inclusive index at every step.
func Shuffle[T any](rng *rand.Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

type sideCount struct {
	asTeamA int
	asTeamB int
}

// BalanceHomeAway makes one greedy pass over matchups. A pair is swapped when
// its teamA already appears more often as teamA than teamB and its teamB
// already appears more often as teamB than teamA. Exact parity is not
// guaranteed.
func BalanceHomeAway(matchups []matchup.Matchup, teams []string) []matchup.Matchup {
	counts := make(map[string]*sideCount, len(teams))
	for _, name := range teams {
		counts[name] = &sideCount{}
	}
	get := func(name string) *sideCount {
		c, ok := counts[name]
		if !ok {
			c = &sideCount{}
			counts[name] = c
		}
		return c
	}

	for i := range matchups {
		a, b := get(matchups[i].TeamA), get(matchups[i].TeamB)
		if a.asTeamA > a.asTeamB && b.asTeamB > b.asTeamA {
			matchups[i].TeamA, matchups[i].TeamB = matchups[i].TeamB, matchups[i].TeamA
			a, b = b, a
		}
		a.asTeamA++
		b.asTeamB++
	}

	return matchups
}

// MaxImbalance returns the largest |asTeamA - asTeamB| over all teams.
func MaxImbalance(matchups []matchup.Matchup) int {
	counts := make(map[string]int)
	for _, m := range matchups {
		counts[m.TeamA]++
		counts[m.TeamB]--
	}

	worst := 0
	for _, diff := range counts {
		if diff < 0 {
			diff = -diff
		}
		worst = max(worst, diff)
	}
	return worst
}
