package schedule

import (
	"fmt"
	"math/rand/v2"

	"github.com/riskibarqy/league-simulator/internal/domain/league"
	"github.com/riskibarqy/league-simulator/internal/domain/matchup"
	"github.com/riskibarqy/league-simulator/internal/domain/season"
	"github.com/riskibarqy/league-simulator/internal/domain/simulation"
	"github.com/riskibarqy/league-simulator/internal/platform/id"
)

// Generator builds round-robin schedules. Match ids come from its own
// sequence and are shared by every league it builds. Not safe for
// concurrent use.
type Generator struct {
	ids id.Generator
	rng *rand.Rand
	sim *simulation.Simulator
}

func NewGenerator(ids id.Generator, rng *rand.Rand, sim *simulation.Simulator) *Generator {
	if ids == nil {
		ids = id.NewSequence(1)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if sim == nil {
		sim = simulation.NewSimulator(rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64())))
	}
	return &Generator{ids: ids, rng: rng, sim: sim}
}

// RoundRobin pairs every team with every other team once, shuffles the
// pairs, balances home/away and numbers them from 1.
func (g *Generator) RoundRobin(teams []league.Team) []matchup.Matchup {
	names := make([]string, 0, len(teams))
	for _, t := range teams {
		names = append(names, t.Name)
	}

	out := make([]matchup.Matchup, 0, len(names)*(len(names)-1)/2)
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			out = append(out, matchup.Matchup{
				TeamA:   names[i],
				TeamB:   names[j],
				MatchID: g.ids.Next(),
			})
		}
	}

	Shuffle(g.rng, out)
	BalanceHomeAway(out, names)
	for i := range out {
		out[i].Order = i + 1
	}

	return out
}

// Build is the result of a full schedule rebuild.
type Build struct {
	Schedule     season.Schedule
	MatchHistory season.MatchHistory
	TeamHistory  season.TeamHistory
	// Imbalance holds MaxImbalance of each league's pending schedule.
	Imbalance map[string]int
}

// Build generates, for every league, a pending schedule and an independent
// past season that is resolved immediately to seed the histories.
func (g *Generator) Build(leagues []league.League) (Build, error) {
	out := Build{
		Schedule:     season.Schedule{},
		MatchHistory: season.MatchHistory{},
		TeamHistory:  season.TeamHistory{},
		Imbalance:    make(map[string]int, len(leagues)),
	}

	for _, item := range leagues {
		if err := item.Validate(); err != nil {
			return Build{}, fmt.Errorf("validate league: %w", err)
		}

		future := g.RoundRobin(item.Teams)
		past := g.RoundRobin(item.Teams)

		out.Schedule[item.SportID] = season.SportMatchups{Matchups: future}
		out.Imbalance[item.SportID] = MaxImbalance(future)

		if err := g.backfill(item, past, &out); err != nil {
			return Build{}, err
		}
	}

	return out, nil
}

func (g *Generator) backfill(item league.League, past []matchup.Matchup, out *Build) error {
	resolved := make([]matchup.Matchup, 0, len(past))
	for idx, m := range past {
		teamA, okA := item.TeamByName(m.TeamA)
		teamB, okB := item.TeamByName(m.TeamB)
		if !okA || !okB {
			return fmt.Errorf("%w: %s vs %s in %s", league.ErrTeamNotFound, m.TeamA, m.TeamB, item.SportID)
		}

		outcome := g.sim.Play(item.SportID, teamA, teamB)
		m.Resolve(outcome.ScoreA, outcome.ScoreB)
		m.Order = idx + 1
		resolved = append(resolved, m)

		out.TeamHistory.Record(m.TeamA, m.MatchID)
		out.TeamHistory.Record(m.TeamB, m.MatchID)
	}

	out.MatchHistory[item.SportID] = season.SportMatchups{Matchups: resolved}
	return nil
}
