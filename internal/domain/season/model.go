package season

import (
	"slices"
	"sort"

	"github.com/riskibarqy/league-simulator/internal/domain/league"
	"github.com/riskibarqy/league-simulator/internal/domain/matchup"
)

// SportMatchups is the ordered matchup list stored per sport.
type SportMatchups struct {
	Matchups []matchup.Matchup
}

// Schedule maps sport id to its pending matchups.
type Schedule map[string]SportMatchups

// MatchHistory maps sport id to its resolved matchups, append-only.
type MatchHistory map[string]SportMatchups

// TeamRecord lists the match ids a team took part in, oldest first.
type TeamRecord struct {
	Matches []int64
}

// TeamHistory maps team name to its match id back-references.
type TeamHistory map[string]TeamRecord

// Snapshot is the set of collections that is loaded and saved as one unit.
type Snapshot struct {
	Leagues      []league.League
	Schedule     Schedule
	MatchHistory MatchHistory
	TeamHistory  TeamHistory
}

func NewSnapshot(leagues []league.League) Snapshot {
	return Snapshot{
		Leagues:      leagues,
		Schedule:     Schedule{},
		MatchHistory: MatchHistory{},
		TeamHistory:  TeamHistory{},
	}
}

// Normalize replaces nil collections with empty ones.
func (s *Snapshot) Normalize() {
	if s.Schedule == nil {
		s.Schedule = Schedule{}
	}
	if s.MatchHistory == nil {
		s.MatchHistory = MatchHistory{}
	}
	if s.TeamHistory == nil {
		s.TeamHistory = TeamHistory{}
	}
}

// Clone deep-copies the snapshot so callers can mutate it freely.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Leagues:      make([]league.League, 0, len(s.Leagues)),
		Schedule:     make(Schedule, len(s.Schedule)),
		MatchHistory: make(MatchHistory, len(s.MatchHistory)),
		TeamHistory:  make(TeamHistory, len(s.TeamHistory)),
	}
	for _, item := range s.Leagues {
		out.Leagues = append(out.Leagues, league.League{
			SportID: item.SportID,
			Teams:   slices.Clone(item.Teams),
		})
	}
	for sport, item := range s.Schedule {
		out.Schedule[sport] = SportMatchups{Matchups: cloneMatchups(item.Matchups)}
	}
	for sport, item := range s.MatchHistory {
		out.MatchHistory[sport] = SportMatchups{Matchups: cloneMatchups(item.Matchups)}
	}
	for team, item := range s.TeamHistory {
		out.TeamHistory[team] = TeamRecord{Matches: slices.Clone(item.Matches)}
	}

	return out
}

func cloneMatchups(items []matchup.Matchup) []matchup.Matchup {
	if items == nil {
		return nil
	}
	out := make([]matchup.Matchup, len(items))
	for i, item := range items {
		out[i] = item
		if item.ScoreTeamA != nil {
			v := *item.ScoreTeamA
			out[i].ScoreTeamA = &v
		}
		if item.ScoreTeamB != nil {
			v := *item.ScoreTeamB
			out[i].ScoreTeamB = &v
		}
		if item.Winner != nil {
			v := *item.Winner
			out[i].Winner = &v
		}
	}
	return out
}

// NextPending returns the pending matchup with the lowest order for sport.
// Ties keep insertion order.
func (s Schedule) NextPending(sport string) (matchup.Matchup, bool) {
	items := s[sport].Matchups
	if len(items) == 0 {
		return matchup.Matchup{}, false
	}

	best := 0
	for i := 1; i < len(items); i++ {
		if items[i].Order < items[best].Order {
			best = i
		}
	}
	return items[best], true
}

// Remove drops exactly one pending matchup with matchID from sport.
func (s Schedule) Remove(sport string, matchID int64) bool {
	items := s[sport].Matchups
	idx := slices.IndexFunc(items, func(m matchup.Matchup) bool { return m.MatchID == matchID })
	if idx < 0 {
		return false
	}

	s[sport] = SportMatchups{Matchups: slices.Delete(slices.Clone(items), idx, idx+1)}
	return true
}

// Sports returns the sport ids that still have pending matchups, sorted.
func (s Schedule) Sports() []string {
	out := make([]string, 0, len(s))
	for sport, item := range s {
		if len(item.Matchups) > 0 {
			out = append(out, sport)
		}
	}
	sort.Strings(out)
	return out
}

// Append adds a resolved matchup to sport, assigning the next order.
func (h MatchHistory) Append(sport string, m matchup.Matchup) matchup.Matchup {
	items := h[sport].Matchups
	m.Order = len(items) + 1
	h[sport] = SportMatchups{Matchups: append(items, m)}
	return m
}

// Find looks up a resolved matchup by id across every sport.
func (h MatchHistory) Find(matchID int64) (matchup.Matchup, string, bool) {
	for sport, item := range h {
		for _, m := range item.Matchups {
			if m.MatchID == matchID {
				return m, sport, true
			}
		}
	}
	return matchup.Matchup{}, "", false
}

// All flattens the history of every sport in sport id order.
func (h MatchHistory) All() []matchup.Matchup {
	sports := make([]string, 0, len(h))
	for sport := range h {
		sports = append(sports, sport)
	}
	sort.Strings(sports)

	var out []matchup.Matchup
	for _, sport := range sports {
		out = append(out, h[sport].Matchups...)
	}
	return out
}

func (h TeamHistory) Record(team string, matchID int64) {
	item := h[team]
	item.Matches = append(item.Matches, matchID)
	h[team] = item
}

func (h TeamHistory) MatchIDs(team string) []int64 {
	return h[team].Matches
}
