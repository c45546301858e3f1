package season

import (
	"fmt"
	"sort"
)

// Violation describes one broken invariant between the collections.
type Violation struct {
	MatchID int64
	Team    string
	Reason  string
}

func (v Violation) String() string {
	if v.Team == "" {
		return fmt.Sprintf("match %d: %s", v.MatchID, v.Reason)
	}
	return fmt.Sprintf("team %s match %d: %s", v.Team, v.MatchID, v.Reason)
}

// Verify checks that every team history reference resolves to exactly one
// resolved matchup involving that team, and that no match id is both
// pending and resolved.
func (s Snapshot) Verify() []Violation {
	var out []Violation

	resolved := make(map[int64]int)
	involved := make(map[int64][2]string)
	for _, m := range s.MatchHistory.All() {
		resolved[m.MatchID]++
		involved[m.MatchID] = [2]string{m.TeamA, m.TeamB}
	}
	for id, count := range resolved {
		if count > 1 {
			out = append(out, Violation{MatchID: id, Reason: fmt.Sprintf("resolved %d times", count)})
		}
	}

	for sport, item := range s.Schedule {
		for _, m := range item.Matchups {
			if _, ok := resolved[m.MatchID]; ok {
				out = append(out, Violation{MatchID: m.MatchID, Reason: "pending in " + sport + " and already resolved"})
			}
		}
	}

	for team, record := range s.TeamHistory {
		seen := make(map[int64]struct{}, len(record.Matches))
		for _, id := range record.Matches {
			if _, dup := seen[id]; dup {
				out = append(out, Violation{MatchID: id, Team: team, Reason: "referenced twice"})
				continue
			}
			seen[id] = struct{}{}

			pair, ok := involved[id]
			switch {
			case !ok:
				out = append(out, Violation{MatchID: id, Team: team, Reason: "no resolved record"})
			case pair[0] != team && pair[1] != team:
				out = append(out, Violation{MatchID: id, Team: team, Reason: "team did not play this match"})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchID != out[j].MatchID {
			return out[i].MatchID < out[j].MatchID
		}
		return out[i].Team < out[j].Team
	})
	return out
}
