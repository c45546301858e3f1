package file

import (
	"github.com/riskibarqy/league-simulator/internal/domain/league"
	"github.com/riskibarqy/league-simulator/internal/domain/matchup"
	"github.com/riskibarqy/league-simulator/internal/domain/season"
)

type teamRecord struct {
	Name       string `json:"name"`
	Speed      int    `json:"speed"`
	Agility    int    `json:"agility"`
	Attack     int    `json:"attack"`
	Defense    int    `json:"defense"`
	Overall    int    `json:"overall"`
	Randomized bool   `json:"randomized"`
}

type leagueRecord struct {
	Sport string       `json:"sport"`
	Teams []teamRecord `json:"teams"`
}

type matchupRecord struct {
	TeamA      string  `json:"teamA"`
	TeamB      string  `json:"teamB"`
	MatchID    int64   `json:"matchId"`
	Order      int     `json:"order"`
	ScoreTeamA *int    `json:"scoreTeamA"`
	ScoreTeamB *int    `json:"scoreTeamB"`
	Winner     *string `json:"winner"`
}

type sportRecord struct {
	Matchups []matchupRecord `json:"matchups"`
}

type teamHistoryRecord struct {
	Matches []int64 `json:"matches"`
}

func toLeagues(items []leagueRecord) []league.League {
	out := make([]league.League, 0, len(items))
	for _, item := range items {
		teams := make([]league.Team, 0, len(item.Teams))
		for _, t := range item.Teams {
			teams = append(teams, league.Team{
				Name:       t.Name,
				Speed:      t.Speed,
				Agility:    t.Agility,
				Attack:     t.Attack,
				Defense:    t.Defense,
				Overall:    t.Overall,
				Randomized: t.Randomized,
			})
		}
		out = append(out, league.League{SportID: item.Sport, Teams: teams})
	}
	return out
}

func fromLeagues(items []league.League) []leagueRecord {
	out := make([]leagueRecord, 0, len(items))
	for _, item := range items {
		teams := make([]teamRecord, 0, len(item.Teams))
		for _, t := range item.Teams {
			teams = append(teams, teamRecord{
				Name:       t.Name,
				Speed:      t.Speed,
				Agility:    t.Agility,
				Attack:     t.Attack,
				Defense:    t.Defense,
				Overall:    t.Overall,
				Randomized: t.Randomized,
			})
		}
		out = append(out, leagueRecord{Sport: item.SportID, Teams: teams})
	}
	return out
}

// toSports converts stored matchups. Pending records written by older tools
// carry zero scores with a null winner; those scores are dropped.
func toSports(items map[string]sportRecord, resolved bool) map[string]season.SportMatchups {
	out := make(map[string]season.SportMatchups, len(items))
	for sport, item := range items {
		matchups := make([]matchup.Matchup, 0, len(item.Matchups))
		for _, rec := range item.Matchups {
			m := matchup.Matchup{
				TeamA:   rec.TeamA,
				TeamB:   rec.TeamB,
				MatchID: rec.MatchID,
				Order:   rec.Order,
			}
			if resolved || rec.Winner != nil {
				m.ScoreTeamA = rec.ScoreTeamA
				m.ScoreTeamB = rec.ScoreTeamB
				m.Winner = rec.Winner
			}
			matchups = append(matchups, m)
		}
		out[sport] = season.SportMatchups{Matchups: matchups}
	}
	return out
}

func fromSports[M ~map[string]season.SportMatchups](items M) map[string]sportRecord {
	out := make(map[string]sportRecord, len(items))
	for sport, item := range items {
		recs := make([]matchupRecord, 0, len(item.Matchups))
		for _, m := range item.Matchups {
			recs = append(recs, matchupRecord{
				TeamA:      m.TeamA,
				TeamB:      m.TeamB,
				MatchID:    m.MatchID,
				Order:      m.Order,
				ScoreTeamA: m.ScoreTeamA,
				ScoreTeamB: m.ScoreTeamB,
				Winner:     m.Winner,
			})
		}
		out[sport] = sportRecord{Matchups: recs}
	}
	return out
}

func toTeamHistory(items map[string]teamHistoryRecord) season.TeamHistory {
	out := make(season.TeamHistory, len(items))
	for team, item := range items {
		out[team] = season.TeamRecord{Matches: item.Matches}
	}
	return out
}

func fromTeamHistory(items season.TeamHistory) map[string]teamHistoryRecord {
	out := make(map[string]teamHistoryRecord, len(items))
	for team, item := range items {
		matches := item.Matches
		if matches == nil {
			matches = []int64{}
		}
		out[team] = teamHistoryRecord{Matches: matches}
	}
	return out
}
