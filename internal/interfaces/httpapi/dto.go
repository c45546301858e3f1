package httpapi

import (
	"sort"

	"github.com/riskibarqy/league-simulator/internal/domain/league"
	"github.com/riskibarqy/league-simulator/internal/domain/matchup"
	"github.com/riskibarqy/league-simulator/internal/domain/odds"
	"github.com/riskibarqy/league-simulator/internal/domain/season"
	"github.com/riskibarqy/league-simulator/internal/usecase"
)

type recentMatchesRequest struct {
	TeamName string `validate:"required,max=128"`
	Limit    int    `validate:"gte=0,lte=100"`
}

type advanceRequest struct {
	SportID string `validate:"required,max=64"`
}

type oddsRequest struct {
	TeamA string `validate:"required,max=128"`
	TeamB string `validate:"required,max=128,nefield=TeamA"`
}

type teamDTO struct {
	Name       string `json:"name"`
	Speed      int    `json:"speed"`
	Agility    int    `json:"agility"`
	Attack     int    `json:"attack"`
	Defense    int    `json:"defense"`
	Overall    int    `json:"overall"`
	Randomized bool   `json:"randomized"`
}

type leagueDTO struct {
	Sport string    `json:"sport"`
	Teams []teamDTO `json:"teams"`
}

type matchupDTO struct {
	MatchID    int64   `json:"matchId"`
	Order      int     `json:"order"`
	TeamA      string  `json:"teamA"`
	TeamB      string  `json:"teamB"`
	ScoreTeamA *int    `json:"scoreTeamA"`
	ScoreTeamB *int    `json:"scoreTeamB"`
	Winner     *string `json:"winner"`
}

type sportMatchupsDTO struct {
	Sport    string       `json:"sport"`
	Matchups []matchupDTO `json:"matchups"`
}

type teamHistoryDTO struct {
	Team    string  `json:"team"`
	Matches []int64 `json:"matches"`
}

type randomizeResultDTO struct {
	Randomized int `json:"randomized"`
	Total      int `json:"total"`
}

type buildResultDTO struct {
	Pending   map[string]int `json:"pending"`
	Resolved  map[string]int `json:"resolved"`
	Imbalance map[string]int `json:"maxHomeAwayImbalance"`
}

type recentMatchDTO struct {
	MatchID int64       `json:"matchId"`
	Found   bool        `json:"found"`
	SportID *string     `json:"sport,omitempty"`
	Match   *matchupDTO `json:"match,omitempty"`
}

type recentMatchesDTO struct {
	Team    string           `json:"team"`
	Matches []recentMatchDTO `json:"matches"`
}

type advanceResultDTO struct {
	SportID   string      `json:"sport"`
	Processed bool        `json:"processed"`
	Match     *matchupDTO `json:"match,omitempty"`
	Remaining int         `json:"remaining"`
}

type skippedLeagueDTO struct {
	SportID string `json:"sport"`
	Reason  string `json:"reason"`
}

type advanceAllDTO struct {
	Results []advanceResultDTO `json:"results"`
	Skipped []skippedLeagueDTO `json:"skipped"`
}

type upcomingDTO struct {
	SportID string      `json:"sport"`
	Match   matchupDTO  `json:"match"`
	Odds    odds.Result `json:"odds"`
}

type integrityDTO struct {
	Consistent bool     `json:"consistent"`
	Violations []string `json:"violations"`
}

func leaguesToDTO(items []league.League) []leagueDTO {
	out := make([]leagueDTO, 0, len(items))
	for _, item := range items {
		teams := make([]teamDTO, 0, len(item.Teams))
		for _, t := range item.Teams {
			teams = append(teams, teamDTO{
				Name:       t.Name,
				Speed:      t.Speed,
				Agility:    t.Agility,
				Attack:     t.Attack,
				Defense:    t.Defense,
				Overall:    t.Overall,
				Randomized: t.Randomized,
			})
		}
		out = append(out, leagueDTO{Sport: item.SportID, Teams: teams})
	}
	return out
}

func matchupToDTO(m matchup.Matchup) matchupDTO {
	return matchupDTO{
		MatchID:    m.MatchID,
		Order:      m.Order,
		TeamA:      m.TeamA,
		TeamB:      m.TeamB,
		ScoreTeamA: m.ScoreTeamA,
		ScoreTeamB: m.ScoreTeamB,
		Winner:     m.Winner,
	}
}

// sportsToDTO flattens a per-sport collection into a list sorted by sport.
func sportsToDTO[M ~map[string]season.SportMatchups](items M) []sportMatchupsDTO {
	sports := make([]string, 0, len(items))
	for sport := range items {
		sports = append(sports, sport)
	}
	sort.Strings(sports)

	out := make([]sportMatchupsDTO, 0, len(sports))
	for _, sport := range sports {
		matchups := make([]matchupDTO, 0, len(items[sport].Matchups))
		for _, m := range items[sport].Matchups {
			matchups = append(matchups, matchupToDTO(m))
		}
		out = append(out, sportMatchupsDTO{Sport: sport, Matchups: matchups})
	}
	return out
}

func teamHistoryToDTO(items season.TeamHistory) []teamHistoryDTO {
	teams := make([]string, 0, len(items))
	for team := range items {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	out := make([]teamHistoryDTO, 0, len(teams))
	for _, team := range teams {
		matches := items[team].Matches
		if matches == nil {
			matches = []int64{}
		}
		out = append(out, teamHistoryDTO{Team: team, Matches: matches})
	}
	return out
}

func advanceResultToDTO(item usecase.AdvanceResult) advanceResultDTO {
	out := advanceResultDTO{
		SportID:   item.SportID,
		Processed: item.Processed,
		Remaining: item.Remaining,
	}
	if item.Processed {
		match := matchupToDTO(item.Match)
		out.Match = &match
	}
	return out
}
