package odds

import (
	"math"
	"strconv"

	"github.com/riskibarqy/league-simulator/internal/domain/matchup"
	"github.com/riskibarqy/league-simulator/internal/domain/season"
)

// Placeholder odds used when there is nothing to divide by.
const (
	PlaceholderWin  Price = 2.00
	PlaceholderDraw Price = 3.33

	scoreShift Price = 0.10
	ratioShift Price = 0.15
)

// Price is a decimal odds value kept at two decimal places.
type Price float64

func (p Price) String() string {
	return strconv.FormatFloat(float64(p), 'f', 2, 64)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if n := len(raw); n >= 2 && raw[0] == '"' && raw[n-1] == '"' {
		raw = raw[1 : n-1]
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*p = Price(round2(v))
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (p Price) add(delta Price) Price {
	return Price(round2(float64(p) + float64(delta)))
}

// Odds is the three-way price of a prospective matchup.
type Odds struct {
	TeamA Price `json:"oddsTeamA"`
	Draw  Price `json:"oddsDraw"`
	TeamB Price `json:"oddsTeamB"`
}

// Stats are the raw counts behind a Result, oriented by team name.
type Stats struct {
	TotalMatches      int     `json:"totalMatches"`
	TeamAWins         int     `json:"teamAWins"`
	TeamBWins         int     `json:"teamBWins"`
	Draws             int     `json:"draws"`
	TotalScoreTeamA   int     `json:"totalScoreTeamA"`
	TotalScoreTeamB   int     `json:"totalScoreTeamB"`
	AverageScoreTeamA float64 `json:"averageScoreTeamA"`
	AverageScoreTeamB float64 `json:"averageScoreTeamB"`
	OverallGamesTeamA int     `json:"overallGamesTeamA"`
	OverallGamesTeamB int     `json:"overallGamesTeamB"`
	OverallWinsTeamA  int     `json:"overallWinsTeamA"`
	OverallWinsTeamB  int     `json:"overallWinsTeamB"`
	WinRatioTeamA     float64 `json:"winRatioTeamA"`
	WinRatioTeamB     float64 `json:"winRatioTeamB"`
}

type Result struct {
	TeamA string `json:"teamA"`
	TeamB string `json:"teamB"`
	Odds
	Base  Odds  `json:"baseOdds"`
	Stats Stats `json:"stats"`
}

// Calculate derives odds for teamA against teamB from the resolved history.
// Missing history never fails; it falls back to placeholder prices.
func Calculate(teamA, teamB string, history season.MatchHistory, refs season.TeamHistory) Result {
	stats := gather(teamA, teamB, history, refs)

	base := Odds{
		TeamA: fairPrice(stats.TotalMatches, stats.TeamAWins, PlaceholderWin),
		Draw:  fairPrice(stats.TotalMatches, stats.Draws, PlaceholderDraw),
		TeamB: fairPrice(stats.TotalMatches, stats.TeamBWins, PlaceholderWin),
	}

	final := base
	final.shift(stats.AverageScoreTeamA, stats.AverageScoreTeamB, scoreShift)
	// Applies even without head-to-head matches.
	final.shift(stats.WinRatioTeamA, stats.WinRatioTeamB, ratioShift)

	return Result{
		TeamA: teamA,
		TeamB: teamB,
		Odds:  final,
		Base:  base,
		Stats: stats,
	}
}

// shift moves delta odds-points toward whichever side has the larger metric.
func (o *Odds) shift(metricA, metricB float64, delta Price) {
	switch {
	case metricA > metricB:
		o.TeamA = o.TeamA.add(-delta)
		o.TeamB = o.TeamB.add(delta)
	case metricB > metricA:
		o.TeamB = o.TeamB.add(-delta)
		o.TeamA = o.TeamA.add(delta)
	}
}

func fairPrice(total, count int, placeholder Price) Price {
	if total == 0 || count == 0 {
		return placeholder
	}
	return Price(round2(float64(total) / float64(count)))
}

func gather(teamA, teamB string, history season.MatchHistory, refs season.TeamHistory) Stats {
	idsA := idSet(refs.MatchIDs(teamA))
	idsB := idSet(refs.MatchIDs(teamB))

	var s Stats
	for _, sport := range history {
		for _, m := range sport.Matchups {
			_, inA := idsA[m.MatchID]
			_, inB := idsB[m.MatchID]
			if inA && inB && m.IsPair(teamA, teamB) {
				s.TotalMatches++
				s.TotalScoreTeamA += m.ScoreFor(teamA)
				s.TotalScoreTeamB += m.ScoreFor(teamB)
				switch m.WinnerName() {
				case teamA:
					s.TeamAWins++
				case teamB:
					s.TeamBWins++
				case matchup.WinnerDraw:
					s.Draws++
				}
			}

			if m.Involves(teamA) {
				s.OverallGamesTeamA++
				if m.WinnerName() == teamA {
					s.OverallWinsTeamA++
				}
			}
			if m.Involves(teamB) {
				s.OverallGamesTeamB++
				if m.WinnerName() == teamB {
					s.OverallWinsTeamB++
				}
			}
		}
	}

	s.AverageScoreTeamA = safeRatio(s.TotalScoreTeamA, s.TotalMatches)
	s.AverageScoreTeamB = safeRatio(s.TotalScoreTeamB, s.TotalMatches)
	s.WinRatioTeamA = safeRatio(s.OverallWinsTeamA, s.OverallGamesTeamA)
	s.WinRatioTeamB = safeRatio(s.OverallWinsTeamB, s.OverallGamesTeamB)
	return s
}

func safeRatio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return round2(float64(num) / float64(den))
}

func idSet(ids []int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
