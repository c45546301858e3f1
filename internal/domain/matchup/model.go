package matchup

// WinnerDraw labels a resolved matchup whose scores are equal.
const WinnerDraw = "draw"

// Matchup is one scheduled or resolved contest between two named teams.
// Scores and Winner stay nil while the matchup is pending.
type Matchup struct {
	TeamA      string
	TeamB      string
	MatchID    int64
	Order      int
	ScoreTeamA *int
	ScoreTeamB *int
	Winner     *string
}

func (m Matchup) IsResolved() bool {
	return m.ScoreTeamA != nil && m.ScoreTeamB != nil && m.Winner != nil
}

func (m Matchup) Involves(team string) bool {
	return m.TeamA == team || m.TeamB == team
}

// IsPair reports whether the matchup is between a and b in either orientation.
func (m Matchup) IsPair(a, b string) bool {
	return (m.TeamA == a && m.TeamB == b) || (m.TeamA == b && m.TeamB == a)
}

func (m Matchup) WinnerName() string {
	if m.Winner == nil {
		return ""
	}
	return *m.Winner
}

// Resolve records the final scores and derives the winner label.
func (m *Matchup) Resolve(scoreA, scoreB int) {
	winner := DecideWinner(m.TeamA, m.TeamB, scoreA, scoreB)
	m.ScoreTeamA = &scoreA
	m.ScoreTeamB = &scoreB
	m.Winner = &winner
}

// ScoreFor returns the score of team in this matchup, oriented by name.
func (m Matchup) ScoreFor(team string) int {
	switch {
	case m.TeamA == team && m.ScoreTeamA != nil:
		return *m.ScoreTeamA
	case m.TeamB == team && m.ScoreTeamB != nil:
		return *m.ScoreTeamB
	default:
		return 0
	}
}

func DecideWinner(teamA, teamB string, scoreA, scoreB int) string {
	switch {
	case scoreA > scoreB:
		return teamA
	case scoreB > scoreA:
		return teamB
	default:
		return WinnerDraw
	}
}
