package memory

import "github.com/riskibarqy/league-simulator/internal/domain/league"

const (
	SportFootball   = "football"
	SportBasketball = "basketball"
	SportHockey     = "hockey"
	SportBaseball   = "baseball"
	SportVolleyball = "volleyball"
)

// SeedLeagues returns the default rosters. Attributes are unset until
// randomized.
func SeedLeagues() []league.League {
	return []league.League{
		{SportID: SportFootball, Teams: teams("Arsenal", "Liverpool", "Persija Jakarta", "Persib Bandung", "Bali United", "Persebaya Surabaya")},
		{SportID: SportBasketball, Teams: teams("Lakers", "Celtics", "Bulls", "Warriors")},
		{SportID: SportHockey, Teams: teams("Maple Leafs", "Canadiens", "Rangers", "Bruins")},
		{SportID: SportBaseball, Teams: teams("Yankees", "Dodgers", "Red Sox", "Cubs")},
		{SportID: SportVolleyball, Teams: teams("Jakarta Pertamina", "Bandung BJB", "Surabaya Samator")},
	}
}

func teams(names ...string) []league.Team {
	out := make([]league.Team, 0, len(names))
	for _, name := range names {
		out = append(out, league.Team{Name: name})
	}
	return out
}
