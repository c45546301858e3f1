package simulation

import (
	"math"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/riskibarqy/league-simulator/internal/domain/league"
	"github.com/riskibarqy/league-simulator/internal/domain/matchup"
)

// Profile describes the typical score magnitude of a sport. Mean is the
// expected score of an evenly matched side and Spread bounds the uniform
// noise added on top.
type Profile struct {
	Mean   float64
	Spread int
}

var DefaultProfile = Profile{Mean: 10, Spread: 3}

var profiles = map[string]Profile{
	"football":   {Mean: 1.4, Spread: 1},
	"soccer":     {Mean: 1.4, Spread: 1},
	"hockey":     {Mean: 3, Spread: 2},
	"baseball":   {Mean: 4.5, Spread: 2},
	"basketball": {Mean: 100, Spread: 12},
	"volleyball": {Mean: 3, Spread: 1},
}

func ProfileFor(sport string) Profile {
	if p, ok := profiles[strings.ToLower(strings.TrimSpace(sport))]; ok {
		return p
	}
	return DefaultProfile
}

// CompareStats weighs a's offense against b's resistance and vice versa.
// Both values fall in (0,1); 0.5 means an even contest.
func CompareStats(a, b league.Team) (scoreA, scoreB float64) {
	return ratio(offense(a), resistance(b)), ratio(offense(b), resistance(a))
}

func offense(t league.Team) float64 {
	return 0.4*float64(t.Attack) + 0.2*float64(t.Speed) + 0.2*float64(t.Agility) + 0.2*float64(t.Overall)
}

func resistance(t league.Team) float64 {
	return 0.6*float64(t.Defense) + 0.2*float64(t.Agility) + 0.2*float64(t.Overall)
}

func ratio(attack, defense float64) float64 {
	if attack+defense <= 0 {
		return 0.5
	}
	return attack / (attack + defense)
}

// Outcome is a simulated final score.
type Outcome struct {
	ScoreA int
	ScoreB int
	Winner string
}

// Simulator turns team attributes into scores. It is safe for concurrent use.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulator(rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Simulator{rng: rng}
}

// GenerateScore maps raw comparison values into non-negative integer scores.
func (s *Simulator) GenerateScore(sport string, scoreA, scoreB float64) (int, int) {
	profile := ProfileFor(sport)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sample(profile, scoreA), s.sample(profile, scoreB)
}

func (s *Simulator) sample(p Profile, raw float64) int {
	expected := int(math.Round(raw * 2 * p.Mean))
	noise := 0
	if p.Spread > 0 {
		noise = s.rng.IntN(2*p.Spread+1) - p.Spread
	}
	return max(0, expected+noise)
}

// Play simulates a full contest between a and b.
func (s *Simulator) Play(sport string, a, b league.Team) Outcome {
	rawA, rawB := CompareStats(a, b)
	scoreA, scoreB := s.GenerateScore(sport, rawA, rawB)
	return Outcome{
		ScoreA: scoreA,
		ScoreB: scoreB,
		Winner: matchup.DecideWinner(a.Name, b.Name, scoreA, scoreB),
	}
}
