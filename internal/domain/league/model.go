package league

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

const (
	MinAttribute = 1
	MaxAttribute = 100
)

var ErrTeamNotFound = errors.New("team not found in roster")

// Team is one competitor inside a league. The name is its identity key.
type Team struct {
	Name       string
	Speed      int
	Agility    int
	Attack     int
	Defense    int
	Overall    int
	Randomized bool
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if !t.Randomized {
		return nil
	}
	for label, value := range map[string]int{
		"speed":   t.Speed,
		"agility": t.Agility,
		"attack":  t.Attack,
		"defense": t.Defense,
		"overall": t.Overall,
	} {
		if value < MinAttribute || value > MaxAttribute {
			return fmt.Errorf("team %s %s=%d out of range [%d,%d]", t.Name, label, value, MinAttribute, MaxAttribute)
		}
	}

	return nil
}

// Randomize assigns attributes once. It reports whether anything changed;
// a team that is already randomized keeps its attributes.
func (t *Team) Randomize(rng *rand.Rand) bool {
	if t.Randomized {
		return false
	}

	t.Speed = rng.IntN(MaxAttribute) + MinAttribute
	t.Agility = rng.IntN(MaxAttribute) + MinAttribute
	t.Attack = rng.IntN(MaxAttribute) + MinAttribute
	t.Defense = rng.IntN(MaxAttribute) + MinAttribute
	t.Overall = int(math.Round(float64(t.Speed+t.Agility+t.Attack+t.Defense) / 4))
	t.Randomized = true
	return true
}

// League is a sport's roster competing in a single schedule.
type League struct {
	SportID string
	Teams   []Team
}

func (l League) Validate() error {
	if strings.TrimSpace(l.SportID) == "" {
		return fmt.Errorf("league sport id is required")
	}

	seen := make(map[string]struct{}, len(l.Teams))
	for _, team := range l.Teams {
		if err := team.Validate(); err != nil {
			return fmt.Errorf("league %s: %w", l.SportID, err)
		}
		if _, ok := seen[team.Name]; ok {
			return fmt.Errorf("league %s: duplicate team name %q", l.SportID, team.Name)
		}
		seen[team.Name] = struct{}{}
	}

	return nil
}

func (l League) TeamByName(name string) (Team, bool) {
	for _, team := range l.Teams {
		if team.Name == name {
			return team, true
		}
	}

	return Team{}, false
}

func (l League) TeamNames() []string {
	out := make([]string, 0, len(l.Teams))
	for _, team := range l.Teams {
		out = append(out, team.Name)
	}
	return out
}

// Find returns the league registered for sportID.
func Find(leagues []League, sportID string) (League, bool) {
	for _, item := range leagues {
		if item.SportID == sportID {
			return item, true
		}
	}

	return League{}, false
}
