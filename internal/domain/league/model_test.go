package league

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func TestTeam_RandomizeIsIdempotent(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(8, 9))
	team := Team{Name: "Lions"}

	if changed := team.Randomize(rng); !changed {
		t.Fatalf("expected first randomize to change the team")
	}
	if err := team.Validate(); err != nil {
		t.Fatalf("randomized team should validate: %v", err)
	}

	avg := float64(team.Speed+team.Agility+team.Attack+team.Defense) / 4
	if diff := float64(team.Overall) - avg; diff > 0.5 || diff < -0.5 {
		t.Fatalf("overall %d is not the rounded average %f", team.Overall, avg)
	}

	before := team
	if changed := team.Randomize(rng); changed {
		t.Fatalf("expected second randomize to be a no-op")
	}
	if team != before {
		t.Fatalf("attributes changed on second randomize: %+v -> %+v", before, team)
	}
}

func TestTeam_RandomizeStaysInRange(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 2000; i++ {
		team := Team{Name: "T"}
		team.Randomize(rng)
		for _, v := range []int{team.Speed, team.Agility, team.Attack, team.Defense, team.Overall} {
			if v < MinAttribute || v > MaxAttribute {
				t.Fatalf("attribute %d out of range: %+v", v, team)
			}
		}
	}
}

func TestLeague_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		league  League
		wantErr string
	}{
		{
			name:   "valid unrandomized roster",
			league: League{SportID: "football", Teams: []Team{{Name: "A"}, {Name: "B"}}},
		},
		{
			name:    "missing sport",
			league:  League{Teams: []Team{{Name: "A"}}},
			wantErr: "sport id is required",
		},
		{
			name:    "duplicate names",
			league:  League{SportID: "hockey", Teams: []Team{{Name: "A"}, {Name: "A"}}},
			wantErr: "duplicate team name",
		},
		{
			name:    "out of range attribute",
			league:  League{SportID: "hockey", Teams: []Team{{Name: "A", Speed: 101, Agility: 1, Attack: 1, Defense: 1, Overall: 1, Randomized: true}}},
			wantErr: "out of range",
		},
		{
			name:    "blank team name",
			league:  League{SportID: "hockey", Teams: []Team{{Name: "  "}}},
			wantErr: "team name is required",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.league.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestFindAndTeamByName(t *testing.T) {
	t.Parallel()

	leagues := []League{
		{SportID: "football", Teams: []Team{{Name: "A"}, {Name: "B"}}},
		{SportID: "hockey", Teams: []Team{{Name: "C"}}},
	}

	item, ok := Find(leagues, "hockey")
	if !ok || item.SportID != "hockey" {
		t.Fatalf("expected hockey league, got %+v ok=%v", item, ok)
	}
	if _, ok := Find(leagues, "curling"); ok {
		t.Fatalf("expected curling to be missing")
	}
	if _, ok := item.TeamByName("A"); ok {
		t.Fatalf("team A does not belong to hockey")
	}
	if names := leagues[0].TeamNames(); len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Fatalf("unexpected names: %v", names)
	}
}
