package memory

import (
	"context"
	"testing"

	"github.com/riskibarqy/league-simulator/internal/domain/matchup"
	"github.com/riskibarqy/league-simulator/internal/domain/season"
)

func TestSeasonRepository_LoadReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSeasonRepository(SeedLeagues())

	snap, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	snap.Leagues[0].Teams[0].Name = "Changed"
	snap.Schedule["football"] = season.SportMatchups{Matchups: []matchup.Matchup{{TeamA: "Arsenal", TeamB: "Liverpool", MatchID: 1}}}

	again, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load again: %v", err)
	}
	if again.Leagues[0].Teams[0].Name != "Arsenal" {
		t.Fatalf("load leaked internal state: %s", again.Leagues[0].Teams[0].Name)
	}
	if len(again.Schedule) != 0 {
		t.Fatalf("expected empty schedule, got %v", again.Schedule)
	}
}

func TestSeasonRepository_SaveReplacesSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSeasonRepository(SeedLeagues())

	snap, _ := repo.Load(ctx)
	m := matchup.Matchup{TeamA: "Arsenal", TeamB: "Liverpool", MatchID: 1}
	m.Resolve(2, 2)
	snap.MatchHistory.Append("football", m)
	snap.TeamHistory.Record("Arsenal", 1)
	snap.TeamHistory.Record("Liverpool", 1)
	if err := repo.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	*snap.MatchHistory["football"].Matchups[0].ScoreTeamA = 7

	got, _ := repo.Load(ctx)
	stored := got.MatchHistory["football"].Matchups[0]
	if *stored.ScoreTeamA != 2 || stored.WinnerName() != matchup.WinnerDraw {
		t.Fatalf("unexpected stored match: %+v", stored)
	}
	if len(got.Verify()) != 0 {
		t.Fatalf("unexpected violations: %v", got.Verify())
	}
}

func TestSeasonRepository_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewSeasonRepository(nil)
	if _, err := repo.Load(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestSeedLeagues_AreValid(t *testing.T) {
	t.Parallel()

	for _, item := range SeedLeagues() {
		if err := item.Validate(); err != nil {
			t.Fatalf("seed league %s invalid: %v", item.SportID, err)
		}
		if len(item.Teams) < 2 {
			t.Fatalf("seed league %s has too few teams", item.SportID)
		}
	}
}
