package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/league-simulator/internal/domain/league"
	"github.com/riskibarqy/league-simulator/internal/domain/matchup"
	"github.com/riskibarqy/league-simulator/internal/domain/season"
	"github.com/riskibarqy/league-simulator/internal/infrastructure/repository/memory"
	seasonmock "github.com/riskibarqy/league-simulator/internal/mocks/domain/season"
	"github.com/stretchr/testify/mock"
)

func TestLeagueService_RandomizeTeamStatsIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewSeasonRepository(memory.SeedLeagues())
	notifier := &countingNotifier{}
	service := NewLeagueService(repo, NewWriteLock(), notifier, nil, LeagueServiceConfig{Seed: 5})

	first, err := service.RandomizeTeamStats(ctx)
	if err != nil {
		t.Fatalf("randomize: %v", err)
	}
	if first.Randomized == 0 || first.Randomized != first.Total {
		t.Fatalf("expected every team randomized, got %+v", first)
	}

	snap, _ := repo.Load(ctx)
	for _, item := range snap.Leagues {
		if err := item.Validate(); err != nil {
			t.Fatalf("league %s invalid after randomize: %v", item.SportID, err)
		}
		for _, team := range item.Teams {
			if !team.Randomized {
				t.Fatalf("team %s not randomized", team.Name)
			}
		}
	}

	second, err := service.RandomizeTeamStats(ctx)
	if err != nil {
		t.Fatalf("second randomize: %v", err)
	}
	if second.Randomized != 0 {
		t.Fatalf("expected no-op, got %+v", second)
	}

	again, _ := repo.Load(ctx)
	if again.Leagues[0].Teams[0] != snap.Leagues[0].Teams[0] {
		t.Fatalf("attributes changed: %+v -> %+v", snap.Leagues[0].Teams[0], again.Leagues[0].Teams[0])
	}
	if notifier.count() != 1 {
		t.Fatalf("expected a single invalidation, got %d", notifier.count())
	}
}

func TestLeagueService_RandomizeTeamStatsSkipsSaveWhenNothingChanged(t *testing.T) {
	t.Parallel()

	repo := seasonmock.NewRepository(t)
	service := NewLeagueService(repo, nil, nil, nil, LeagueServiceConfig{})

	repo.On("Load", mock.Anything).Return(season.NewSnapshot(testLeagues()), nil).Once()

	got, err := service.RandomizeTeamStats(context.Background())
	if err != nil {
		t.Fatalf("randomize: %v", err)
	}
	if got.Randomized != 0 || got.Total != 7 {
		t.Fatalf("unexpected result: %+v", got)
	}
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLeagueService_RandomizeTeamStatsSaveFailure(t *testing.T) {
	t.Parallel()

	repo := seasonmock.NewRepository(t)
	service := NewLeagueService(repo, nil, nil, nil, LeagueServiceConfig{})

	repo.On("Load", mock.Anything).Return(season.NewSnapshot(memory.SeedLeagues()), nil).Once()
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("read-only fs")).Once()

	if _, err := service.RandomizeTeamStats(context.Background()); !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestLeagueService_RecentMatches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	snap := season.NewSnapshot(testLeagues())
	for id := int64(1); id <= 4; id++ {
		m := matchup.Matchup{TeamA: "Arsenal", TeamB: "Chelsea", MatchID: id}
		m.Resolve(int(id), 0)
		snap.MatchHistory.Append("football", m)
		snap.TeamHistory.Record("Arsenal", id)
		snap.TeamHistory.Record("Chelsea", id)
	}
	snap.TeamHistory.Record("Arsenal", 99)

	repo := memory.NewSeasonRepository(nil)
	if err := repo.Save(ctx, snap); err != nil {
		t.Fatalf("seed: %v", err)
	}
	service := NewLeagueService(repo, nil, nil, nil, LeagueServiceConfig{RecentMatchesLimit: 3})

	got, err := service.RecentMatches(ctx, "Arsenal", 0)
	if err != nil {
		t.Fatalf("recent matches: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected default limit of 3, got %d", len(got))
	}
	if got[0].MatchID != 99 || got[0].Found {
		t.Fatalf("expected dangling newest entry, got %+v", got[0])
	}
	if got[1].MatchID != 4 || !got[1].Found || got[1].SportID != "football" {
		t.Fatalf("unexpected second entry: %+v", got[1])
	}
	if got[2].MatchID != 3 {
		t.Fatalf("expected newest first, got %+v", got)
	}

	all, err := service.RecentMatches(ctx, "Chelsea", 10)
	if err != nil || len(all) != 4 {
		t.Fatalf("expected all 4 Chelsea matches, got %d %v", len(all), err)
	}
}

func TestLeagueService_RecentMatchesErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewSeasonRepository(testLeagues())
	service := NewLeagueService(repo, nil, nil, nil, LeagueServiceConfig{})

	if _, err := service.RecentMatches(ctx, "", 5); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := service.RecentMatches(ctx, "Nobody", 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	got, err := service.RecentMatches(ctx, "Everton", 5)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty history for known team, got %v %v", got, err)
	}
}

func TestLeagueService_ListLeagues(t *testing.T) {
	t.Parallel()

	repo := seasonmock.NewRepository(t)
	service := NewLeagueService(repo, nil, nil, nil, LeagueServiceConfig{})
	boom := errors.New("boom")

	repo.On("Load", mock.Anything).Return(season.Snapshot{Leagues: []league.League{{SportID: "football"}}}, nil).Once()
	repo.On("Load", mock.Anything).Return(season.Snapshot{}, boom).Once()

	got, err := service.ListLeagues(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected result: %v %v", got, err)
	}
	if _, err := service.ListLeagues(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped load error, got %v", err)
	}
}

func TestLeagueService_EnsureLeagues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewSeasonRepository(nil)
	notifier := &countingNotifier{}
	service := NewLeagueService(repo, NewWriteLock(), notifier, nil, LeagueServiceConfig{})

	seeded, err := service.EnsureLeagues(ctx, memory.SeedLeagues())
	if err != nil {
		t.Fatalf("ensure leagues: %v", err)
	}
	if !seeded || notifier.count() != 1 {
		t.Fatalf("expected defaults stored once, seeded=%v notifications=%d", seeded, notifier.count())
	}

	again, err := service.EnsureLeagues(ctx, []league.League{{SportID: "curling", Teams: []league.Team{{Name: "Stones"}}}})
	if err != nil {
		t.Fatalf("ensure leagues again: %v", err)
	}
	if again {
		t.Fatalf("expected existing leagues to be kept")
	}

	items, _ := service.ListLeagues(ctx)
	if len(items) != len(memory.SeedLeagues()) || items[0].SportID != memory.SportFootball {
		t.Fatalf("unexpected leagues after ensure: %+v", items)
	}
}

func TestLeagueService_EnsureLeaguesRejectsInvalidDefaults(t *testing.T) {
	t.Parallel()

	service := NewLeagueService(seasonmock.NewRepository(t), nil, nil, nil, LeagueServiceConfig{})

	_, err := service.EnsureLeagues(context.Background(), []league.League{{SportID: "football", Teams: []league.Team{{Name: "A"}, {Name: "A"}}}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
