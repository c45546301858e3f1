package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/riskibarqy/league-simulator/internal/domain/league"
	"github.com/riskibarqy/league-simulator/internal/domain/matchup"
	"github.com/riskibarqy/league-simulator/internal/domain/season"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *SeasonRepository {
	t.Helper()

	repo, err := NewSeasonRepository(t.TempDir(), nil)
	require.NoError(t, err)
	return repo
}

func TestSeasonRepository_MissingFilesLoadEmpty(t *testing.T) {
	t.Parallel()

	snap, err := newRepo(t).Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, snap.Leagues)
	require.NotNil(t, snap.Schedule)
	require.NotNil(t, snap.MatchHistory)
	require.NotNil(t, snap.TeamHistory)
}

func TestSeasonRepository_SaveThenLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newRepo(t)

	snap := season.NewSnapshot([]league.League{{
		SportID: "hockey",
		Teams: []league.Team{
			{Name: "Rangers", Speed: 10, Agility: 20, Attack: 30, Defense: 40, Overall: 25, Randomized: true},
			{Name: "Bruins"},
		},
	}})
	snap.Schedule["hockey"] = season.SportMatchups{Matchups: []matchup.Matchup{
		{TeamA: "Bruins", TeamB: "Rangers", MatchID: 2, Order: 1},
	}}
	played := matchup.Matchup{TeamA: "Rangers", TeamB: "Bruins", MatchID: 1}
	played.Resolve(3, 1)
	snap.MatchHistory.Append("hockey", played)
	snap.TeamHistory.Record("Rangers", 1)
	snap.TeamHistory.Record("Bruins", 1)

	require.NoError(t, repo.Save(ctx, snap))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, snap.Leagues, got.Leagues)
	require.Len(t, got.Schedule["hockey"].Matchups, 1)
	require.False(t, got.Schedule["hockey"].Matchups[0].IsResolved())

	stored := got.MatchHistory["hockey"].Matchups[0]
	require.True(t, stored.IsResolved())
	require.Equal(t, 3, *stored.ScoreTeamA)
	require.Equal(t, "Rangers", stored.WinnerName())
	require.Equal(t, 1, stored.Order)
	require.Equal(t, []int64{1}, got.TeamHistory.MatchIDs("Bruins"))
	require.Empty(t, got.Verify())

	entries, err := os.ReadDir(repo.Dir())
	require.NoError(t, err)
	for _, entry := range entries {
		require.False(t, strings.Contains(entry.Name(), ".tmp-"), "temp file left behind: %s", entry.Name())
	}
}

func TestSeasonRepository_ReadsOriginalFileShapes(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(repo.Dir(), name), []byte(body), 0o644))
	}
	write(TeamsFile, `[{"sport":"football","teams":[{"name":"A","randomized":false},{"name":"B","randomized":false}]}]`)
	write(ScheduleFile, `{"football":{"matchups":[{"teamA":"A","teamB":"B","matchId":7,"scoreTeamA":0,"scoreTeamB":0,"winner":null,"order":1}]}}`)
	write(MatchHistoryFile, `{"football":{"matchups":[{"teamA":"B","teamB":"A","matchId":3,"scoreTeamA":1,"scoreTeamB":1,"winner":"draw","order":1}]}}`)
	write(TeamHistoryFile, `{"A":{"matches":[3]},"B":{"matches":[3]}}`)

	got, err := repo.Load(context.Background())
	require.NoError(t, err)

	pending := got.Schedule["football"].Matchups[0]
	require.Nil(t, pending.ScoreTeamA, "pending scores should be dropped")
	require.Equal(t, int64(7), pending.MatchID)
	require.Equal(t, matchup.WinnerDraw, got.MatchHistory["football"].Matchups[0].WinnerName())
	require.Empty(t, got.Verify())
}

func TestSeasonRepository_MalformedFile(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(repo.Dir(), MatchHistoryFile), []byte(`{"football":`), 0o644))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, season.ErrMalformedStore), "got %v", err)
	require.Contains(t, err.Error(), MatchHistoryFile)
}

func TestSeasonRepository_EmptyFileIsEmptyCollection(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(repo.Dir(), TeamHistoryFile), []byte("\n"), 0o644))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, got.TeamHistory)
}

func TestNewSeasonRepository_RequiresDir(t *testing.T) {
	t.Parallel()

	_, err := NewSeasonRepository("", nil)
	require.Error(t, err)
}
