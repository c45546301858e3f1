package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/riskibarqy/league-simulator/internal/domain/league"
	"github.com/riskibarqy/league-simulator/internal/domain/matchup"
	"github.com/riskibarqy/league-simulator/internal/domain/season"
	"github.com/riskibarqy/league-simulator/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const defaultRecentMatchesLimit = 10

type LeagueService struct {
	repo        season.Repository
	lock        *WriteLock
	rng         *rand.Rand
	notifier    ChangeNotifier
	logger      *logging.Logger
	recentLimit int
}

type LeagueServiceConfig struct {
	Seed               uint64
	RecentMatchesLimit int
}

func NewLeagueService(
	repo season.Repository,
	lock *WriteLock,
	notifier ChangeNotifier,
	logger *logging.Logger,
	cfg LeagueServiceConfig,
) *LeagueService {
	if lock == nil {
		lock = NewWriteLock()
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.RecentMatchesLimit <= 0 {
		cfg.RecentMatchesLimit = defaultRecentMatchesLimit
	}

	return &LeagueService{
		repo:        repo,
		lock:        lock,
		rng:         newRand(cfg.Seed),
		notifier:    notifier,
		logger:      logger,
		recentLimit: cfg.RecentMatchesLimit,
	}
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListLeagues")
	defer span.End()

	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load leagues: %w", err)
	}

	return snap.Leagues, nil
}

// EnsureLeagues stores defaults when the store has no leagues at all. It
// reports whether anything was written.
func (s *LeagueService) EnsureLeagues(ctx context.Context, defaults []league.League) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.EnsureLeagues")
	defer span.End()

	for _, item := range defaults {
		if err := item.Validate(); err != nil {
			return false, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	seeded := false
	err := s.lock.Do(func() error {
		snap, err := s.repo.Load(ctx)
		if err != nil {
			return fmt.Errorf("load leagues: %w", err)
		}
		if len(snap.Leagues) > 0 || len(defaults) == 0 {
			return nil
		}

		snap.Leagues = slices.Clone(defaults)
		if err := s.repo.Save(ctx, snap); err != nil {
			s.logger.ErrorContext(ctx, "save default leagues failed", "error", err)
			return fmt.Errorf("%w: save leagues: %w", ErrPersistence, err)
		}
		s.notifier.Invalidate(ctx)
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if seeded {
		s.logger.InfoContext(ctx, "default leagues stored", "leagues", len(defaults))
	}
	return seeded, nil
}

type RandomizeResult struct {
	Randomized int
	Total      int
}

// RandomizeTeamStats assigns attributes to every team that has none yet.
// Teams that are already randomized are left alone.
func (s *LeagueService) RandomizeTeamStats(ctx context.Context) (RandomizeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.RandomizeTeamStats")
	defer span.End()

	var result RandomizeResult
	err := s.lock.Do(func() error {
		snap, err := s.repo.Load(ctx)
		if err != nil {
			return fmt.Errorf("load leagues: %w", err)
		}

		for i := range snap.Leagues {
			teams := snap.Leagues[i].Teams
			for j := range teams {
				result.Total++
				if teams[j].Randomize(s.rng) {
					result.Randomized++
				}
			}
		}
		if result.Randomized == 0 {
			return nil
		}

		if err := s.repo.Save(ctx, snap); err != nil {
			s.logger.ErrorContext(ctx, "save randomized team stats failed", "error", err)
			return fmt.Errorf("%w: save team stats: %w", ErrPersistence, err)
		}
		s.notifier.Invalidate(ctx)
		return nil
	})
	if err != nil {
		return RandomizeResult{}, err
	}

	s.logger.InfoContext(ctx, "team stats randomized", "randomized", result.Randomized, "total", result.Total)
	return result, nil
}

// RecentMatch is one entry of a team's history. Found is false when the
// team history points at a match id that has no resolved record.
type RecentMatch struct {
	MatchID int64
	SportID string
	Found   bool
	Match   matchup.Matchup
}

// RecentMatches returns the last limit matches of team, newest first.
func (s *LeagueService) RecentMatches(ctx context.Context, team string, limit int) ([]RecentMatch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.RecentMatches", attribute.String("team", team))
	defer span.End()

	team = strings.TrimSpace(team)
	if team == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = s.recentLimit
	}

	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load match history: %w", err)
	}

	ids := snap.TeamHistory.MatchIDs(team)
	if len(ids) == 0 && !hasTeam(snap.Leagues, team) {
		return nil, fmt.Errorf("%w: team=%s", ErrNotFound, team)
	}

	if len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}
	ids = slices.Clone(ids)
	slices.Reverse(ids)

	out := make([]RecentMatch, 0, len(ids))
	for _, matchID := range ids {
		m, sport, ok := snap.MatchHistory.Find(matchID)
		out = append(out, RecentMatch{MatchID: matchID, SportID: sport, Found: ok, Match: m})
	}

	return out, nil
}

func hasTeam(leagues []league.League, team string) bool {
	for _, item := range leagues {
		if _, ok := item.TeamByName(team); ok {
			return true
		}
	}
	return false
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
