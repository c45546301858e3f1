package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/league-simulator/internal/domain/matchup"
	"github.com/riskibarqy/league-simulator/internal/domain/odds"
	"github.com/riskibarqy/league-simulator/internal/domain/season"
	"github.com/riskibarqy/league-simulator/internal/platform/cache"
	"github.com/riskibarqy/league-simulator/internal/platform/logging"
	"github.com/sourcegraph/conc/iter"
	"go.opentelemetry.io/otel/attribute"
)

const oddsCachePrefix = "odds:"

type OddsService struct {
	repo   season.Repository
	cache  *cache.Store[odds.Result]
	logger *logging.Logger
}

// NewOddsService builds the service. A nil store disables caching.
func NewOddsService(repo season.Repository, store *cache.Store[odds.Result], logger *logging.Logger) *OddsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &OddsService{
		repo:   repo,
		cache:  store,
		logger: logger,
	}
}

// ComputeOdds prices teamA against teamB from the resolved history. Teams
// without history get placeholder odds rather than an error.
func (s *OddsService) ComputeOdds(ctx context.Context, teamA, teamB string) (odds.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsService.ComputeOdds",
		attribute.String("team_a", teamA),
		attribute.String("team_b", teamB),
	)
	defer span.End()

	teamA = strings.TrimSpace(teamA)
	teamB = strings.TrimSpace(teamB)
	if teamA == "" || teamB == "" {
		return odds.Result{}, fmt.Errorf("%w: both team names are required", ErrInvalidInput)
	}
	if teamA == teamB {
		return odds.Result{}, fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
	}

	load := func(ctx context.Context) (odds.Result, error) {
		snap, err := s.repo.Load(ctx)
		if err != nil {
			return odds.Result{}, fmt.Errorf("load match history: %w", err)
		}
		return odds.Calculate(teamA, teamB, snap.MatchHistory, snap.TeamHistory), nil
	}

	if s.cache == nil {
		return load(ctx)
	}
	return s.cache.GetOrLoad(ctx, oddsCachePrefix+teamA+"\x00"+teamB, load)
}

// Invalidate drops cached odds. Writers call it after every save.
func (s *OddsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.Purge(ctx)
	s.logger.DebugContext(ctx, "odds cache invalidated")
}

// UpcomingMatch is the next pending matchup of a league with its odds.
type UpcomingMatch struct {
	SportID string
	Match   matchup.Matchup
	Odds    odds.Result
}

// Upcoming lists the next pending matchup of every league, priced from a
// single snapshot.
func (s *OddsService) Upcoming(ctx context.Context) ([]UpcomingMatch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsService.Upcoming")
	defer span.End()

	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load season: %w", err)
	}

	var next []UpcomingMatch
	for _, sport := range snap.Schedule.Sports() {
		m, ok := snap.Schedule.NextPending(sport)
		if !ok {
			continue
		}
		next = append(next, UpcomingMatch{SportID: sport, Match: m})
	}

	return iter.Map(next, func(item *UpcomingMatch) UpcomingMatch {
		out := *item
		out.Odds = odds.Calculate(item.Match.TeamA, item.Match.TeamB, snap.MatchHistory, snap.TeamHistory)
		return out
	}), nil
}
