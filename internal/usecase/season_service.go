package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/league-simulator/internal/domain/league"
	"github.com/riskibarqy/league-simulator/internal/domain/matchup"
	"github.com/riskibarqy/league-simulator/internal/domain/schedule"
	"github.com/riskibarqy/league-simulator/internal/domain/season"
	"github.com/riskibarqy/league-simulator/internal/domain/simulation"
	"github.com/riskibarqy/league-simulator/internal/platform/id"
	"github.com/riskibarqy/league-simulator/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const defaultAdvanceWorkers = 4

type SeasonService struct {
	repo     season.Repository
	lock     *WriteLock
	sim      *simulation.Simulator
	rng      *rand.Rand
	notifier ChangeNotifier
	logger   *logging.Logger
	workers  int
}

type SeasonServiceConfig struct {
	Seed           uint64
	AdvanceWorkers int
}

func NewSeasonService(
	repo season.Repository,
	lock *WriteLock,
	sim *simulation.Simulator,
	notifier ChangeNotifier,
	logger *logging.Logger,
	cfg SeasonServiceConfig,
) *SeasonService {
	if lock == nil {
		lock = NewWriteLock()
	}
	rng := newRand(cfg.Seed)
	if sim == nil {
		sim = simulation.NewSimulator(rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64())))
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.AdvanceWorkers <= 0 {
		cfg.AdvanceWorkers = defaultAdvanceWorkers
	}

	return &SeasonService{
		repo:     repo,
		lock:     lock,
		sim:      sim,
		rng:      rng,
		notifier: notifier,
		logger:   logger,
		workers:  cfg.AdvanceWorkers,
	}
}

type BuildResult struct {
	Pending   map[string]int
	Resolved  map[string]int
	Imbalance map[string]int
}

// BuildSchedule regenerates the pending schedule and the seeded past season
// for every league. Existing schedule and history are replaced.
func (s *SeasonService) BuildSchedule(ctx context.Context) (BuildResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.BuildSchedule")
	defer span.End()

	var result BuildResult
	err := s.lock.Do(func() error {
		snap, err := s.repo.Load(ctx)
		if err != nil {
			return fmt.Errorf("load season: %w", err)
		}

		gen := schedule.NewGenerator(id.NewSequence(1), s.rng, s.sim)
		built, err := gen.Build(snap.Leagues)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}

		snap.Schedule = built.Schedule
		snap.MatchHistory = built.MatchHistory
		snap.TeamHistory = built.TeamHistory

		result = BuildResult{
			Pending:   make(map[string]int, len(built.Schedule)),
			Resolved:  make(map[string]int, len(built.MatchHistory)),
			Imbalance: built.Imbalance,
		}
		for sport, item := range built.Schedule {
			result.Pending[sport] = len(item.Matchups)
		}
		for sport, item := range built.MatchHistory {
			result.Resolved[sport] = len(item.Matchups)
		}

		if err := s.repo.Save(ctx, snap); err != nil {
			s.logger.ErrorContext(ctx, "save built schedule failed", "error", err)
			return fmt.Errorf("%w: save schedule: %w", ErrPersistence, err)
		}
		s.notifier.Invalidate(ctx)
		return nil
	})
	if err != nil {
		return BuildResult{}, err
	}

	for sport, imbalance := range result.Imbalance {
		s.logger.InfoContext(ctx, "schedule built",
			"sport_id", sport,
			"pending", result.Pending[sport],
			"resolved", result.Resolved[sport],
			"max_home_away_imbalance", imbalance,
		)
	}
	return result, nil
}

// AdvanceResult reports one league's advance. Processed is false when the
// league had nothing pending.
type AdvanceResult struct {
	SportID   string
	Processed bool
	Match     matchup.Matchup
	Remaining int
}

// AdvanceNextMatch resolves the lowest-order pending matchup of sportID.
// When the save fails the resolved match is still returned with an
// ErrPersistence error.
func (s *SeasonService) AdvanceNextMatch(ctx context.Context, sportID string) (AdvanceResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.AdvanceNextMatch", attribute.String("sport_id", sportID))
	defer span.End()

	sportID = strings.TrimSpace(sportID)
	if sportID == "" {
		return AdvanceResult{}, fmt.Errorf("%w: sport id is required", ErrInvalidInput)
	}

	result := AdvanceResult{SportID: sportID}
	err := s.lock.Do(func() error {
		snap, err := s.repo.Load(ctx)
		if err != nil {
			return fmt.Errorf("load season: %w", err)
		}

		item, ok := league.Find(snap.Leagues, sportID)
		if !ok {
			return fmt.Errorf("%w: league=%s", ErrNotFound, sportID)
		}

		m, ok, err := s.resolveNext(item, snap.Schedule)
		if err != nil {
			s.logger.WarnContext(ctx, "skip match with missing team stats", "sport_id", sportID, "error", err)
			return err
		}
		if !ok {
			return nil
		}

		result.Match = applyResolved(&snap, sportID, m)
		result.Processed = true
		result.Remaining = len(snap.Schedule[sportID].Matchups)

		if err := s.repo.Save(ctx, snap); err != nil {
			s.logger.ErrorContext(ctx, "save advanced match failed", "sport_id", sportID, "match_id", m.MatchID, "error", err)
			return fmt.Errorf("%w: save match %d: %w", ErrPersistence, m.MatchID, err)
		}
		s.notifier.Invalidate(ctx)
		return nil
	})
	if err != nil {
		return result, err
	}

	if result.Processed {
		s.logger.InfoContext(ctx, "match advanced",
			"sport_id", sportID,
			"match_id", result.Match.MatchID,
			"winner", result.Match.WinnerName(),
			"remaining", result.Remaining,
		)
	}
	return result, nil
}

// SkippedLeague is a league AdvanceAll could not process.
type SkippedLeague struct {
	SportID string
	Reason  string
}

type AdvanceAllResult struct {
	Results []AdvanceResult
	Skipped []SkippedLeague
}

type leagueAdvance struct {
	sportID string
	match   matchup.Matchup
	ok      bool
	err     error
}

// AdvanceAll resolves one pending matchup in every league that has one.
// Leagues are simulated on a worker pool; results are merged in sport order
// after every worker has finished and saved once.
func (s *SeasonService) AdvanceAll(ctx context.Context) (AdvanceAllResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.AdvanceAll")
	defer span.End()

	var result AdvanceAllResult
	err := s.lock.Do(func() error {
		snap, err := s.repo.Load(ctx)
		if err != nil {
			return fmt.Errorf("load season: %w", err)
		}

		sports := snap.Schedule.Sports()
		if len(sports) == 0 {
			return nil
		}

		advances, err := s.simulateLeagues(ctx, snap, sports)
		if err != nil {
			return err
		}

		for _, item := range advances {
			switch {
			case item.err != nil:
				result.Skipped = append(result.Skipped, SkippedLeague{SportID: item.sportID, Reason: item.err.Error()})
			case item.ok:
				resolved := applyResolved(&snap, item.sportID, item.match)
				result.Results = append(result.Results, AdvanceResult{
					SportID:   item.sportID,
					Processed: true,
					Match:     resolved,
					Remaining: len(snap.Schedule[item.sportID].Matchups),
				})
			}
		}
		if len(result.Results) == 0 {
			return nil
		}

		if err := s.repo.Save(ctx, snap); err != nil {
			s.logger.ErrorContext(ctx, "save advanced matches failed", "leagues", len(result.Results), "error", err)
			return fmt.Errorf("%w: save matches: %w", ErrPersistence, err)
		}
		s.notifier.Invalidate(ctx)
		return nil
	})
	if err != nil {
		return result, err
	}

	for _, item := range result.Skipped {
		s.logger.WarnContext(ctx, "league skipped", "sport_id", item.SportID, "reason", item.Reason)
	}
	s.logger.InfoContext(ctx, "matches advanced", "processed", len(result.Results), "skipped", len(result.Skipped))
	return result, nil
}

// simulateLeagues reads snap without mutating it; each task writes only its
// own slot.
func (s *SeasonService) simulateLeagues(ctx context.Context, snap season.Snapshot, sports []string) ([]leagueAdvance, error) {
	out := make([]leagueAdvance, len(sports))

	pool, err := ants.NewPool(min(s.workers, len(sports)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, sportID := range sports {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := leagueAdvance{sportID: sportID}
			item, ok := league.Find(snap.Leagues, sportID)
			if !ok {
				row.err = fmt.Errorf("%w: league=%s has pending matches but no roster", ErrMissingTeamStats, sportID)
			} else {
				row.match, row.ok, row.err = s.resolveNext(item, snap.Schedule)
			}
			out[i] = row
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit league %s to worker pool: %w", sportID, err)
		}
	}
	workers.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// resolveNext simulates the next pending matchup of item without touching
// the schedule.
func (s *SeasonService) resolveNext(item league.League, pending season.Schedule) (matchup.Matchup, bool, error) {
	m, ok := pending.NextPending(item.SportID)
	if !ok {
		return matchup.Matchup{}, false, nil
	}

	teamA, okA := item.TeamByName(m.TeamA)
	teamB, okB := item.TeamByName(m.TeamB)
	if !okA || !okB {
		return matchup.Matchup{}, false, fmt.Errorf("%w: match %d %s vs %s in %s",
			ErrMissingTeamStats, m.MatchID, m.TeamA, m.TeamB, item.SportID)
	}

	outcome := s.sim.Play(item.SportID, teamA, teamB)
	m.Resolve(outcome.ScoreA, outcome.ScoreB)
	return m, true, nil
}

func applyResolved(snap *season.Snapshot, sportID string, m matchup.Matchup) matchup.Matchup {
	snap.Normalize()
	stored := snap.MatchHistory.Append(sportID, m)
	snap.TeamHistory.Record(m.TeamA, m.MatchID)
	snap.TeamHistory.Record(m.TeamB, m.MatchID)
	snap.Schedule.Remove(sportID, m.MatchID)
	return stored
}

func (s *SeasonService) Schedule(ctx context.Context) (season.Schedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Schedule")
	defer span.End()

	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	return snap.Schedule, nil
}

func (s *SeasonService) MatchHistory(ctx context.Context) (season.MatchHistory, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.MatchHistory")
	defer span.End()

	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load match history: %w", err)
	}
	return snap.MatchHistory, nil
}

func (s *SeasonService) TeamHistory(ctx context.Context) (season.TeamHistory, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.TeamHistory")
	defer span.End()

	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load team history: %w", err)
	}
	return snap.TeamHistory, nil
}

// Verify reports integrity violations between the stored collections.
func (s *SeasonService) Verify(ctx context.Context) ([]season.Violation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Verify")
	defer span.End()

	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load season: %w", err)
	}

	violations := snap.Verify()
	if len(violations) > 0 {
		s.logger.WarnContext(ctx, "season integrity violations", "count", len(violations))
	}
	return violations, nil
}
