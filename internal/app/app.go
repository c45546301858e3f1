package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/league-simulator/internal/config"
	"github.com/riskibarqy/league-simulator/internal/domain/odds"
	"github.com/riskibarqy/league-simulator/internal/domain/season"
	cacherepo "github.com/riskibarqy/league-simulator/internal/infrastructure/repository/cache"
	filerepo "github.com/riskibarqy/league-simulator/internal/infrastructure/repository/file"
	"github.com/riskibarqy/league-simulator/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-simulator/internal/interfaces/httpapi"
	"github.com/riskibarqy/league-simulator/internal/platform/cache"
	"github.com/riskibarqy/league-simulator/internal/platform/logging"
	"github.com/riskibarqy/league-simulator/internal/usecase"
)

// Services is the wired usecase layer shared by the HTTP and MCP binaries.
type Services struct {
	Repository season.Repository
	League     *usecase.LeagueService
	Season     *usecase.SeasonService
	Odds       *usecase.OddsService
	logger     *logging.Logger
}

func NewServices(cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repo, err := newRepository(cfg, logger)
	if err != nil {
		return nil, err
	}

	var oddsCache *cache.Store[odds.Result]
	if cfg.CacheEnabled {
		oddsCache = cache.NewStore[odds.Result](cfg.CacheTTL)
	}

	// All writers share one lock; the odds service is notified after saves.
	lock := usecase.NewWriteLock()
	oddsSvc := usecase.NewOddsService(repo, oddsCache, logger.Named("odds"))
	leagueSvc := usecase.NewLeagueService(repo, lock, oddsSvc, logger.Named("league"), usecase.LeagueServiceConfig{
		Seed:               cfg.SimSeed,
		RecentMatchesLimit: cfg.RecentMatchesLimit,
	})
	seasonSvc := usecase.NewSeasonService(repo, lock, nil, oddsSvc, logger.Named("season"), usecase.SeasonServiceConfig{
		Seed:           cfg.SimSeed,
		AdvanceWorkers: cfg.AdvanceWorkers,
	})

	return &Services{
		Repository: repo,
		League:     leagueSvc,
		Season:     seasonSvc,
		Odds:       oddsSvc,
		logger:     logger,
	}, nil
}

func newRepository(cfg config.Config, logger *logging.Logger) (season.Repository, error) {
	var repo season.Repository
	switch cfg.StoreDriver {
	case config.StoreMemory:
		repo = memory.NewSeasonRepository(memory.SeedLeagues())
	case config.StoreFile, "":
		fileRepo, err := filerepo.NewSeasonRepository(cfg.DataDir, logger.Named("store"))
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		repo = fileRepo
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}

	if cfg.CacheEnabled {
		repo = cacherepo.NewSeasonRepository(repo, cache.NewStore[season.Snapshot](cfg.CacheTTL))
	}

	logger.Info("season store ready",
		"driver", cfg.StoreDriver,
		"data_dir", cfg.DataDir,
		"cache_enabled", cfg.CacheEnabled,
	)
	return repo, nil
}

// Bootstrap prepares a fresh store: default leagues when none exist, stats
// for every team, and a schedule when no season has been built yet. An
// existing season is left untouched.
func (s *Services) Bootstrap(ctx context.Context) error {
	if _, err := s.League.EnsureLeagues(ctx, memory.SeedLeagues()); err != nil {
		return fmt.Errorf("ensure leagues: %w", err)
	}
	if _, err := s.League.RandomizeTeamStats(ctx); err != nil {
		return fmt.Errorf("randomize team stats: %w", err)
	}

	pending, err := s.Season.Schedule(ctx)
	if err != nil {
		return fmt.Errorf("load schedule: %w", err)
	}
	history, err := s.Season.MatchHistory(ctx)
	if err != nil {
		return fmt.Errorf("load match history: %w", err)
	}
	if countMatchups(pending)+countMatchups(history) > 0 {
		s.logger.InfoContext(ctx, "season already built, skipping schedule build")
		return nil
	}

	if _, err := s.Season.BuildSchedule(ctx); err != nil {
		return fmt.Errorf("build schedule: %w", err)
	}
	return nil
}

func countMatchups[M ~map[string]season.SportMatchups](items M) int {
	total := 0
	for _, item := range items {
		total += len(item.Matchups)
	}
	return total
}

func NewHTTPServer(cfg config.Config, services *Services, logger *logging.Logger) (*http.Server, error) {
	if services == nil {
		return nil, fmt.Errorf("services are required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	handler := httpapi.NewHandler(services.League, services.Season, services.Odds, logger.Named("http"))
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
