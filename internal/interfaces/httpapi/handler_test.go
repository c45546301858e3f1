package httpapi

import (
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/league-simulator/internal/domain/league"
	"github.com/riskibarqy/league-simulator/internal/domain/odds"
	"github.com/riskibarqy/league-simulator/internal/domain/simulation"
	"github.com/riskibarqy/league-simulator/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-simulator/internal/platform/cache"
	"github.com/riskibarqy/league-simulator/internal/platform/logging"
	"github.com/riskibarqy/league-simulator/internal/usecase"
)

type envelope[T any] struct {
	APIVersion string           `json:"apiVersion"`
	Data       T                `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	team := func(name string, base int) league.Team {
		return league.Team{Name: name, Speed: base, Agility: base, Attack: base + 10, Defense: base, Overall: base, Randomized: true}
	}
	repo := memory.NewSeasonRepository([]league.League{
		{SportID: "football", Teams: []league.Team{team("Arsenal", 70), team("Liverpool", 65), team("Chelsea", 50), team("Everton", 40)}},
		{SportID: "hockey", Teams: []league.Team{team("Rangers", 60), team("Bruins", 55), team("Canadiens", 45)}},
	})

	logger := logging.NewNop()
	lock := usecase.NewWriteLock()
	oddsService := usecase.NewOddsService(repo, cache.NewStore[odds.Result](0), logger)
	sim := simulation.NewSimulator(rand.New(rand.NewPCG(3, 4)))
	handler := NewHandler(
		usecase.NewLeagueService(repo, lock, oddsService, logger, usecase.LeagueServiceConfig{Seed: 5}),
		usecase.NewSeasonService(repo, lock, sim, oddsService, logger, usecase.SeasonServiceConfig{Seed: 6, AdvanceWorkers: 2}),
		oddsService,
		logger,
	)
	return NewRouter(handler, logger, true, []string{"*"})
}

func do[T any](t *testing.T, router http.Handler, method, target string) (int, envelope[T]) {
	t.Helper()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var body envelope[T]
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("%s %s: unmarshal %q: %v", method, target, rec.Body.String(), err)
	}
	return rec.Code, body
}

func TestHandler_Healthz(t *testing.T) {
	router := newTestRouter(t)

	code, body := do[map[string]string](t, router, http.MethodGet, "/healthz")
	if code != http.StatusOK || body.Data["status"] != "ok" {
		t.Fatalf("unexpected healthz response: %d %+v", code, body)
	}
}

func TestHandler_SeasonFlow(t *testing.T) {
	router := newTestRouter(t)

	code, built := do[buildResultDTO](t, router, http.MethodPost, "/v1/schedule/build")
	if code != http.StatusOK {
		t.Fatalf("build schedule status=%d error=%+v", code, built.Error)
	}
	if built.Data.Pending["football"] != 6 || built.Data.Pending["hockey"] != 3 {
		t.Fatalf("unexpected pending counts: %+v", built.Data.Pending)
	}

	code, schedule := do[[]sportMatchupsDTO](t, router, http.MethodGet, "/v1/schedule")
	if code != http.StatusOK || len(schedule.Data) != 2 || schedule.Data[0].Sport != "football" {
		t.Fatalf("unexpected schedule: %d %+v", code, schedule.Data)
	}

	code, advanced := do[advanceResultDTO](t, router, http.MethodPost, "/v1/leagues/football/matches/next")
	if code != http.StatusOK {
		t.Fatalf("advance status=%d error=%+v", code, advanced.Error)
	}
	if !advanced.Data.Processed || advanced.Data.Match == nil || advanced.Data.Match.Winner == nil {
		t.Fatalf("expected a resolved match, got %+v", advanced.Data)
	}
	if advanced.Data.Remaining != 5 {
		t.Fatalf("expected 5 remaining, got %d", advanced.Data.Remaining)
	}

	code, all := do[advanceAllDTO](t, router, http.MethodPost, "/v1/matches/next")
	if code != http.StatusOK || len(all.Data.Results) != 2 || len(all.Data.Skipped) != 0 {
		t.Fatalf("unexpected advance all: %d %+v", code, all.Data)
	}

	code, integrity := do[integrityDTO](t, router, http.MethodGet, "/v1/integrity")
	if code != http.StatusOK || !integrity.Data.Consistent {
		t.Fatalf("expected consistent season, got %+v", integrity.Data)
	}

	code, recent := do[recentMatchesDTO](t, router, http.MethodGet, "/v1/teams/Arsenal/recent?limit=2")
	if code != http.StatusOK || len(recent.Data.Matches) != 2 {
		t.Fatalf("unexpected recent matches: %d %+v", code, recent.Data)
	}
	for _, item := range recent.Data.Matches {
		if !item.Found || item.Match == nil {
			t.Fatalf("expected resolved match for id %d", item.MatchID)
		}
	}

	code, upcoming := do[[]map[string]any](t, router, http.MethodGet, "/v1/upcoming")
	if code != http.StatusOK || len(upcoming.Data) != 2 {
		t.Fatalf("unexpected upcoming: %d %+v", code, upcoming.Data)
	}
}

func TestHandler_AdvanceNextMatch_Errors(t *testing.T) {
	router := newTestRouter(t)

	code, body := do[any](t, router, http.MethodPost, "/v1/leagues/curling/matches/next")
	if code != http.StatusNotFound || body.Error == nil || body.Error.Status != "NOT_FOUND" {
		t.Fatalf("expected 404 NOT_FOUND, got %d %+v", code, body.Error)
	}

	code, nothing := do[advanceResultDTO](t, router, http.MethodPost, "/v1/leagues/hockey/matches/next")
	if code != http.StatusOK || nothing.Data.Processed || nothing.Data.Match != nil {
		t.Fatalf("expected no-op advance before build, got %d %+v", code, nothing.Data)
	}
}

func TestHandler_ComputeOdds(t *testing.T) {
	router := newTestRouter(t)

	code, body := do[map[string]any](t, router, http.MethodGet, "/v1/odds?teamA=Arsenal&teamB=Liverpool")
	if code != http.StatusOK {
		t.Fatalf("compute odds status=%d error=%+v", code, body.Error)
	}
	if body.Data["teamA"] != "Arsenal" || body.Data["oddsDraw"] != "3.33" || body.Data["oddsTeamA"] != "2.00" {
		t.Fatalf("expected placeholder odds without history, got %+v", body.Data)
	}

	tests := []string{
		"/v1/odds?teamA=Arsenal",
		"/v1/odds?teamB=Arsenal",
		"/v1/odds?teamA=Arsenal&teamB=Arsenal",
		"/v1/odds?teamA=%20&teamB=Arsenal",
	}
	for _, target := range tests {
		code, body := do[any](t, router, http.MethodGet, target)
		if code != http.StatusBadRequest || body.Error == nil || body.Error.Status != "INVALID_ARGUMENT" {
			t.Fatalf("%s: expected 400, got %d %+v", target, code, body.Error)
		}
	}
}

func TestHandler_RecentMatches_Validation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		target string
		want   int
	}{
		{"/v1/teams/Arsenal/recent?limit=abc", http.StatusBadRequest},
		{"/v1/teams/Arsenal/recent?limit=-1", http.StatusBadRequest},
		{"/v1/teams/Arsenal/recent?limit=1000", http.StatusBadRequest},
		{"/v1/teams/Nobody/recent", http.StatusNotFound},
		{"/v1/teams/Arsenal/recent", http.StatusOK},
	}
	for _, tt := range tests {
		code, _ := do[any](t, router, http.MethodGet, tt.target)
		if code != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.target, tt.want, code)
		}
	}
}

func TestHandler_RandomizeAndListLeagues(t *testing.T) {
	router := newTestRouter(t)

	code, randomized := do[randomizeResultDTO](t, router, http.MethodPost, "/v1/leagues/randomize")
	if code != http.StatusOK || randomized.Data.Total != 7 || randomized.Data.Randomized != 0 {
		t.Fatalf("unexpected randomize result: %d %+v", code, randomized.Data)
	}

	code, leagues := do[[]leagueDTO](t, router, http.MethodGet, "/v1/leagues")
	if code != http.StatusOK || len(leagues.Data) != 2 || leagues.Data[0].Teams[0].Name != "Arsenal" {
		t.Fatalf("unexpected leagues: %d %+v", code, leagues.Data)
	}
}

func TestHandler_OpenAPI(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/v1/odds") {
		t.Fatalf("unexpected openapi response: %d", rec.Code)
	}
}
