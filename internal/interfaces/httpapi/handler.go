package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-simulator/internal/platform/logging"
	"github.com/riskibarqy/league-simulator/internal/usecase"
)

type Handler struct {
	leagueService *usecase.LeagueService
	seasonService *usecase.SeasonService
	oddsService   *usecase.OddsService
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	seasonService *usecase.SeasonService,
	oddsService *usecase.OddsService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService: leagueService,
		seasonService: seasonService,
		oddsService:   oddsService,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	items, err := h.leagueService.ListLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaguesToDTO(items))
}

func (h *Handler) RandomizeTeamStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RandomizeTeamStats")
	defer span.End()

	result, err := h.leagueService.RandomizeTeamStats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "randomize team stats failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, randomizeResultDTO{
		Randomized: result.Randomized,
		Total:      result.Total,
	})
}

func (h *Handler) RecentMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecentMatches")
	defer span.End()

	limit, err := parseOptionalInt(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: limit: %v", usecase.ErrInvalidInput, err))
		return
	}
	req := recentMatchesRequest{
		TeamName: strings.TrimSpace(r.PathValue("teamName")),
		Limit:    limit,
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.leagueService.RecentMatches(ctx, req.TeamName, req.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "recent matches failed", "team", req.TeamName, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]recentMatchDTO, 0, len(items))
	for _, item := range items {
		dto := recentMatchDTO{MatchID: item.MatchID, Found: item.Found}
		if item.Found {
			sport := item.SportID
			match := matchupToDTO(item.Match)
			dto.SportID = &sport
			dto.Match = &match
		}
		out = append(out, dto)
	}

	writeSuccess(ctx, w, http.StatusOK, recentMatchesDTO{Team: req.TeamName, Matches: out})
}

func (h *Handler) BuildSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BuildSchedule")
	defer span.End()

	result, err := h.seasonService.BuildSchedule(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "build schedule failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, buildResultDTO{
		Pending:   result.Pending,
		Resolved:  result.Resolved,
		Imbalance: result.Imbalance,
	})
}

func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Schedule")
	defer span.End()

	items, err := h.seasonService.Schedule(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get schedule failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sportsToDTO(items))
}

func (h *Handler) MatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MatchHistory")
	defer span.End()

	items, err := h.seasonService.MatchHistory(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get match history failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sportsToDTO(items))
}

func (h *Handler) TeamHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TeamHistory")
	defer span.End()

	items, err := h.seasonService.TeamHistory(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get team history failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamHistoryToDTO(items))
}

func (h *Handler) AdvanceNextMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdvanceNextMatch")
	defer span.End()

	req := advanceRequest{SportID: strings.TrimSpace(r.PathValue("sportID"))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.seasonService.AdvanceNextMatch(ctx, req.SportID)
	if err != nil {
		h.logger.WarnContext(ctx, "advance next match failed", "sport_id", req.SportID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, advanceResultToDTO(result))
}

func (h *Handler) AdvanceAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdvanceAll")
	defer span.End()

	result, err := h.seasonService.AdvanceAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "advance all leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := advanceAllDTO{
		Results: make([]advanceResultDTO, 0, len(result.Results)),
		Skipped: make([]skippedLeagueDTO, 0, len(result.Skipped)),
	}
	for _, item := range result.Results {
		out.Results = append(out.Results, advanceResultToDTO(item))
	}
	for _, item := range result.Skipped {
		out.Skipped = append(out.Skipped, skippedLeagueDTO{SportID: item.SportID, Reason: item.Reason})
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ComputeOdds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ComputeOdds")
	defer span.End()

	query := r.URL.Query()
	req := oddsRequest{
		TeamA: strings.TrimSpace(query.Get("teamA")),
		TeamB: strings.TrimSpace(query.Get("teamB")),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.oddsService.ComputeOdds(ctx, req.TeamA, req.TeamB)
	if err != nil {
		h.logger.WarnContext(ctx, "compute odds failed", "team_a", req.TeamA, "team_b", req.TeamB, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Upcoming")
	defer span.End()

	items, err := h.oddsService.Upcoming(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list upcoming matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]upcomingDTO, 0, len(items))
	for _, item := range items {
		out = append(out, upcomingDTO{
			SportID: item.SportID,
			Match:   matchupToDTO(item.Match),
			Odds:    item.Odds,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) Integrity(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Integrity")
	defer span.End()

	violations, err := h.seasonService.Verify(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "verify season failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := integrityDTO{Consistent: len(violations) == 0, Violations: make([]string, 0, len(violations))}
	for _, v := range violations {
		out.Violations = append(out.Violations, v.String())
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func parseOptionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			return 0, numErr.Err
		}
		return 0, err
	}
	return v, nil
}
