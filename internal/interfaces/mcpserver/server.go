package mcpserver

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/riskibarqy/league-simulator/internal/domain/matchup"
	"github.com/riskibarqy/league-simulator/internal/domain/odds"
	"github.com/riskibarqy/league-simulator/internal/platform/logging"
	"github.com/riskibarqy/league-simulator/internal/usecase"
)

const (
	ServerName    = "league-simulator"
	ServerVersion = "1.0.0"
)

type ComputeOddsArgs struct {
	TeamA string `json:"team_a" jsonschema:"Name of the first team (required)"`
	TeamB string `json:"team_b" jsonschema:"Name of the second team (required, different from team_a)"`
}

type AdvanceNextMatchArgs struct {
	SportID string `json:"sport_id" jsonschema:"League sport id, e.g. football (required)"`
}

type NoArgs struct{}

// Tools exposes the simulator services as MCP tool handlers.
type Tools struct {
	league *usecase.LeagueService
	season *usecase.SeasonService
	odds   *usecase.OddsService
	logger *logging.Logger
}

func NewTools(league *usecase.LeagueService, season *usecase.SeasonService, odds *usecase.OddsService, logger *logging.Logger) *Tools {
	if logger == nil {
		logger = logging.Default()
	}
	return &Tools{league: league, season: season, odds: odds, logger: logger}
}

// NewServer builds an MCP server with every simulator tool registered.
func NewServer(tools *Tools) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: ServerVersion}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compute_odds",
		Description: "Decimal odds for team_a against team_b from head-to-head and overall history",
	}, tools.ComputeOdds)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "advance_next_match",
		Description: "Simulate the next pending matchup of one league",
	}, tools.AdvanceNextMatch)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "advance_all",
		Description: "Simulate the next pending matchup in every league",
	}, tools.AdvanceAll)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "build_schedule",
		Description: "Regenerate the round-robin schedule and the seeded past season",
	}, tools.BuildSchedule)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "upcoming",
		Description: "Next pending matchup of every league with odds",
	}, tools.Upcoming)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "randomize_team_stats",
		Description: "Assign attributes to teams that have none yet",
	}, tools.RandomizeTeamStats)

	return server
}

type matchOutput struct {
	MatchID    int64   `json:"match_id"`
	TeamA      string  `json:"team_a"`
	TeamB      string  `json:"team_b"`
	ScoreTeamA *int    `json:"score_team_a,omitempty"`
	ScoreTeamB *int    `json:"score_team_b,omitempty"`
	Winner     *string `json:"winner,omitempty"`
}

type advanceOutput struct {
	SportID   string       `json:"sport_id"`
	Processed bool         `json:"processed"`
	Match     *matchOutput `json:"match,omitempty"`
	Remaining int          `json:"remaining"`
}

type upcomingOutput struct {
	SportID string      `json:"sport_id"`
	Match   matchOutput `json:"match"`
	Odds    odds.Result `json:"odds"`
}

func (t *Tools) ComputeOdds(ctx context.Context, _ *mcp.CallToolRequest, args ComputeOddsArgs) (*mcp.CallToolResult, any, error) {
	result, err := t.odds.ComputeOdds(ctx, args.TeamA, args.TeamB)
	if err != nil {
		return t.toolError(ctx, "compute_odds", err), nil, nil
	}
	return toolJSON(result)
}

func (t *Tools) AdvanceNextMatch(ctx context.Context, _ *mcp.CallToolRequest, args AdvanceNextMatchArgs) (*mcp.CallToolResult, any, error) {
	result, err := t.season.AdvanceNextMatch(ctx, args.SportID)
	if err != nil {
		return t.toolError(ctx, "advance_next_match", err), nil, nil
	}
	return toolJSON(toAdvanceOutput(result))
}

func (t *Tools) AdvanceAll(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
	result, err := t.season.AdvanceAll(ctx)
	if err != nil {
		return t.toolError(ctx, "advance_all", err), nil, nil
	}

	out := struct {
		Results []advanceOutput   `json:"results"`
		Skipped map[string]string `json:"skipped"`
	}{
		Results: make([]advanceOutput, 0, len(result.Results)),
		Skipped: make(map[string]string, len(result.Skipped)),
	}
	for _, item := range result.Results {
		out.Results = append(out.Results, toAdvanceOutput(item))
	}
	for _, item := range result.Skipped {
		out.Skipped[item.SportID] = item.Reason
	}
	return toolJSON(out)
}

func (t *Tools) BuildSchedule(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
	result, err := t.season.BuildSchedule(ctx)
	if err != nil {
		return t.toolError(ctx, "build_schedule", err), nil, nil
	}
	return toolJSON(map[string]map[string]int{
		"pending":                 result.Pending,
		"resolved":                result.Resolved,
		"max_home_away_imbalance": result.Imbalance,
	})
}

func (t *Tools) Upcoming(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
	items, err := t.odds.Upcoming(ctx)
	if err != nil {
		return t.toolError(ctx, "upcoming", err), nil, nil
	}

	out := make([]upcomingOutput, 0, len(items))
	for _, item := range items {
		out = append(out, upcomingOutput{SportID: item.SportID, Match: toMatchOutput(item.Match), Odds: item.Odds})
	}
	return toolJSON(out)
}

func (t *Tools) RandomizeTeamStats(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
	result, err := t.league.RandomizeTeamStats(ctx)
	if err != nil {
		return t.toolError(ctx, "randomize_team_stats", err), nil, nil
	}
	return toolJSON(map[string]int{"randomized": result.Randomized, "total": result.Total})
}

func toMatchOutput(m matchup.Matchup) matchOutput {
	return matchOutput{
		MatchID:    m.MatchID,
		TeamA:      m.TeamA,
		TeamB:      m.TeamB,
		ScoreTeamA: m.ScoreTeamA,
		ScoreTeamB: m.ScoreTeamB,
		Winner:     m.Winner,
	}
}

func toAdvanceOutput(item usecase.AdvanceResult) advanceOutput {
	out := advanceOutput{SportID: item.SportID, Processed: item.Processed, Remaining: item.Remaining}
	if item.Processed {
		m := toMatchOutput(item.Match)
		out.Match = &m
	}
	return out
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}, nil, nil
}

func (t *Tools) toolError(ctx context.Context, tool string, err error) *mcp.CallToolResult {
	t.logger.WarnContext(ctx, "tool call failed", "tool", tool, "error", err)
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)}},
	}
}
