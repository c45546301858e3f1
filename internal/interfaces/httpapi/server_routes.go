package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/integrity", handler.Integrity)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("POST /v1/leagues/randomize", handler.RandomizeTeamStats)
	mux.HandleFunc("GET /v1/teams/{teamName}/recent", handler.RecentMatches)
}

func registerSeasonRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/schedule/build", handler.BuildSchedule)
	mux.HandleFunc("GET /v1/schedule", handler.Schedule)
	mux.HandleFunc("GET /v1/match-history", handler.MatchHistory)
	mux.HandleFunc("GET /v1/team-history", handler.TeamHistory)
	mux.HandleFunc("POST /v1/matches/next", handler.AdvanceAll)
	mux.HandleFunc("POST /v1/leagues/{sportID}/matches/next", handler.AdvanceNextMatch)
}

func registerOddsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/odds", handler.ComputeOdds)
	mux.HandleFunc("GET /v1/upcoming", handler.Upcoming)
}
