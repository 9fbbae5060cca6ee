package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/league", handler.GetLeague)
	mux.HandleFunc("GET /v1/league/status", handler.GetLeagueStatus)
	mux.HandleFunc("GET /v1/league/pending-entries", handler.ListPendingEntries)
	mux.HandleFunc("POST /v1/league/refresh", handler.RefreshLeague)
	mux.HandleFunc("GET /v1/table", handler.GetSeasonTable)
	mux.HandleFunc("GET /v1/entries/{entryID}/gameweeks/{gameweek}/score", handler.GetEntryScore)
	mux.HandleFunc("GET /v1/entries/{entryID}/gameweeks/{gameweek}/breakdown", handler.GetEntryBreakdown)
	mux.HandleFunc("GET /v1/entries/{entryID}/transfers", handler.ListEntryTransfers)
}

func registerGameweekRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/gameweeks", handler.ListGameweeks)
	mux.HandleFunc("GET /v1/gameweeks/current", handler.GetCurrentGameweek)
	mux.HandleFunc("GET /v1/gameweeks/{gameweek}/table", handler.GetGameweekTable)
	mux.HandleFunc("GET /v1/gameweeks/{gameweek}/summary", handler.GetGameweekSummary)
	mux.HandleFunc("GET /v1/gameweeks/{gameweek}/top-performers", handler.ListTopPerformers)
	mux.HandleFunc("GET /v1/gameweeks/{gameweek}/players", handler.ListGameweekPlayers)
	mux.HandleFunc("GET /v1/gameweeks/{gameweek}/stats/{statKind}", handler.GetGameweekStats)
}

func registerTrackerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/tracker", handler.GetTrackerStatus)
	mux.HandleFunc("POST /v1/tracker/start", handler.StartTracker)
	mux.HandleFunc("POST /v1/tracker/stop", handler.StopTracker)
	mux.HandleFunc("GET /v1/changes", handler.GetLiveChanges)
}
