package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/tournaments", handler.ListTournaments)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/contests", handler.ListContestsByMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/scores", handler.ListMatchScores)
	mux.HandleFunc("GET /v1/matches/{matchID}/players/{playerID}/score", handler.GetPlayerScore)
	mux.HandleFunc("GET /v1/contests", handler.ListOpenContests)
	mux.HandleFunc("GET /v1/contests/{contestID}", handler.GetContest)
	mux.HandleFunc("GET /v1/contests/{contestID}/entries", handler.ListContestEntries)
	mux.HandleFunc("GET /v1/contests/{contestID}/leaderboard", handler.GetContestLeaderboard)
	mux.HandleFunc("GET /v1/contests/{contestID}/prize-pool", handler.GetPrizePool)
	mux.HandleFunc("GET /v1/scoring/rules", handler.ListScoringRules)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/fantasy/teams", RequireAuth(verifier, http.HandlerFunc(handler.CreateFantasyTeam)))
	mux.Handle("GET /v1/fantasy/teams/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyFantasyTeams)))
	mux.Handle("GET /v1/fantasy/teams/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.GetFantasyTeam)))
	mux.Handle("GET /v1/fantasy/teams/{teamID}/points", RequireAuth(verifier, http.HandlerFunc(handler.GetFantasyTeamPoints)))
	mux.Handle("POST /v1/contests", RequireAuth(verifier, http.HandlerFunc(handler.CreateContest)))
	mux.Handle("POST /v1/contests/{contestID}/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinContest)))
	mux.Handle("GET /v1/contests/entries/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyContestEntries)))
	mux.Handle("POST /v1/rewards/{rewardID}/claim", RequireAuth(verifier, http.HandlerFunc(handler.ClaimReward)))
	mux.Handle("GET /v1/rewards/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyRewards)))
	mux.Handle("GET /v1/transactions/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyTransactions)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/catalog/tournaments", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.UpsertTournament)))
	mux.Handle("POST /v1/internal/catalog/teams", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.UpsertTeam)))
	mux.Handle("POST /v1/internal/catalog/players", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.UpsertPlayer)))
	mux.Handle("POST /v1/internal/catalog/matches", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.UpsertMatch)))
	mux.Handle("PATCH /v1/internal/catalog/matches/{matchID}/status", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.UpdateMatchStatus)))
	mux.Handle("POST /v1/internal/scoring/player-stats", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RecordPlayerStats)))
	mux.Handle("POST /v1/internal/scoring/rules", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.AddScoringRule)))
	mux.Handle("POST /v1/internal/contests/{contestID}/prize-pool", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.CreatePrizePool)))
	mux.Handle("POST /v1/internal/contests/{contestID}/sync-points", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SyncContestPoints)))
	mux.Handle("POST /v1/internal/contests/{contestID}/finalize", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.FinalizeContest)))
	mux.Handle("POST /v1/internal/contests/{contestID}/distribute-rewards", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.DistributeRewards)))
	mux.Handle("POST /v1/internal/contests/{contestID}/cancel", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.CancelContest)))
	mux.Handle("POST /v1/internal/rewards/bonus", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.CreateBonusReward)))
	mux.Handle("POST /v1/internal/jobs/ingest-live", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunIngestLiveJob)))
	mux.Handle("POST /v1/internal/jobs/ingest-match/{matchID}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunIngestMatchJob)))
}
