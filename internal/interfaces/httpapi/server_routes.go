package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, cfg RouterConfig) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.Handle("GET /readyz", handler.Readyz(cfg.Readiness))
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/fixtures", handler.ListFixturesByGameweek)
	mux.HandleFunc("GET /v1/fixtures/upcoming", handler.ListUpcomingFixtures)
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}", handler.GetFixture)
	mux.HandleFunc("GET /v1/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/users/{userID}/dashboard", handler.GetDashboard)
	mux.HandleFunc("GET /v1/users/{userID}/stats", handler.GetUserStats)
	mux.HandleFunc("PUT /v1/users/{userID}/profile", handler.UpdateProfile)
	mux.HandleFunc("POST /v1/users/{userID}/predictions", handler.SubmitPrediction)
	mux.HandleFunc("GET /v1/users/{userID}/predictions", handler.ListUserPredictions)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireInternalJobToken(internalJobToken, h)
	}

	mux.Handle("POST /v1/admin/results", admin(handler.RecordResult))
	mux.Handle("POST /v1/admin/schedule", admin(handler.UpdateSchedule))
	mux.Handle("POST /v1/admin/import/{kind}", admin(handler.Import))
	mux.Handle("POST /v1/admin/scoring/rerun", admin(handler.RerunScoring))
}
