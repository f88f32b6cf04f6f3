package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/auth/register", handler.Register)
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
	mux.HandleFunc("POST /v1/auth/refresh", handler.Refresh)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedAccountRoutes(mux, handler, verifier)
	registerAuthorizedDivisionRoutes(mux, handler, verifier)
	registerAuthorizedTeamRoutes(mux, handler, verifier)
	registerAuthorizedTrainingRoutes(mux, handler, verifier)
	registerAuthorizedFormationRoutes(mux, handler, verifier)
}

func registerAuthorizedAccountRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/auth/logout", RequireAuth(verifier, http.HandlerFunc(handler.Logout)))
	mux.Handle("GET /v1/me", RequireAuth(verifier, http.HandlerFunc(handler.Me)))
}

func registerAuthorizedDivisionRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/divisions", RequireAuth(verifier, http.HandlerFunc(handler.ListDivisions)))
	mux.Handle("GET /v1/divisions/{divisionID}/eligibility", RequireAuth(verifier, http.HandlerFunc(handler.CheckEligibility)))
}

func registerAuthorizedTeamRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/teams", RequireAuth(verifier, http.HandlerFunc(handler.ListTeams)))
	mux.Handle("POST /v1/teams", RequireAuth(verifier, http.HandlerFunc(handler.CreateTeam)))
	mux.Handle("GET /v1/teams/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.GetTeam)))
	mux.Handle("PUT /v1/teams/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateTeam)))
	mux.Handle("DELETE /v1/teams/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteTeam)))

	mux.Handle("GET /v1/teams/{teamID}/players", RequireAuth(verifier, http.HandlerFunc(handler.ListPlayers)))
	mux.Handle("POST /v1/teams/{teamID}/players", RequireAuth(verifier, http.HandlerFunc(handler.AddPlayer)))
	mux.Handle("POST /v1/teams/{teamID}/players/import", RequireAuth(verifier, http.HandlerFunc(handler.ImportRoster)))
	mux.Handle("GET /v1/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.GetPlayer)))
	mux.Handle("PUT /v1/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdatePlayer)))
	mux.Handle("DELETE /v1/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.DeletePlayer)))
}

func registerAuthorizedTrainingRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/teams/{teamID}/training-sessions", RequireAuth(verifier, http.HandlerFunc(handler.ListSessions)))
	mux.Handle("POST /v1/teams/{teamID}/training-sessions", RequireAuth(verifier, http.HandlerFunc(handler.CreateSession)))
	mux.Handle("POST /v1/training-sessions/{sessionID}/cancel", RequireAuth(verifier, http.HandlerFunc(handler.CancelSession)))
	mux.Handle("GET /v1/training-sessions/{sessionID}/attendances", RequireAuth(verifier, http.HandlerFunc(handler.ListAttendances)))
	mux.Handle("PUT /v1/training-sessions/{sessionID}/attendances", RequireAuth(verifier, http.HandlerFunc(handler.MarkAttendance)))
}

func registerAuthorizedFormationRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/teams/{teamID}/formations", RequireAuth(verifier, http.HandlerFunc(handler.ListFormations)))
	mux.Handle("POST /v1/teams/{teamID}/formations", RequireAuth(verifier, http.HandlerFunc(handler.CreateFormation)))
	mux.Handle("GET /v1/formations/{formationID}", RequireAuth(verifier, http.HandlerFunc(handler.GetFormation)))
	mux.Handle("PUT /v1/formations/{formationID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateFormation)))
	mux.Handle("DELETE /v1/formations/{formationID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteFormation)))
	mux.Handle("POST /v1/formations/{formationID}/clone", RequireAuth(verifier, http.HandlerFunc(handler.CloneFormation)))

	mux.Handle("GET /v1/formations/{formationID}/positions", RequireAuth(verifier, http.HandlerFunc(handler.ListPositions)))
	mux.Handle("POST /v1/formations/{formationID}/positions", RequireAuth(verifier, http.HandlerFunc(handler.AddPosition)))
	mux.Handle("POST /v1/formations/{formationID}/positions/swap", RequireAuth(verifier, http.HandlerFunc(handler.SwapPositions)))
	mux.Handle("PUT /v1/positions/{positionID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdatePosition)))
	mux.Handle("DELETE /v1/positions/{positionID}", RequireAuth(verifier, http.HandlerFunc(handler.DeletePosition)))
}
