package httpapi

import (
	"net/http"

	"github.com/riskibarqy/race-tipping/internal/domain/user"
)

type router struct {
	mux      *http.ServeMux
	handler  *Handler
	verifier TokenVerifier
	cfg      RouterConfig
}

func (rt *router) handle(pattern string, h http.Handler) {
	rt.mux.Handle(pattern, recordRoute(h))
}

// authorized chains authentication, user sync and the action check.
func (rt *router) authorized(action user.Action, h http.HandlerFunc) http.Handler {
	return RequireAuth(rt.verifier, SyncUser(rt.cfg.UserSyncer, RequireAction(action, h)))
}

func (rt *router) registerSystemRoutes() {
	rt.handle("GET /healthz", http.HandlerFunc(rt.handler.Healthz))
	if rt.cfg.MetricsHandler != nil {
		rt.handle("GET /metrics", rt.cfg.MetricsHandler)
	}
	if !rt.cfg.SwaggerEnabled {
		return
	}

	rt.handle("GET /openapi.yaml", http.HandlerFunc(rt.handler.OpenAPI))
	rt.handle("GET /docs", http.HandlerFunc(rt.handler.SwaggerUI))
	rt.handle("GET /docs/", http.HandlerFunc(rt.handler.SwaggerUI))
}

func (rt *router) registerParticipantRoutes() {
	h := rt.handler
	rt.handle("GET /v1/participants", rt.authorized(user.ActionReadParticipants, h.ListParticipants))
	rt.handle("GET /v1/participants/{participantID}", rt.authorized(user.ActionReadParticipants, h.GetParticipant))
	rt.handle("POST /v1/participants", rt.authorized(user.ActionManageParticipants, h.CreateParticipant))
	rt.handle("PUT /v1/participants/{participantID}", rt.authorized(user.ActionManageParticipants, h.UpdateParticipant))
	rt.handle("DELETE /v1/participants/{participantID}", rt.authorized(user.ActionManageParticipants, h.DeleteParticipant))
}

func (rt *router) registerRaceRoutes() {
	h := rt.handler
	rt.handle("GET /v1/races", rt.authorized(user.ActionReadRaces, h.ListRaces))
	rt.handle("GET /v1/races/{raceID}", rt.authorized(user.ActionReadRaces, h.GetRace))
	rt.handle("POST /v1/races", rt.authorized(user.ActionManageRaces, h.CreateRace))
	rt.handle("PUT /v1/races/{raceID}", rt.authorized(user.ActionManageRaces, h.UpdateRace))
	rt.handle("DELETE /v1/races/{raceID}", rt.authorized(user.ActionManageRaces, h.DeleteRace))
	rt.handle("POST /v1/races/{raceID}/open", rt.authorized(user.ActionManageRaces, h.OpenRace))
	rt.handle("PUT /v1/races/{raceID}/results", rt.authorized(user.ActionCloseRace, h.CloseRaceWithResults))
	rt.handle("GET /v1/races/{raceID}/results", rt.authorized(user.ActionReadRaces, h.GetRaceResults))
}

func (rt *router) registerTipRoutes() {
	h := rt.handler
	submit := RateLimit(rt.cfg.TipRateLimiter, http.HandlerFunc(h.SubmitMyTip))
	rt.handle("GET /v1/races/{raceID}/tips/me", rt.authorized(user.ActionSubmitTip, h.GetMyTip))
	rt.handle("PUT /v1/races/{raceID}/tips/me", rt.authorized(user.ActionSubmitTip, submit.ServeHTTP))
	rt.handle("GET /v1/tips/me", rt.authorized(user.ActionSubmitTip, h.ListMyTips))
	// Self-or-admin is decided in the handler.
	rt.handle("GET /v1/users/{userID}/tips", rt.authorized(user.ActionSubmitTip, h.ListUserTips))
}

func (rt *router) registerUserRoutes() {
	h := rt.handler
	rt.handle("GET /v1/leaderboard", rt.authorized(user.ActionReadLeaderboard, h.GetLeaderboard))
	rt.handle("GET /v1/users/me", rt.authorized(user.ActionManageProfile, h.GetMyProfile))
	rt.handle("PUT /v1/users/me", rt.authorized(user.ActionManageProfile, h.UpdateMyProfile))
	rt.handle("GET /v1/users/{userID}/points", rt.authorized(user.ActionReadLeaderboard, h.GetUserPoints))
}

func (rt *router) registerInternalJobRoutes() {
	rt.handle("POST /v1/internal/jobs/warm-leaderboard", RequireInternalJobToken(rt.cfg.InternalJobToken, http.HandlerFunc(rt.handler.RunWarmLeaderboardJob)))
}
