package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/race-tipping/internal/usecase"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// RunWarmLeaderboardJob rebuilds the leaderboard memo. It is delivered by the
// job queue after a race closes.
func (h *Handler) RunWarmLeaderboardJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunWarmLeaderboardJob")
	defer span.End()

	if h.leaderboardService == nil {
		writeError(ctx, w, fmt.Errorf("%w: leaderboard service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req warmLeaderboardRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.leaderboardService.Warm(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run warm leaderboard job failed", "race_id", req.RaceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "leaderboard warmed", "race_id", req.RaceID, "entries", entries)
	writeSuccess(ctx, w, http.StatusOK, warmLeaderboardDTO{RaceID: req.RaceID, Entries: entries})
}
