package httpapi

import (
	"net/http"
)

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	entries, err := h.leaderboardService.Build(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "build leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toLeaderboardDTOs(entries))
}

func (h *Handler) GetUserPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserPoints")
	defer span.End()

	userID := pathValue(r, "userID")
	points, err := h.leaderboardService.GetUserPoints(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get user points failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userPointsDTO{UserID: userID, Points: points})
}
