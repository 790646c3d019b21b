package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/race-tipping/internal/domain/user"
	"github.com/riskibarqy/race-tipping/internal/usecase"
)

func (h *Handler) GetMyTip(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyTip")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	raceID := pathValue(r, "raceID")
	view, err := h.tipService.Get(ctx, principal.UserID, raceID)
	if err != nil {
		h.logger.WarnContext(ctx, "get tip failed", "user_id", principal.UserID, "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toTipDTO(view))
}

func (h *Handler) SubmitMyTip(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitMyTip")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	raceID := pathValue(r, "raceID")
	var req submitTipRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.tipService.Submit(ctx, usecase.SubmitTipInput{
		UserID:            principal.UserID,
		RaceID:            raceID,
		Names:             req.Order,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit tip failed", "user_id", principal.UserID, "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toTipDTO(view))
}

func (h *Handler) ListMyTips(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyTips")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	views, err := h.tipService.ListByUser(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list my tips failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toTipDTOs(views))
}

// ListUserTips serves other users' tips to admins; players may only read their own.
func (h *Handler) ListUserTips(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUserTips")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	userID := pathValue(r, "userID")
	if userID != principal.UserID && !principal.Can(user.ActionReadAnyTip) {
		writeError(ctx, w, fmt.Errorf("%w: role %s cannot read tips of other users", usecase.ErrForbidden, principal.Role))
		return
	}

	views, err := h.tipService.ListByUser(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "list user tips failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toTipDTOs(views))
}
