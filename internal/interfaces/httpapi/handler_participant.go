package httpapi

import (
	"net/http"

	"github.com/riskibarqy/race-tipping/internal/usecase"
)

func (h *Handler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListParticipants")
	defer span.End()

	items, err := h.participantService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list participants failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toParticipantDTOs(items))
}

func (h *Handler) GetParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetParticipant")
	defer span.End()

	participantID := pathValue(r, "participantID")
	item, err := h.participantService.Get(ctx, participantID)
	if err != nil {
		h.logger.WarnContext(ctx, "get participant failed", "participant_id", participantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toParticipantDTO(item))
}

func (h *Handler) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateParticipant")
	defer span.End()

	var req participantRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.participantService.Create(ctx, usecase.CreateParticipantInput{
		Name: req.Name,
		Team: req.Team,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create participant failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toParticipantDTO(item))
}

func (h *Handler) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateParticipant")
	defer span.End()

	participantID := pathValue(r, "participantID")
	var req participantRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.participantService.Update(ctx, usecase.UpdateParticipantInput{
		ID:   participantID,
		Name: req.Name,
		Team: req.Team,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update participant failed", "participant_id", participantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toParticipantDTO(item))
}

func (h *Handler) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteParticipant")
	defer span.End()

	participantID := pathValue(r, "participantID")
	if err := h.participantService.Delete(ctx, participantID); err != nil {
		h.logger.WarnContext(ctx, "delete participant failed", "participant_id", participantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": participantID})
}
