package httpapi

import (
	"net/http"

	"github.com/riskibarqy/race-tipping/internal/usecase"
)

func (h *Handler) ListRaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRaces")
	defer span.End()

	items, err := h.raceService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list races failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toRaceDTOs(items))
}

func (h *Handler) GetRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRace")
	defer span.End()

	raceID := pathValue(r, "raceID")
	results, err := h.raceService.GetResults(ctx, raceID)
	if err != nil {
		h.logger.WarnContext(ctx, "get race failed", "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := toRaceDTO(results.Race)
	dto.ResultsOrder = results.Names
	writeSuccess(ctx, w, http.StatusOK, dto)
}

func (h *Handler) CreateRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRace")
	defer span.End()

	var req raceRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.raceService.Create(ctx, usecase.CreateRaceInput{
		Name:    req.Name,
		Date:    req.Date,
		Track:   req.Track,
		Weather: req.Weather,
		Tyres:   req.Tyres,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create race failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toRaceDTO(item))
}

func (h *Handler) UpdateRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateRace")
	defer span.End()

	raceID := pathValue(r, "raceID")
	var req raceRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.raceService.Update(ctx, usecase.UpdateRaceInput{
		ID:      raceID,
		Name:    req.Name,
		Date:    req.Date,
		Track:   req.Track,
		Weather: req.Weather,
		Tyres:   req.Tyres,
		Status:  req.Status,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update race failed", "race_id", raceID, "status", req.Status, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toRaceDTO(item))
}

func (h *Handler) DeleteRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteRace")
	defer span.End()

	raceID := pathValue(r, "raceID")
	if err := h.raceService.Delete(ctx, raceID); err != nil {
		h.logger.WarnContext(ctx, "delete race failed", "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": raceID})
}

func (h *Handler) OpenRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OpenRace")
	defer span.End()

	raceID := pathValue(r, "raceID")
	item, err := h.raceService.Open(ctx, raceID)
	if err != nil {
		h.logger.WarnContext(ctx, "open race failed", "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toRaceDTO(item))
}

func (h *Handler) CloseRaceWithResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseRaceWithResults")
	defer span.End()

	raceID := pathValue(r, "raceID")
	var req raceResultsRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	if _, err := h.raceService.CloseWithResults(ctx, raceID, req.ResultsOrder); err != nil {
		h.logger.WarnContext(ctx, "close race with results failed", "race_id", raceID, "results", len(req.ResultsOrder), "error", err)
		writeError(ctx, w, err)
		return
	}

	results, err := h.raceService.GetResults(ctx, raceID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	dto := toRaceDTO(results.Race)
	dto.ResultsOrder = results.Names
	writeSuccess(ctx, w, http.StatusOK, dto)
}

func (h *Handler) GetRaceResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRaceResults")
	defer span.End()

	raceID := pathValue(r, "raceID")
	results, err := h.raceService.GetResults(ctx, raceID)
	if err != nil {
		h.logger.WarnContext(ctx, "get race results failed", "race_id", raceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toRaceResultsDTO(results))
}
