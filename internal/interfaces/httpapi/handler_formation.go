package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/fedegarcia/hockeyclub/internal/domain/formation"
	"github.com/fedegarcia/hockeyclub/internal/usecase"
)

func (h *Handler) CreateFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateFormation")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createFormationRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := r.PathValue("teamID")
	created, err := h.formationService.CreateFormation(ctx, principal.UserID, teamID, usecase.CreateFormationInput{
		Name:           req.Name,
		TacticalSystem: req.TacticalSystem,
		FormationType:  req.FormationType,
		IsTemplate:     req.IsTemplate,
		ExportSettings: req.ExportSettings,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create formation failed", "user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, formationToDTO(created))
}

func (h *Handler) ListFormations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFormations")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	formations, err := h.formationService.ListFormations(ctx, principal.UserID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list formations failed", "user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]formationDTO, 0, len(formations))
	for _, item := range formations {
		out = append(out, formationToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFormation")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	formationID := r.PathValue("formationID")
	detail, err := h.formationService.GetFormation(ctx, principal.UserID, formationID)
	if err != nil {
		h.logger.WarnContext(ctx, "get formation failed", "user_id", principal.UserID, "formation_id", formationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, formationDetailToDTO(detail))
}

func (h *Handler) UpdateFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateFormation")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req updateFormationRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	formationID := r.PathValue("formationID")
	updated, err := h.formationService.UpdateFormation(ctx, principal.UserID, formationID, usecase.UpdateFormationInput{
		Name:           req.Name,
		TacticalSystem: req.TacticalSystem,
		FormationType:  req.FormationType,
		IsTemplate:     req.IsTemplate,
		ExportSettings: req.ExportSettings,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update formation failed", "user_id", principal.UserID, "formation_id", formationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, formationToDTO(updated))
}

func (h *Handler) DeleteFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteFormation")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	formationID := r.PathValue("formationID")
	if err := h.formationService.DeleteFormation(ctx, principal.UserID, formationID); err != nil {
		h.logger.WarnContext(ctx, "delete formation failed", "user_id", principal.UserID, "formation_id", formationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) CloneFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloneFormation")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req cloneFormationRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	sourceID := r.PathValue("formationID")
	clone, err := h.formationService.CloneFormation(ctx, principal.UserID, sourceID, usecase.CloneFormationInput{
		Name:         req.Name,
		TargetTeamID: req.TargetTeamID,
		IsTemplate:   req.IsTemplate,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "clone formation failed", "user_id", principal.UserID, "formation_id", sourceID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, formationDetailToDTO(clone))
}

func (h *Handler) AddPosition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddPosition")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req addPositionRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	formationID := r.PathValue("formationID")
	created, err := h.formationService.AddPosition(ctx, principal.UserID, formationID, usecase.AddPositionInput{
		PlayerID:      req.PlayerID,
		Type:          formation.PositionType(req.Type),
		Number:        req.Number,
		FieldX:        req.FieldX,
		FieldY:        req.FieldY,
		IsCaptain:     req.IsCaptain,
		IsViceCaptain: req.IsViceCaptain,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add position failed", "user_id", principal.UserID, "formation_id", formationID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, positionToDTO(created))
}

func (h *Handler) ListPositions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPositions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	formationID := r.PathValue("formationID")
	positions, err := h.formationService.ListPositions(ctx, principal.UserID, formationID)
	if err != nil {
		h.logger.WarnContext(ctx, "list positions failed", "user_id", principal.UserID, "formation_id", formationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]positionDTO, 0, len(positions))
	for _, item := range positions {
		out = append(out, positionToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePosition")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req updatePositionRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	positionID := r.PathValue("positionID")
	updated, err := h.formationService.UpdatePosition(ctx, principal.UserID, positionID, usecase.UpdatePositionInput{
		Number:        req.Number,
		FieldX:        req.FieldX,
		FieldY:        req.FieldY,
		IsCaptain:     req.IsCaptain,
		IsViceCaptain: req.IsViceCaptain,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update position failed", "user_id", principal.UserID, "position_id", positionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, positionToDTO(updated))
}

func (h *Handler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePosition")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	positionID := r.PathValue("positionID")
	if err := h.formationService.DeletePosition(ctx, principal.UserID, positionID); err != nil {
		h.logger.WarnContext(ctx, "delete position failed", "user_id", principal.UserID, "position_id", positionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) SwapPositions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SwapPositions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req swapPositionsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	formationID := r.PathValue("formationID")
	if err := h.formationService.SwapPositions(ctx, principal.UserID, formationID, req.PositionA, req.PositionB); err != nil {
		h.logger.WarnContext(ctx, "swap positions failed", "user_id", principal.UserID, "formation_id", formationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "swapped"})
}
