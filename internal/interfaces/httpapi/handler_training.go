package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fedegarcia/hockeyclub/internal/domain/training"
	"github.com/fedegarcia/hockeyclub/internal/usecase"
)

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSession")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createSessionRequest
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
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid date %q, expected RFC3339", usecase.ErrInvalidInput, req.Date))
		return
	}

	teamID := r.PathValue("teamID")
	created, err := h.trainingService.CreateSession(ctx, principal.UserID, teamID, usecase.CreateSessionInput{
		Name:            req.Name,
		Date:            date,
		DurationMinutes: req.DurationMinutes,
		Type:            training.SessionType(req.Type),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create session failed", "user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, sessionToDTO(created))
}

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSessions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	sessions, err := h.trainingService.ListSessions(ctx, principal.UserID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list sessions failed", "user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]sessionDTO, 0, len(sessions))
	for _, item := range sessions {
		out = append(out, sessionToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) CancelSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelSession")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	sessionID := r.PathValue("sessionID")
	cancelled, err := h.trainingService.CancelSession(ctx, principal.UserID, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "cancel session failed", "user_id", principal.UserID, "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(cancelled))
}

func (h *Handler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkAttendance")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req markAttendanceRequest
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

	sessionID := r.PathValue("sessionID")
	marked, err := h.trainingService.MarkAttendance(ctx, principal.UserID, sessionID, usecase.MarkAttendanceInput{
		PlayerID:           req.PlayerID,
		Status:             training.AttendanceStatus(req.Status),
		ParticipationLevel: req.ParticipationLevel,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "mark attendance failed", "user_id", principal.UserID, "session_id", sessionID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, attendanceToDTO(marked))
}

func (h *Handler) ListAttendances(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAttendances")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	sessionID := r.PathValue("sessionID")
	attendances, err := h.trainingService.ListAttendances(ctx, principal.UserID, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list attendances failed", "user_id", principal.UserID, "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]attendanceDTO, 0, len(attendances))
	for _, item := range attendances {
		out = append(out, attendanceToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}
