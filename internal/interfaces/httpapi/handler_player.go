package httpapi

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fedegarcia/hockeyclub/internal/domain/player"
	"github.com/fedegarcia/hockeyclub/internal/usecase"
)

// importMaxUploadBytes bounds roster uploads before any parsing happens.
const importMaxUploadBytes = 2 << 20

func (h *Handler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddPlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req playerRequest
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
	input, err := playerInputFromRequest(req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := r.PathValue("teamID")
	created, err := h.playerService.AddPlayer(ctx, principal.UserID, teamID, input)
	if err != nil {
		h.logger.WarnContext(ctx, "add player failed", "user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(created))
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	players, err := h.playerService.ListPlayers(ctx, principal.UserID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(players))
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	playerID := r.PathValue("playerID")
	found, err := h.playerService.GetPlayer(ctx, principal.UserID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "user_id", principal.UserID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(found))
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req playerRequest
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
	input, err := playerInputFromRequest(req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	playerID := r.PathValue("playerID")
	updated, err := h.playerService.UpdatePlayer(ctx, principal.UserID, playerID, input)
	if err != nil {
		h.logger.WarnContext(ctx, "update player failed", "user_id", principal.UserID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(updated))
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	playerID := r.PathValue("playerID")
	if err := h.playerService.DeletePlayer(ctx, principal.UserID, playerID); err != nil {
		h.logger.WarnContext(ctx, "delete player failed", "user_id", principal.UserID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ImportRoster accepts a CSV or JSON roster either as a multipart "file"
// part or as a raw body with a ?filename= query parameter. The file name
// extension decides the parser.
func (h *Handler) ImportRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportRoster")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	filename, body, cleanup, err := rosterUpload(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	defer cleanup()

	result, err := h.importService.Import(ctx, principal.UserID, teamID, filename, body)
	if err != nil {
		h.logger.WarnContext(ctx, "roster import failed", "user_id", principal.UserID, "team_id", teamID, "file", filename, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, importResultToDTO(result))
}

func rosterUpload(r *http.Request) (string, io.Reader, func(), error) {
	noop := func() {}

	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && contentType == "multipart/form-data" {
		if err := r.ParseMultipartForm(importMaxUploadBytes); err != nil {
			return "", nil, noop, fmt.Errorf("%w: invalid multipart payload: %v", usecase.ErrInvalidInput, err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, noop, fmt.Errorf("%w: missing file part", usecase.ErrInvalidInput)
		}
		return header.Filename, file, func() { _ = file.Close() }, nil
	}

	filename := strings.TrimSpace(r.URL.Query().Get("filename"))
	if filename == "" {
		return "", nil, noop, fmt.Errorf("%w: filename query parameter is required for raw uploads", usecase.ErrInvalidInput)
	}
	return filename, io.LimitReader(r.Body, importMaxUploadBytes), noop, nil
}

func playerInputFromRequest(req playerRequest) (usecase.PlayerInput, error) {
	birthDate, err := time.Parse(dateLayout, req.BirthDate)
	if err != nil {
		return usecase.PlayerInput{}, fmt.Errorf("%w: invalid birthDate %q, expected YYYY-MM-DD", usecase.ErrInvalidInput, req.BirthDate)
	}

	return usecase.PlayerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Nickname:  req.Nickname,
		BirthDate: birthDate,
		Position:  player.Position(req.Position),
	}, nil
}
