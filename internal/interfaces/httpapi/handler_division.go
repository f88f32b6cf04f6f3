package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fedegarcia/hockeyclub/internal/usecase"
)

func (h *Handler) ListDivisions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDivisions")
	defer span.End()

	divisions, err := h.divisionService.ListDivisions(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list divisions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]divisionDTO, 0, len(divisions))
	for _, item := range divisions {
		out = append(out, divisionToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

// CheckEligibility answers whether a birth date fits the division, without
// touching the roster. firstName/lastName/clubName are optional and enable
// the cross-club division count.
func (h *Handler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckEligibility")
	defer span.End()

	divisionID := r.PathValue("divisionID")
	rawBirthDate := strings.TrimSpace(r.URL.Query().Get("birthDate"))
	if rawBirthDate == "" {
		writeError(ctx, w, fmt.Errorf("%w: birthDate query parameter is required", usecase.ErrInvalidInput))
		return
	}
	birthDate, err := time.Parse(dateLayout, rawBirthDate)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid birthDate %q, expected YYYY-MM-DD", usecase.ErrInvalidInput, rawBirthDate))
		return
	}

	result, err := h.playerService.CheckEligibility(
		ctx,
		divisionID,
		birthDate,
		strings.TrimSpace(r.URL.Query().Get("firstName")),
		strings.TrimSpace(r.URL.Query().Get("lastName")),
		strings.TrimSpace(r.URL.Query().Get("clubName")),
	)
	if err != nil {
		h.logger.WarnContext(ctx, "eligibility check failed", "division_id", divisionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eligibilityToDTO(result))
}
