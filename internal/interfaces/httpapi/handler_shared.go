package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fedegarcia/hockeyclub/internal/domain/division"
	"github.com/fedegarcia/hockeyclub/internal/domain/formation"
	"github.com/fedegarcia/hockeyclub/internal/domain/player"
	"github.com/fedegarcia/hockeyclub/internal/domain/team"
	"github.com/fedegarcia/hockeyclub/internal/domain/training"
	"github.com/fedegarcia/hockeyclub/internal/domain/user"
	"github.com/fedegarcia/hockeyclub/internal/platform/logging"
	"github.com/fedegarcia/hockeyclub/internal/usecase"
)

const dateLayout = "2006-01-02"

type Handler struct {
	authService      *usecase.AuthService
	divisionService  *usecase.DivisionService
	teamService      *usecase.TeamService
	playerService    *usecase.PlayerService
	importService    *usecase.RosterImportService
	trainingService  *usecase.TrainingService
	formationService *usecase.FormationService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	authService *usecase.AuthService,
	divisionService *usecase.DivisionService,
	teamService *usecase.TeamService,
	playerService *usecase.PlayerService,
	importService *usecase.RosterImportService,
	trainingService *usecase.TrainingService,
	formationService *usecase.FormationService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		authService:      authService,
		divisionService:  divisionService,
		teamService:      teamService,
		playerService:    playerService,
		importService:    importService,
		trainingService:  trainingService,
		formationService: formationService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"required,max=120"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type upsertTeamRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	ClubName   string `json:"clubName" validate:"required,max=120"`
	DivisionID string `json:"divisionId" validate:"required"`
	MaxPlayers int    `json:"maxPlayers" validate:"omitempty,gt=0,lte=50"`
}

type playerRequest struct {
	FirstName string  `json:"firstName" validate:"required,max=80"`
	LastName  string  `json:"lastName" validate:"required,max=80"`
	Nickname  *string `json:"nickname" validate:"omitempty,max=80"`
	BirthDate string  `json:"birthDate" validate:"required"`
	Position  string  `json:"position" validate:"required,max=40"`
}

type createSessionRequest struct {
	Name            string `json:"name" validate:"required,max=120"`
	Date            string `json:"date" validate:"required"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,gt=0"`
	Type            string `json:"type" validate:"required,max=40"`
}

type markAttendanceRequest struct {
	PlayerID           string `json:"playerId" validate:"required"`
	Status             string `json:"status" validate:"required,max=20"`
	ParticipationLevel *int   `json:"participationLevel" validate:"omitempty,gte=1,lte=5"`
}

type createFormationRequest struct {
	Name           string         `json:"name" validate:"required,max=120"`
	TacticalSystem string         `json:"tacticalSystem" validate:"omitempty,max=40"`
	FormationType  string         `json:"formationType" validate:"omitempty,max=40"`
	IsTemplate     bool           `json:"isTemplate"`
	ExportSettings map[string]any `json:"exportSettings"`
}

type updateFormationRequest struct {
	Name           string         `json:"name" validate:"required,max=120"`
	TacticalSystem string         `json:"tacticalSystem" validate:"omitempty,max=40"`
	FormationType  string         `json:"formationType" validate:"omitempty,max=40"`
	IsTemplate     *bool          `json:"isTemplate"`
	ExportSettings map[string]any `json:"exportSettings"`
}

type cloneFormationRequest struct {
	Name         string `json:"name" validate:"omitempty,max=120"`
	TargetTeamID string `json:"targetTeamId"`
	IsTemplate   *bool  `json:"isTemplate"`
}

type addPositionRequest struct {
	PlayerID      string  `json:"playerId" validate:"required"`
	Type          string  `json:"type" validate:"required,oneof=starter substitute"`
	Number        int     `json:"number" validate:"gte=0,lte=99"`
	FieldX        float64 `json:"fieldX" validate:"gte=0,lte=100"`
	FieldY        float64 `json:"fieldY" validate:"gte=0,lte=100"`
	IsCaptain     bool    `json:"isCaptain"`
	IsViceCaptain bool    `json:"isViceCaptain"`
}

type updatePositionRequest struct {
	Number        *int     `json:"number" validate:"omitempty,gte=0,lte=99"`
	FieldX        *float64 `json:"fieldX" validate:"omitempty,gte=0,lte=100"`
	FieldY        *float64 `json:"fieldY" validate:"omitempty,gte=0,lte=100"`
	IsCaptain     *bool    `json:"isCaptain"`
	IsViceCaptain *bool    `json:"isViceCaptain"`
}

type swapPositionsRequest struct {
	PositionA string `json:"positionA" validate:"required"`
	PositionB string `json:"positionB" validate:"required"`
}

type userDTO struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	FullName           string `json:"fullName"`
	Role               string `json:"role"`
	Plan               string `json:"plan"`
	SubscriptionStatus string `json:"subscriptionStatus"`
	CreatedAt          string `json:"createdAt"`
}

type tokenPairDTO struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    string `json:"expiresAt"`
}

type authSessionDTO struct {
	User   userDTO      `json:"user"`
	Tokens tokenPairDTO `json:"tokens"`
}

type divisionDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Gender         string `json:"gender"`
	MinBirthYear   *int   `json:"minBirthYear,omitempty"`
	MaxBirthYear   *int   `json:"maxBirthYear,omitempty"`
	AllowsShootout bool   `json:"allowsShootout"`
	IsActive       bool   `json:"isActive"`
}

type eligibilityDTO struct {
	Valid              bool          `json:"valid"`
	Age                int           `json:"age"`
	Message            string        `json:"message,omitempty"`
	SuggestedDivisions []divisionDTO `json:"suggestedDivisions,omitempty"`
}

type teamDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ClubName   string `json:"clubName"`
	DivisionID string `json:"divisionId"`
	MaxPlayers int    `json:"maxPlayers"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

type playerDTO struct {
	ID        string  `json:"id"`
	TeamID    string  `json:"teamId"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Nickname  *string `json:"nickname,omitempty"`
	BirthDate string  `json:"birthDate"`
	Position  string  `json:"position"`
}

type importRowDTO struct {
	Line     int    `json:"line"`
	PlayerID string `json:"playerId,omitempty"`
	Name     string `json:"name"`
	Imported bool   `json:"imported"`
	Message  string `json:"message,omitempty"`
}

type importResultDTO struct {
	Total    int            `json:"total"`
	Imported int            `json:"imported"`
	Failed   int            `json:"failed"`
	Rows     []importRowDTO `json:"rows"`
	Report   string         `json:"report"`
}

type sessionDTO struct {
	ID              string `json:"id"`
	TeamID          string `json:"teamId"`
	Name            string `json:"name"`
	Date            string `json:"date"`
	DurationMinutes int    `json:"durationMinutes"`
	Type            string `json:"type"`
	IsCancelled     bool   `json:"isCancelled"`
}

type attendanceDTO struct {
	ID                 string `json:"id"`
	SessionID          string `json:"sessionId"`
	PlayerID           string `json:"playerId"`
	Status             string `json:"status"`
	ParticipationLevel *int   `json:"participationLevel,omitempty"`
}

type formationDTO struct {
	ID             string         `json:"id"`
	TeamID         string         `json:"teamId"`
	Name           string         `json:"name"`
	TacticalSystem string         `json:"tacticalSystem,omitempty"`
	FormationType  string         `json:"formationType,omitempty"`
	IsTemplate     bool           `json:"isTemplate"`
	ExportSettings map[string]any `json:"exportSettings,omitempty"`
	Version        int            `json:"version"`
	UsageCount     int            `json:"usageCount"`
	CreatedAt      string         `json:"createdAt"`
	UpdatedAt      string         `json:"updatedAt"`
}

type positionDTO struct {
	ID            string  `json:"id"`
	FormationID   string  `json:"formationId"`
	PlayerID      string  `json:"playerId"`
	Type          string  `json:"type"`
	Number        int     `json:"number"`
	FieldX        float64 `json:"fieldX"`
	FieldY        float64 `json:"fieldY"`
	IsCaptain     bool    `json:"isCaptain"`
	IsViceCaptain bool    `json:"isViceCaptain"`
}

type formationDetailDTO struct {
	Formation formationDTO  `json:"formation"`
	Positions []positionDTO `json:"positions"`
}

func userToDTO(v user.User) userDTO {
	return userDTO{
		ID:                 v.ID,
		Email:              v.Email,
		FullName:           v.FullName,
		Role:               string(v.Role),
		Plan:               string(v.Plan),
		SubscriptionStatus: string(v.SubscriptionStatus),
		CreatedAt:          formatTime(v.CreatedAt),
	}
}

func tokenPairToDTO(v usecase.TokenPair) tokenPairDTO {
	return tokenPairDTO{
		AccessToken:  v.AccessToken,
		RefreshToken: v.RefreshToken,
		ExpiresAt:    formatTime(v.ExpiresAt),
	}
}

func divisionToDTO(v division.Division) divisionDTO {
	return divisionDTO{
		ID:             v.ID,
		Name:           v.Name,
		Gender:         string(v.Gender),
		MinBirthYear:   v.MinBirthYear,
		MaxBirthYear:   v.MaxBirthYear,
		AllowsShootout: v.AllowsShootout,
		IsActive:       v.IsActive,
	}
}

func eligibilityToDTO(v usecase.EligibilityResult) eligibilityDTO {
	out := eligibilityDTO{
		Valid:   v.Valid,
		Age:     v.Age,
		Message: v.Message,
	}
	for _, d := range v.SuggestedDivisions {
		out.SuggestedDivisions = append(out.SuggestedDivisions, divisionToDTO(d))
	}
	return out
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:         v.ID,
		Name:       v.Name,
		ClubName:   v.ClubName,
		DivisionID: v.DivisionID,
		MaxPlayers: v.MaxPlayers,
		CreatedAt:  formatTime(v.CreatedAt),
		UpdatedAt:  formatTime(v.UpdatedAt),
	}
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		ID:        v.ID,
		TeamID:    v.TeamID,
		FirstName: v.FirstName,
		LastName:  v.LastName,
		Nickname:  v.Nickname,
		BirthDate: v.BirthDate.Format(dateLayout),
		Position:  string(v.Position),
	}
}

func playersToDTO(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerToDTO(item))
	}
	return out
}

func importResultToDTO(v usecase.ImportResult) importResultDTO {
	rows := make([]importRowDTO, 0, len(v.Rows))
	for _, row := range v.Rows {
		rows = append(rows, importRowDTO{
			Line:     row.Line,
			PlayerID: row.PlayerID,
			Name:     row.Name,
			Imported: row.Imported,
			Message:  row.Message,
		})
	}
	return importResultDTO{
		Total:    v.Total,
		Imported: v.Imported,
		Failed:   v.Failed,
		Rows:     rows,
		Report:   v.Report,
	}
}

func sessionToDTO(v training.Session) sessionDTO {
	return sessionDTO{
		ID:              v.ID,
		TeamID:          v.TeamID,
		Name:            v.Name,
		Date:            formatTime(v.Date),
		DurationMinutes: v.DurationMinutes,
		Type:            string(v.Type),
		IsCancelled:     v.IsCancelled,
	}
}

func attendanceToDTO(v training.Attendance) attendanceDTO {
	return attendanceDTO{
		ID:                 v.ID,
		SessionID:          v.SessionID,
		PlayerID:           v.PlayerID,
		Status:             string(v.Status),
		ParticipationLevel: v.ParticipationLevel,
	}
}

func formationToDTO(v formation.Formation) formationDTO {
	return formationDTO{
		ID:             v.ID,
		TeamID:         v.TeamID,
		Name:           v.Name,
		TacticalSystem: v.TacticalSystem,
		FormationType:  v.FormationType,
		IsTemplate:     v.IsTemplate,
		ExportSettings: v.ExportSettings,
		Version:        v.Version,
		UsageCount:     v.UsageCount,
		CreatedAt:      formatTime(v.CreatedAt),
		UpdatedAt:      formatTime(v.UpdatedAt),
	}
}

func positionToDTO(v formation.Position) positionDTO {
	return positionDTO{
		ID:            v.ID,
		FormationID:   v.FormationID,
		PlayerID:      v.PlayerID,
		Type:          string(v.Type),
		Number:        v.Number,
		FieldX:        v.FieldX,
		FieldY:        v.FieldY,
		IsCaptain:     v.IsCaptain,
		IsViceCaptain: v.IsViceCaptain,
	}
}

func formationDetailToDTO(v usecase.FormationDetail) formationDetailDTO {
	positions := make([]positionDTO, 0, len(v.Positions))
	for _, item := range v.Positions {
		positions = append(positions, positionToDTO(item))
	}
	return formationDetailDTO{
		Formation: formationToDTO(v.Formation),
		Positions: positions,
	}
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
