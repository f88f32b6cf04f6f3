package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fedegarcia/hockeyclub/internal/domain/player"
	"github.com/fedegarcia/hockeyclub/internal/domain/team"
	"github.com/fedegarcia/hockeyclub/internal/domain/training"
	idgen "github.com/fedegarcia/hockeyclub/internal/platform/id"
	"github.com/fedegarcia/hockeyclub/internal/platform/logging"
)

type CreateSessionInput struct {
	Name            string
	Date            time.Time
	DurationMinutes int
	Type            training.SessionType
}

type MarkAttendanceInput struct {
	PlayerID           string
	Status             training.AttendanceStatus
	ParticipationLevel *int
}

type TrainingService struct {
	sessionRepo    training.SessionRepository
	attendanceRepo training.AttendanceRepository
	teamRepo       team.Repository
	playerRepo     player.Repository
	idGen          idgen.Generator
	logger         *logging.Logger
	now            func() time.Time
}

func NewTrainingService(
	sessionRepo training.SessionRepository,
	attendanceRepo training.AttendanceRepository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *TrainingService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TrainingService{
		sessionRepo:    sessionRepo,
		attendanceRepo: attendanceRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		idGen:          idGen,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *TrainingService) CreateSession(ctx context.Context, userID, teamID string, input CreateSessionInput) (training.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "TrainingService.CreateSession")
	defer span.End()

	owned, err := s.requireOwnedTeam(ctx, userID, teamID)
	if err != nil {
		return training.Session{}, err
	}

	now := s.now().UTC()
	item := training.Session{
		ID:              s.idGen.NewID(),
		TeamID:          owned.ID,
		Name:            strings.TrimSpace(input.Name),
		Date:            input.Date,
		DurationMinutes: input.DurationMinutes,
		Type:            input.Type,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := item.Validate(); err != nil {
		return training.Session{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.sessionRepo.Create(ctx, item); err != nil {
		return training.Session{}, fmt.Errorf("create session: %w", err)
	}

	s.logger.InfoContext(ctx, "training session created", "session_id", item.ID, "team_id", owned.ID)

	return item, nil
}

func (s *TrainingService) ListSessions(ctx context.Context, userID, teamID string) ([]training.Session, error) {
	owned, err := s.requireOwnedTeam(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.ListByTeam(ctx, owned.ID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return sessions, nil
}

// CancelSession flags the session instead of deleting it so the attendance
// history stays queryable.
func (s *TrainingService) CancelSession(ctx context.Context, userID, sessionID string) (training.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "TrainingService.CancelSession")
	defer span.End()

	session, _, err := s.requireOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return training.Session{}, err
	}
	if session.IsCancelled {
		return session, nil
	}

	if err := s.sessionRepo.Cancel(ctx, session.ID); err != nil {
		return training.Session{}, fmt.Errorf("cancel session: %w", err)
	}
	session.IsCancelled = true
	session.UpdatedAt = s.now().UTC()

	s.logger.InfoContext(ctx, "training session cancelled", "session_id", session.ID)

	return session, nil
}

// MarkAttendance upserts one row per (player, session); re-marking replaces
// the previous status.
func (s *TrainingService) MarkAttendance(ctx context.Context, userID, sessionID string, input MarkAttendanceInput) (training.Attendance, error) {
	ctx, span := startUsecaseSpan(ctx, "TrainingService.MarkAttendance")
	defer span.End()

	session, owned, err := s.requireOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return training.Attendance{}, err
	}
	if session.IsCancelled {
		return training.Attendance{}, fmt.Errorf("%w: la sesión está cancelada", ErrConflict)
	}

	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.PlayerID == "" {
		return training.Attendance{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	rostered, exists, err := s.playerRepo.GetByID(ctx, input.PlayerID)
	if err != nil {
		return training.Attendance{}, fmt.Errorf("get player: %w", err)
	}
	if !exists || rostered.TeamID != owned.ID {
		return training.Attendance{}, fmt.Errorf("%w: player=%s is not on the session team", ErrInvalidInput, input.PlayerID)
	}

	now := s.now().UTC()
	item := training.Attendance{
		ID:                 s.idGen.NewID(),
		SessionID:          session.ID,
		PlayerID:           input.PlayerID,
		Status:             input.Status,
		ParticipationLevel: input.ParticipationLevel,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := item.Validate(); err != nil {
		return training.Attendance{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.attendanceRepo.Upsert(ctx, item); err != nil {
		return training.Attendance{}, fmt.Errorf("upsert attendance: %w", err)
	}

	return item, nil
}

func (s *TrainingService) ListAttendances(ctx context.Context, userID, sessionID string) ([]training.Attendance, error) {
	session, _, err := s.requireOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	attendances, err := s.attendanceRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("list attendances: %w", err)
	}

	return attendances, nil
}

func (s *TrainingService) requireOwnedTeam(ctx context.Context, userID, teamID string) (team.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	owned, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	if owned.UserID != userID {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrForbidden, teamID)
	}

	return owned, nil
}

func (s *TrainingService) requireOwnedSession(ctx context.Context, userID, sessionID string) (training.Session, team.Team, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return training.Session{}, team.Team{}, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	session, exists, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return training.Session{}, team.Team{}, fmt.Errorf("get session: %w", err)
	}
	if !exists {
		return training.Session{}, team.Team{}, fmt.Errorf("%w: session=%s", ErrNotFound, sessionID)
	}

	owned, err := s.requireOwnedTeam(ctx, userID, session.TeamID)
	if err != nil {
		return training.Session{}, team.Team{}, err
	}

	return session, owned, nil
}
