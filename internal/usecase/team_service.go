package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fedegarcia/hockeyclub/internal/domain/division"
	"github.com/fedegarcia/hockeyclub/internal/domain/plan"
	"github.com/fedegarcia/hockeyclub/internal/domain/player"
	"github.com/fedegarcia/hockeyclub/internal/domain/team"
	"github.com/fedegarcia/hockeyclub/internal/domain/user"
	idgen "github.com/fedegarcia/hockeyclub/internal/platform/id"
	"github.com/fedegarcia/hockeyclub/internal/platform/logging"
)

type CreateTeamInput struct {
	Name       string
	ClubName   string
	DivisionID string
	MaxPlayers int
}

type UpdateTeamInput struct {
	Name       string
	ClubName   string
	DivisionID string
	MaxPlayers int
}

type TeamService struct {
	teamRepo     team.Repository
	playerRepo   player.Repository
	divisionRepo division.Repository
	userRepo     user.Repository
	idGen        idgen.Generator
	logger       *logging.Logger
	now          func() time.Time
}

func NewTeamService(
	teamRepo team.Repository,
	playerRepo player.Repository,
	divisionRepo division.Repository,
	userRepo user.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		teamRepo:     teamRepo,
		playerRepo:   playerRepo,
		divisionRepo: divisionRepo,
		userRepo:     userRepo,
		idGen:        idGen,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateTeam runs the gates in order: subscription/plan limit, division
// existence and activity, (club, division) uniqueness. The insert happens
// last so a failed gate leaves no partial writes.
func (s *TeamService) CreateTeam(ctx context.Context, userID string, input CreateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamService.CreateTeam")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.ClubName = strings.TrimSpace(input.ClubName)
	input.DivisionID = strings.TrimSpace(input.DivisionID)

	if input.Name == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if input.ClubName == "" {
		return team.Team{}, fmt.Errorf("%w: club name is required", ErrInvalidInput)
	}
	if input.DivisionID == "" {
		return team.Team{}, fmt.Errorf("%w: division id is required", ErrInvalidInput)
	}

	account, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	teamCount, err := s.teamRepo.CountByUser(ctx, userID)
	if err != nil {
		return team.Team{}, fmt.Errorf("count teams: %w", err)
	}
	if err := plan.CanCreateTeam(account.Plan, account.SubscriptionStatus, teamCount); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrForbidden, err)
	}

	if err := s.requireActiveDivision(ctx, input.DivisionID); err != nil {
		return team.Team{}, err
	}

	if err := s.requireClubDivisionFree(ctx, input.ClubName, input.DivisionID, ""); err != nil {
		return team.Team{}, err
	}

	maxPlayers := input.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = team.DefaultMaxPlayers
	}

	now := s.now().UTC()
	item := team.Team{
		ID:         s.idGen.NewID(),
		Name:       input.Name,
		ClubName:   input.ClubName,
		DivisionID: input.DivisionID,
		UserID:     userID,
		MaxPlayers: maxPlayers,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.teamRepo.Create(ctx, item); err != nil {
		if errors.Is(err, team.ErrClubDivisionTaken) {
			return team.Team{}, fmt.Errorf("%w: el club %s ya tiene un equipo en esa división", ErrConflict, item.ClubName)
		}
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}

	s.logger.InfoContext(ctx, "team created", "team_id", item.ID, "division_id", item.DivisionID)

	return item, nil
}

func (s *TeamService) UpdateTeam(ctx context.Context, userID, teamID string, input UpdateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamService.UpdateTeam")
	defer span.End()

	existing, err := s.requireOwnedTeam(ctx, userID, teamID)
	if err != nil {
		return team.Team{}, err
	}

	input.Name = strings.TrimSpace(input.Name)
	input.ClubName = strings.TrimSpace(input.ClubName)
	input.DivisionID = strings.TrimSpace(input.DivisionID)

	updated := existing
	if input.Name != "" {
		updated.Name = input.Name
	}
	if input.ClubName != "" {
		updated.ClubName = input.ClubName
	}
	if input.DivisionID != "" {
		updated.DivisionID = input.DivisionID
	}
	if input.MaxPlayers > 0 {
		updated.MaxPlayers = input.MaxPlayers
	}

	// A moved or renamed registration must still be unique per club and
	// division, excluding the team's own row.
	if updated.DivisionID != existing.DivisionID || updated.ClubName != existing.ClubName {
		if updated.DivisionID != existing.DivisionID {
			if err := s.requireActiveDivision(ctx, updated.DivisionID); err != nil {
				return team.Team{}, err
			}
		}
		if err := s.requireClubDivisionFree(ctx, updated.ClubName, updated.DivisionID, existing.ID); err != nil {
			return team.Team{}, err
		}
	}

	updated.UpdatedAt = s.now().UTC()
	if err := updated.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.teamRepo.Update(ctx, updated); err != nil {
		if errors.Is(err, team.ErrClubDivisionTaken) {
			return team.Team{}, fmt.Errorf("%w: el club %s ya tiene un equipo en esa división", ErrConflict, updated.ClubName)
		}
		return team.Team{}, fmt.Errorf("update team: %w", err)
	}

	return updated, nil
}

// DeleteTeam refuses while active players remain on the roster.
func (s *TeamService) DeleteTeam(ctx context.Context, userID, teamID string) error {
	ctx, span := startUsecaseSpan(ctx, "TeamService.DeleteTeam")
	defer span.End()

	existing, err := s.requireOwnedTeam(ctx, userID, teamID)
	if err != nil {
		return err
	}

	playerCount, err := s.playerRepo.CountByTeam(ctx, existing.ID)
	if err != nil {
		return fmt.Errorf("count players: %w", err)
	}
	if playerCount > 0 {
		return fmt.Errorf("%w: %v: el equipo tiene %d jugadoras", ErrConflict, team.ErrTeamNotEmpty, playerCount)
	}

	if err := s.teamRepo.Delete(ctx, existing.ID); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}

	s.logger.InfoContext(ctx, "team deleted", "team_id", existing.ID)

	return nil
}

func (s *TeamService) GetTeam(ctx context.Context, userID, teamID string) (team.Team, error) {
	return s.requireOwnedTeam(ctx, userID, teamID)
}

func (s *TeamService) ListTeams(ctx context.Context, userID string) ([]team.Team, error) {
	teams, err := s.teamRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return teams, nil
}

func (s *TeamService) requireOwnedTeam(ctx context.Context, userID, teamID string) (team.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	existing, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	if existing.UserID != userID {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrForbidden, teamID)
	}

	return existing, nil
}

func (s *TeamService) requireActiveDivision(ctx context.Context, divisionID string) error {
	div, exists, err := s.divisionRepo.GetByID(ctx, divisionID)
	if err != nil {
		return fmt.Errorf("get division: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: division=%s", ErrNotFound, divisionID)
	}
	if !div.IsActive {
		return fmt.Errorf("%w: %v: la división %s no está activa", ErrInvalidInput, division.ErrDivisionInactive, div.Name)
	}

	return nil
}

func (s *TeamService) requireClubDivisionFree(ctx context.Context, clubName, divisionID, excludeTeamID string) error {
	existing, exists, err := s.teamRepo.GetByClubAndDivision(ctx, clubName, divisionID)
	if err != nil {
		return fmt.Errorf("get team by club and division: %w", err)
	}
	if exists && existing.ID != excludeTeamID {
		return fmt.Errorf("%w: el club %s ya tiene un equipo en esa división", ErrConflict, clubName)
	}

	return nil
}
