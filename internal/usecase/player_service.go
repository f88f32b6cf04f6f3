package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fedegarcia/hockeyclub/internal/domain/division"
	"github.com/fedegarcia/hockeyclub/internal/domain/player"
	"github.com/fedegarcia/hockeyclub/internal/domain/team"
	idgen "github.com/fedegarcia/hockeyclub/internal/platform/id"
	"github.com/fedegarcia/hockeyclub/internal/platform/logging"
)

type PlayerInput struct {
	FirstName string
	LastName  string
	Nickname  *string
	BirthDate time.Time
	Position  player.Position
}

// EligibilityResult is the combined age + club-limit outcome for one
// (birth date, division) pair.
type EligibilityResult struct {
	Valid              bool
	Age                int
	Message            string
	SuggestedDivisions []division.Division
}

type PlayerService struct {
	playerRepo   player.Repository
	teamRepo     team.Repository
	divisionRepo division.Repository
	idGen        idgen.Generator
	logger       *logging.Logger
	now          func() time.Time
}

func NewPlayerService(
	playerRepo player.Repository,
	teamRepo team.Repository,
	divisionRepo division.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PlayerService{
		playerRepo:   playerRepo,
		teamRepo:     teamRepo,
		divisionRepo: divisionRepo,
		idGen:        idGen,
		logger:       logger,
		now:          time.Now,
	}
}

// AddPlayer registers a player on a roster: ownership, roster cap, division
// age gate, then the per-club division limit.
func (s *PlayerService) AddPlayer(ctx context.Context, userID, teamID string, input PlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "PlayerService.AddPlayer")
	defer span.End()

	owned, err := s.requireOwnedTeam(ctx, userID, teamID)
	if err != nil {
		return player.Player{}, err
	}

	item, err := s.buildPlayer(owned.ID, input)
	if err != nil {
		return player.Player{}, err
	}

	if err := s.checkRegistrationGates(ctx, owned, item); err != nil {
		return player.Player{}, err
	}

	return s.addPrepared(ctx, owned, item)
}

// addPrepared inserts an already-gated player behind the roster cap. The cap
// is a count-then-create pair, so callers must not run cap-checked inserts
// for the same team in parallel.
func (s *PlayerService) addPrepared(ctx context.Context, owned team.Team, item player.Player) (player.Player, error) {
	count, err := s.playerRepo.CountByTeam(ctx, owned.ID)
	if err != nil {
		return player.Player{}, fmt.Errorf("count players: %w", err)
	}
	if count >= owned.MaxPlayers {
		return player.Player{}, fmt.Errorf("%w: el equipo ya tiene el máximo de %d jugadoras", ErrConflict, owned.MaxPlayers)
	}

	if err := s.playerRepo.Create(ctx, item); err != nil {
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}

	s.logger.InfoContext(ctx, "player added", "player_id", item.ID, "team_id", owned.ID)

	return item, nil
}

func (s *PlayerService) UpdatePlayer(ctx context.Context, userID, playerID string, input PlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "PlayerService.UpdatePlayer")
	defer span.End()

	existing, owned, err := s.requireOwnedPlayer(ctx, userID, playerID)
	if err != nil {
		return player.Player{}, err
	}

	updated := existing
	if name := strings.TrimSpace(input.FirstName); name != "" {
		updated.FirstName = name
	}
	if name := strings.TrimSpace(input.LastName); name != "" {
		updated.LastName = name
	}
	if input.Nickname != nil {
		updated.Nickname = input.Nickname
	}
	if input.Position != "" {
		updated.Position = input.Position
	}
	if !input.BirthDate.IsZero() && !input.BirthDate.Equal(existing.BirthDate) {
		updated.BirthDate = input.BirthDate
		div, exists, err := s.divisionRepo.GetByID(ctx, owned.DivisionID)
		if err != nil {
			return player.Player{}, fmt.Errorf("get division: %w", err)
		}
		if exists {
			if check := div.ValidateAge(updated.BirthDate, s.now().UTC()); !check.Valid {
				return player.Player{}, fmt.Errorf("%w: %v: %s", ErrInvalidInput, division.ErrAgeIneligible, check.Message)
			}
		}
	}

	updated.UpdatedAt = s.now().UTC()
	if err := updated.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.playerRepo.Update(ctx, updated); err != nil {
		return player.Player{}, fmt.Errorf("update player: %w", err)
	}

	return updated, nil
}

func (s *PlayerService) DeletePlayer(ctx context.Context, userID, playerID string) error {
	ctx, span := startUsecaseSpan(ctx, "PlayerService.DeletePlayer")
	defer span.End()

	existing, _, err := s.requireOwnedPlayer(ctx, userID, playerID)
	if err != nil {
		return err
	}

	if err := s.playerRepo.Delete(ctx, existing.ID); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}

	s.logger.InfoContext(ctx, "player removed", "player_id", existing.ID)

	return nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, userID, playerID string) (player.Player, error) {
	existing, _, err := s.requireOwnedPlayer(ctx, userID, playerID)
	return existing, err
}

func (s *PlayerService) ListPlayers(ctx context.Context, userID, teamID string) ([]player.Player, error) {
	owned, err := s.requireOwnedTeam(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}

	players, err := s.playerRepo.ListByTeam(ctx, owned.ID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	return players, nil
}

// CheckEligibility runs the age gate first; only a passing age check reaches
// the per-club division limit. Failures list the divisions that would admit
// the birth year.
func (s *PlayerService) CheckEligibility(ctx context.Context, divisionID string, birthDate time.Time, firstName, lastName, clubName string) (EligibilityResult, error) {
	ctx, span := startUsecaseSpan(ctx, "PlayerService.CheckEligibility")
	defer span.End()

	divisionID = strings.TrimSpace(divisionID)
	if divisionID == "" {
		return EligibilityResult{}, fmt.Errorf("%w: division id is required", ErrInvalidInput)
	}
	if birthDate.IsZero() {
		return EligibilityResult{}, fmt.Errorf("%w: birth date is required", ErrInvalidInput)
	}

	div, exists, err := s.divisionRepo.GetByID(ctx, divisionID)
	if err != nil {
		return EligibilityResult{}, fmt.Errorf("get division: %w", err)
	}
	if !exists {
		return EligibilityResult{}, fmt.Errorf("%w: division=%s", ErrNotFound, divisionID)
	}

	check := div.ValidateAge(birthDate, s.now().UTC())
	if !check.Valid {
		all, err := s.divisionRepo.List(ctx)
		if err != nil {
			return EligibilityResult{}, fmt.Errorf("list divisions: %w", err)
		}
		return EligibilityResult{
			Age:                check.Age,
			Message:            check.Message,
			SuggestedDivisions: division.SuggestFor(all, birthDate.Year()),
		}, nil
	}

	if firstName != "" && lastName != "" && clubName != "" {
		divisionCount, err := s.playerRepo.CountDivisionsByClub(ctx, firstName, lastName, birthDate, clubName)
		if err != nil {
			return EligibilityResult{}, fmt.Errorf("count divisions by club: %w", err)
		}
		if err := division.CheckClubDivisionLimit(divisionCount); err != nil {
			return EligibilityResult{
				Age:     check.Age,
				Message: fmt.Sprintf("Una jugadora puede estar en máximo %d divisiones por club", division.MaxDivisionsPerClub),
			}, nil
		}
	}

	return EligibilityResult{Valid: true, Age: check.Age}, nil
}

func (s *PlayerService) buildPlayer(teamID string, input PlayerInput) (player.Player, error) {
	now := s.now().UTC()
	item := player.Player{
		ID:        s.idGen.NewID(),
		TeamID:    teamID,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Nickname:  input.Nickname,
		BirthDate: input.BirthDate,
		Position:  input.Position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return item, nil
}

func (s *PlayerService) checkRegistrationGates(ctx context.Context, owned team.Team, item player.Player) error {
	div, exists, err := s.divisionRepo.GetByID(ctx, owned.DivisionID)
	if err != nil {
		return fmt.Errorf("get division: %w", err)
	}
	if exists {
		if check := div.ValidateAge(item.BirthDate, s.now().UTC()); !check.Valid {
			return fmt.Errorf("%w: %v: %s", ErrInvalidInput, division.ErrAgeIneligible, check.Message)
		}
	}

	divisionCount, err := s.playerRepo.CountDivisionsByClub(ctx, item.FirstName, item.LastName, item.BirthDate, owned.ClubName)
	if err != nil {
		return fmt.Errorf("count divisions by club: %w", err)
	}
	if err := division.CheckClubDivisionLimit(divisionCount); err != nil {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}

	return nil
}

func (s *PlayerService) requireOwnedTeam(ctx context.Context, userID, teamID string) (team.Team, error) {
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

func (s *PlayerService) requireOwnedPlayer(ctx context.Context, userID, playerID string) (player.Player, team.Team, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, team.Team{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	existing, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, team.Team{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, team.Team{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	owned, err := s.requireOwnedTeam(ctx, userID, existing.TeamID)
	if err != nil {
		return player.Player{}, team.Team{}, err
	}

	return existing, owned, nil
}
