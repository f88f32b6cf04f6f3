package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fedegarcia/hockeyclub/internal/domain/formation"
	"github.com/fedegarcia/hockeyclub/internal/domain/player"
	"github.com/fedegarcia/hockeyclub/internal/domain/team"
	idgen "github.com/fedegarcia/hockeyclub/internal/platform/id"
	"github.com/fedegarcia/hockeyclub/internal/platform/logging"
)

type CreateFormationInput struct {
	Name           string
	TacticalSystem string
	FormationType  string
	IsTemplate     bool
	ExportSettings map[string]any
}

type UpdateFormationInput struct {
	Name           string
	TacticalSystem string
	FormationType  string
	IsTemplate     *bool
	ExportSettings map[string]any
}

type AddPositionInput struct {
	PlayerID      string
	Type          formation.PositionType
	Number        int
	FieldX        float64
	FieldY        float64
	IsCaptain     bool
	IsViceCaptain bool
}

// UpdatePositionInput mutates one slot in place. The slot type is immutable
// here: changing starter/substitute goes through swap so the starter cap
// cannot be bypassed.
type UpdatePositionInput struct {
	Number        *int
	FieldX        *float64
	FieldY        *float64
	IsCaptain     *bool
	IsViceCaptain *bool
}

type CloneFormationInput struct {
	Name         string
	TargetTeamID string
	IsTemplate   *bool
}

// FormationDetail pairs a formation with its position rows.
type FormationDetail struct {
	Formation formation.Formation
	Positions []formation.Position
}

type FormationService struct {
	formationRepo formation.Repository
	teamRepo      team.Repository
	playerRepo    player.Repository
	idGen         idgen.Generator
	logger        *logging.Logger
	now           func() time.Time
}

func NewFormationService(
	formationRepo formation.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *FormationService {
	if logger == nil {
		logger = logging.Default()
	}

	return &FormationService{
		formationRepo: formationRepo,
		teamRepo:      teamRepo,
		playerRepo:    playerRepo,
		idGen:         idGen,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *FormationService) CreateFormation(ctx context.Context, userID, teamID string, input CreateFormationInput) (formation.Formation, error) {
	ctx, span := startUsecaseSpan(ctx, "FormationService.CreateFormation")
	defer span.End()

	owned, err := s.requireOwnedTeam(ctx, userID, teamID)
	if err != nil {
		return formation.Formation{}, err
	}

	now := s.now().UTC()
	item := formation.Formation{
		ID:             s.idGen.NewID(),
		TeamID:         owned.ID,
		Name:           strings.TrimSpace(input.Name),
		TacticalSystem: strings.TrimSpace(input.TacticalSystem),
		FormationType:  strings.TrimSpace(input.FormationType),
		IsTemplate:     input.IsTemplate,
		ExportSettings: input.ExportSettings,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := item.Validate(); err != nil {
		return formation.Formation{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.formationRepo.Create(ctx, item); err != nil {
		return formation.Formation{}, fmt.Errorf("create formation: %w", err)
	}

	s.logger.InfoContext(ctx, "formation created", "formation_id", item.ID, "team_id", owned.ID)

	return item, nil
}

func (s *FormationService) ListFormations(ctx context.Context, userID, teamID string) ([]formation.Formation, error) {
	owned, err := s.requireOwnedTeam(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}

	formations, err := s.formationRepo.ListByTeam(ctx, owned.ID)
	if err != nil {
		return nil, fmt.Errorf("list formations: %w", err)
	}

	return formations, nil
}

func (s *FormationService) GetFormation(ctx context.Context, userID, formationID string) (FormationDetail, error) {
	existing, _, err := s.requireOwnedFormation(ctx, userID, formationID)
	if err != nil {
		return FormationDetail{}, err
	}

	positions, err := s.formationRepo.ListPositions(ctx, existing.ID)
	if err != nil {
		return FormationDetail{}, fmt.Errorf("list positions: %w", err)
	}

	return FormationDetail{Formation: existing, Positions: positions}, nil
}

// UpdateFormation bumps Version on every successful edit.
func (s *FormationService) UpdateFormation(ctx context.Context, userID, formationID string, input UpdateFormationInput) (formation.Formation, error) {
	ctx, span := startUsecaseSpan(ctx, "FormationService.UpdateFormation")
	defer span.End()

	existing, _, err := s.requireOwnedFormation(ctx, userID, formationID)
	if err != nil {
		return formation.Formation{}, err
	}

	updated := existing
	if name := strings.TrimSpace(input.Name); name != "" {
		updated.Name = name
	}
	if system := strings.TrimSpace(input.TacticalSystem); system != "" {
		updated.TacticalSystem = system
	}
	if kind := strings.TrimSpace(input.FormationType); kind != "" {
		updated.FormationType = kind
	}
	if input.IsTemplate != nil {
		updated.IsTemplate = *input.IsTemplate
	}
	if input.ExportSettings != nil {
		updated.ExportSettings = input.ExportSettings
	}

	updated.Version = existing.Version + 1
	updated.UpdatedAt = s.now().UTC()
	if err := updated.Validate(); err != nil {
		return formation.Formation{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.formationRepo.Update(ctx, updated); err != nil {
		return formation.Formation{}, fmt.Errorf("update formation: %w", err)
	}

	return updated, nil
}

func (s *FormationService) DeleteFormation(ctx context.Context, userID, formationID string) error {
	ctx, span := startUsecaseSpan(ctx, "FormationService.DeleteFormation")
	defer span.End()

	existing, _, err := s.requireOwnedFormation(ctx, userID, formationID)
	if err != nil {
		return err
	}

	if err := s.formationRepo.Delete(ctx, existing.ID); err != nil {
		return fmt.Errorf("delete formation: %w", err)
	}

	s.logger.InfoContext(ctx, "formation deleted", "formation_id", existing.ID)

	return nil
}

// CloneFormation deep-copies the formation and every position with fresh ids
// in one transaction. The copy starts at version 1 with a zero usage count;
// the source's usage count is incremented.
func (s *FormationService) CloneFormation(ctx context.Context, userID, sourceID string, input CloneFormationInput) (FormationDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "FormationService.CloneFormation")
	defer span.End()

	source, sourceTeam, err := s.requireOwnedFormation(ctx, userID, sourceID)
	if err != nil {
		return FormationDetail{}, err
	}

	targetTeam := sourceTeam
	if targetID := strings.TrimSpace(input.TargetTeamID); targetID != "" && targetID != sourceTeam.ID {
		targetTeam, err = s.requireOwnedTeam(ctx, userID, targetID)
		if err != nil {
			return FormationDetail{}, err
		}
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = source.Name + " (copia)"
	}

	now := s.now().UTC()
	clone := formation.Formation{
		ID:             s.idGen.NewID(),
		TeamID:         targetTeam.ID,
		Name:           name,
		TacticalSystem: source.TacticalSystem,
		FormationType:  source.FormationType,
		IsTemplate:     source.IsTemplate,
		ExportSettings: source.ExportSettings,
		Version:        1,
		UsageCount:     0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if input.IsTemplate != nil {
		clone.IsTemplate = *input.IsTemplate
	}

	sourcePositions, err := s.formationRepo.ListPositions(ctx, source.ID)
	if err != nil {
		return FormationDetail{}, fmt.Errorf("list positions: %w", err)
	}

	positions := make([]formation.Position, 0, len(sourcePositions))
	for _, p := range sourcePositions {
		copied := p
		copied.ID = s.idGen.NewID()
		copied.FormationID = clone.ID
		copied.CreatedAt = now
		copied.UpdatedAt = now
		positions = append(positions, copied)
	}

	if err := s.formationRepo.CreateWithPositions(ctx, clone, positions); err != nil {
		return FormationDetail{}, fmt.Errorf("clone formation: %w", err)
	}

	if err := s.formationRepo.IncrementUsage(ctx, source.ID); err != nil {
		return FormationDetail{}, fmt.Errorf("increment usage: %w", err)
	}

	s.logger.InfoContext(ctx, "formation cloned",
		"source_formation_id", source.ID,
		"formation_id", clone.ID,
		"positions", len(positions),
	)

	return FormationDetail{Formation: clone, Positions: positions}, nil
}

// AddPosition delegates the starter cap to the repository's conditional
// insert; a blocked insert surfaces as a conflict, never a partial write.
func (s *FormationService) AddPosition(ctx context.Context, userID, formationID string, input AddPositionInput) (formation.Position, error) {
	ctx, span := startUsecaseSpan(ctx, "FormationService.AddPosition")
	defer span.End()

	existing, owned, err := s.requireOwnedFormation(ctx, userID, formationID)
	if err != nil {
		return formation.Position{}, err
	}

	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.PlayerID == "" {
		return formation.Position{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	rostered, exists, err := s.playerRepo.GetByID(ctx, input.PlayerID)
	if err != nil {
		return formation.Position{}, fmt.Errorf("get player: %w", err)
	}
	if !exists || rostered.TeamID != owned.ID {
		return formation.Position{}, fmt.Errorf("%w: player=%s is not on the formation team", ErrInvalidInput, input.PlayerID)
	}

	current, err := s.formationRepo.ListPositions(ctx, existing.ID)
	if err != nil {
		return formation.Position{}, fmt.Errorf("list positions: %w", err)
	}
	for _, p := range current {
		if p.PlayerID == input.PlayerID {
			return formation.Position{}, fmt.Errorf("%w: %v", ErrConflict, formation.ErrDuplicatePlayer)
		}
	}

	now := s.now().UTC()
	item := formation.Position{
		ID:            s.idGen.NewID(),
		FormationID:   existing.ID,
		PlayerID:      input.PlayerID,
		Type:          input.Type,
		Number:        input.Number,
		FieldX:        input.FieldX,
		FieldY:        input.FieldY,
		IsCaptain:     input.IsCaptain,
		IsViceCaptain: input.IsViceCaptain,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := item.Validate(); err != nil {
		return formation.Position{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	inserted, err := s.formationRepo.AddPosition(ctx, item, formation.MaxStarters)
	if err != nil {
		if errors.Is(err, formation.ErrDuplicatePlayer) {
			return formation.Position{}, fmt.Errorf("%w: %v", ErrConflict, formation.ErrDuplicatePlayer)
		}
		return formation.Position{}, fmt.Errorf("add position: %w", err)
	}
	if !inserted {
		return formation.Position{}, fmt.Errorf("%w: %v: máximo %d titulares", ErrConflict, formation.ErrStarterLimitReached, formation.MaxStarters)
	}

	return item, nil
}

func (s *FormationService) ListPositions(ctx context.Context, userID, formationID string) ([]formation.Position, error) {
	existing, _, err := s.requireOwnedFormation(ctx, userID, formationID)
	if err != nil {
		return nil, err
	}

	positions, err := s.formationRepo.ListPositions(ctx, existing.ID)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}

	return positions, nil
}

func (s *FormationService) UpdatePosition(ctx context.Context, userID, positionID string, input UpdatePositionInput) (formation.Position, error) {
	ctx, span := startUsecaseSpan(ctx, "FormationService.UpdatePosition")
	defer span.End()

	existing, err := s.requireOwnedPosition(ctx, userID, positionID)
	if err != nil {
		return formation.Position{}, err
	}

	updated := existing
	if input.Number != nil {
		updated.Number = *input.Number
	}
	if input.FieldX != nil {
		updated.FieldX = *input.FieldX
	}
	if input.FieldY != nil {
		updated.FieldY = *input.FieldY
	}
	if input.IsCaptain != nil {
		updated.IsCaptain = *input.IsCaptain
	}
	if input.IsViceCaptain != nil {
		updated.IsViceCaptain = *input.IsViceCaptain
	}

	updated.UpdatedAt = s.now().UTC()
	if err := updated.Validate(); err != nil {
		return formation.Position{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.formationRepo.UpdatePosition(ctx, updated); err != nil {
		return formation.Position{}, fmt.Errorf("update position: %w", err)
	}

	return updated, nil
}

func (s *FormationService) DeletePosition(ctx context.Context, userID, positionID string) error {
	ctx, span := startUsecaseSpan(ctx, "FormationService.DeletePosition")
	defer span.End()

	existing, err := s.requireOwnedPosition(ctx, userID, positionID)
	if err != nil {
		return err
	}

	if err := s.formationRepo.DeletePosition(ctx, existing.ID); err != nil {
		return fmt.Errorf("delete position: %w", err)
	}

	return nil
}

// SwapPositions exchanges the slots of two rows in one row-locked
// transaction; both must belong to the given formation.
func (s *FormationService) SwapPositions(ctx context.Context, userID, formationID, positionIDA, positionIDB string) error {
	ctx, span := startUsecaseSpan(ctx, "FormationService.SwapPositions")
	defer span.End()

	existing, _, err := s.requireOwnedFormation(ctx, userID, formationID)
	if err != nil {
		return err
	}

	positionIDA = strings.TrimSpace(positionIDA)
	positionIDB = strings.TrimSpace(positionIDB)
	if positionIDA == "" || positionIDB == "" {
		return fmt.Errorf("%w: both position ids are required", ErrInvalidInput)
	}
	if positionIDA == positionIDB {
		return fmt.Errorf("%w: cannot swap a position with itself", ErrInvalidInput)
	}

	for _, positionID := range []string{positionIDA, positionIDB} {
		p, exists, err := s.formationRepo.GetPosition(ctx, positionID)
		if err != nil {
			return fmt.Errorf("get position: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: position=%s", ErrNotFound, positionID)
		}
		if p.FormationID != existing.ID {
			return fmt.Errorf("%w: %v", ErrInvalidInput, formation.ErrSwapMismatch)
		}
	}

	if err := s.formationRepo.SwapPositions(ctx, positionIDA, positionIDB); err != nil {
		return fmt.Errorf("swap positions: %w", err)
	}

	s.logger.InfoContext(ctx, "positions swapped",
		"formation_id", existing.ID,
		"position_a", positionIDA,
		"position_b", positionIDB,
	)

	return nil
}

func (s *FormationService) requireOwnedTeam(ctx context.Context, userID, teamID string) (team.Team, error) {
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

func (s *FormationService) requireOwnedFormation(ctx context.Context, userID, formationID string) (formation.Formation, team.Team, error) {
	formationID = strings.TrimSpace(formationID)
	if formationID == "" {
		return formation.Formation{}, team.Team{}, fmt.Errorf("%w: formation id is required", ErrInvalidInput)
	}

	existing, exists, err := s.formationRepo.GetByID(ctx, formationID)
	if err != nil {
		return formation.Formation{}, team.Team{}, fmt.Errorf("get formation: %w", err)
	}
	if !exists {
		return formation.Formation{}, team.Team{}, fmt.Errorf("%w: formation=%s", ErrNotFound, formationID)
	}

	owned, err := s.requireOwnedTeam(ctx, userID, existing.TeamID)
	if err != nil {
		return formation.Formation{}, team.Team{}, err
	}

	return existing, owned, nil
}

func (s *FormationService) requireOwnedPosition(ctx context.Context, userID, positionID string) (formation.Position, error) {
	positionID = strings.TrimSpace(positionID)
	if positionID == "" {
		return formation.Position{}, fmt.Errorf("%w: position id is required", ErrInvalidInput)
	}

	existing, exists, err := s.formationRepo.GetPosition(ctx, positionID)
	if err != nil {
		return formation.Position{}, fmt.Errorf("get position: %w", err)
	}
	if !exists {
		return formation.Position{}, fmt.Errorf("%w: position=%s", ErrNotFound, positionID)
	}

	if _, _, err := s.requireOwnedFormation(ctx, userID, existing.FormationID); err != nil {
		return formation.Position{}, err
	}

	return existing, nil
}
