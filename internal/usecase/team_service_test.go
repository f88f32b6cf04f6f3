package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fedegarcia/hockeyclub/internal/domain/division"
	"github.com/fedegarcia/hockeyclub/internal/domain/plan"
	"github.com/fedegarcia/hockeyclub/internal/domain/player"
	"github.com/fedegarcia/hockeyclub/internal/domain/user"
	"github.com/fedegarcia/hockeyclub/internal/infrastructure/repository/memory"
	idgen "github.com/fedegarcia/hockeyclub/internal/platform/id"
	"github.com/fedegarcia/hockeyclub/internal/platform/logging"
)

type teamFixture struct {
	service    *TeamService
	teamRepo   *memory.TeamRepository
	playerRepo *memory.PlayerRepository
	userRepo   *memory.UserRepository
}

func newTeamFixture(t *testing.T, coach user.User) teamFixture {
	t.Helper()

	userRepo := memory.NewUserRepository([]user.User{coach})
	teamRepo := memory.NewTeamRepository(nil)
	playerRepo := memory.NewPlayerRepository(nil, teamRepo)
	divisions := append(memory.SeedDivisions(), division.Division{
		ID:           "div-inactive",
		Name:         "Séptima",
		Gender:       division.GenderFemale,
		MinBirthYear: intYear(1990),
		IsActive:     false,
	})
	divisionRepo := memory.NewDivisionRepository(divisions)

	service := NewTeamService(teamRepo, playerRepo, divisionRepo, userRepo, idgen.NewUUIDGenerator(), logging.NewNop())

	return teamFixture{service: service, teamRepo: teamRepo, playerRepo: playerRepo, userRepo: userRepo}
}

func intYear(v int) *int { return &v }

func testCoach(id string, p plan.Plan, status plan.SubscriptionStatus) user.User {
	return user.User{
		ID:                 id,
		Email:              id + "@club.ar",
		PasswordHash:       "x",
		Role:               user.RoleCoach,
		Plan:               p,
		SubscriptionStatus: status,
	}
}

func TestTeamService_CreateTeam(t *testing.T) {
	fx := newTeamFixture(t, testCoach("user-1", plan.PlanTwoTeams, plan.StatusActive))

	created, err := fx.service.CreateTeam(t.Context(), "user-1", CreateTeamInput{
		Name:       "Las Leonas A",
		ClubName:   "Club Atlético Central",
		DivisionID: memory.DivisionIDSub16,
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if created.MaxPlayers != 20 {
		t.Fatalf("expected default roster cap 20, got %d", created.MaxPlayers)
	}

	// Same club, same division: the registration is taken.
	_, err = fx.service.CreateTeam(t.Context(), "user-1", CreateTeamInput{
		Name:       "Las Leonas B",
		ClubName:   "Club Atlético Central",
		DivisionID: memory.DivisionIDSub16,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate (club, division), got %v", err)
	}

	// Club names match case-insensitively, same as the unique index on
	// LOWER(club_name).
	_, err = fx.service.CreateTeam(t.Context(), "user-1", CreateTeamInput{
		Name:       "Las Leonas C",
		ClubName:   "CLUB ATLÉTICO CENTRAL",
		DivisionID: memory.DivisionIDSub16,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for case-differing club name, got %v", err)
	}
}

func TestTeamService_CreateTeam_PlanLimit(t *testing.T) {
	fx := newTeamFixture(t, testCoach("user-1", plan.PlanTwoTeams, plan.StatusActive))

	divisions := []string{memory.DivisionIDSub14, memory.DivisionIDSub16, memory.DivisionIDSub19}
	for i, divisionID := range divisions[:2] {
		if _, err := fx.service.CreateTeam(t.Context(), "user-1", CreateTeamInput{
			Name:       "Equipo",
			ClubName:   "Club Central",
			DivisionID: divisionID,
		}); err != nil {
			t.Fatalf("create team %d: %v", i, err)
		}
	}

	_, err := fx.service.CreateTeam(t.Context(), "user-1", CreateTeamInput{
		Name:       "Equipo",
		ClubName:   "Club Central",
		DivisionID: divisions[2],
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden at plan limit, got %v", err)
	}
	if !strings.Contains(err.Error(), "permite máximo 2 equipos") {
		t.Fatalf("expected plan limit message, got %q", err.Error())
	}
}

func TestTeamService_CreateTeam_InactiveSubscription(t *testing.T) {
	fx := newTeamFixture(t, testCoach("user-1", plan.PlanFiveTeams, plan.StatusExpired))

	_, err := fx.service.CreateTeam(t.Context(), "user-1", CreateTeamInput{
		Name:       "Equipo",
		ClubName:   "Club Central",
		DivisionID: memory.DivisionIDSub16,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for expired subscription, got %v", err)
	}
}

func TestTeamService_CreateTeam_DivisionGates(t *testing.T) {
	fx := newTeamFixture(t, testCoach("user-1", plan.PlanTwoTeams, plan.StatusActive))

	_, err := fx.service.CreateTeam(t.Context(), "user-1", CreateTeamInput{
		Name:       "Equipo",
		ClubName:   "Club Central",
		DivisionID: "div-missing",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown division, got %v", err)
	}

	_, err = fx.service.CreateTeam(t.Context(), "user-1", CreateTeamInput{
		Name:       "Equipo",
		ClubName:   "Club Central",
		DivisionID: "div-inactive",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for inactive division, got %v", err)
	}
}

func TestTeamService_UpdateTeam_DivisionChange(t *testing.T) {
	fx := newTeamFixture(t, testCoach("user-1", plan.PlanThreeTeams, plan.StatusActive))

	first, err := fx.service.CreateTeam(t.Context(), "user-1", CreateTeamInput{
		Name:       "Sub16",
		ClubName:   "Club Central",
		DivisionID: memory.DivisionIDSub16,
	})
	if err != nil {
		t.Fatalf("create first team: %v", err)
	}
	second, err := fx.service.CreateTeam(t.Context(), "user-1", CreateTeamInput{
		Name:       "Sub19",
		ClubName:   "Club Central",
		DivisionID: memory.DivisionIDSub19,
	})
	if err != nil {
		t.Fatalf("create second team: %v", err)
	}

	// Moving into an occupied (club, division) pair fails.
	if _, err := fx.service.UpdateTeam(t.Context(), "user-1", second.ID, UpdateTeamInput{
		DivisionID: memory.DivisionIDSub16,
	}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict when moving into occupied division, got %v", err)
	}

	// Re-saving a team against its own registration is fine.
	updated, err := fx.service.UpdateTeam(t.Context(), "user-1", first.ID, UpdateTeamInput{
		Name:       "Sub16 Renovado",
		DivisionID: memory.DivisionIDSub16,
	})
	if err != nil {
		t.Fatalf("update team: %v", err)
	}
	if updated.Name != "Sub16 Renovado" {
		t.Fatalf("unexpected name: %q", updated.Name)
	}
}

func TestTeamService_DeleteTeam_RequiresEmptyRoster(t *testing.T) {
	fx := newTeamFixture(t, testCoach("user-1", plan.PlanTwoTeams, plan.StatusActive))

	created, err := fx.service.CreateTeam(t.Context(), "user-1", CreateTeamInput{
		Name:       "Equipo",
		ClubName:   "Club Central",
		DivisionID: memory.DivisionIDSub16,
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	rostered := player.Player{
		ID:        "player-1",
		TeamID:    created.ID,
		FirstName: "Ana",
		LastName:  "Pérez",
		BirthDate: time.Date(2009, 5, 1, 0, 0, 0, 0, time.UTC),
		Position:  player.PositionForward,
	}
	if err := fx.playerRepo.Create(context.Background(), rostered); err != nil {
		t.Fatalf("seed player: %v", err)
	}

	if err := fx.service.DeleteTeam(t.Context(), "user-1", created.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict while roster is non-empty, got %v", err)
	}

	if err := fx.playerRepo.Delete(context.Background(), rostered.ID); err != nil {
		t.Fatalf("remove player: %v", err)
	}
	if err := fx.service.DeleteTeam(t.Context(), "user-1", created.ID); err != nil {
		t.Fatalf("delete team: %v", err)
	}
}

func TestTeamService_Ownership(t *testing.T) {
	fx := newTeamFixture(t, testCoach("user-1", plan.PlanTwoTeams, plan.StatusActive))

	created, err := fx.service.CreateTeam(t.Context(), "user-1", CreateTeamInput{
		Name:       "Equipo",
		ClubName:   "Club Central",
		DivisionID: memory.DivisionIDSub16,
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	if _, err := fx.service.GetTeam(t.Context(), "user-2", created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign team, got %v", err)
	}
	if err := fx.service.DeleteTeam(t.Context(), "user-2", created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign delete, got %v", err)
	}
}
