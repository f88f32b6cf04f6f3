package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fedegarcia/hockeyclub/internal/domain/formation"
	"github.com/fedegarcia/hockeyclub/internal/domain/player"
	"github.com/fedegarcia/hockeyclub/internal/domain/team"
	"github.com/fedegarcia/hockeyclub/internal/infrastructure/repository/memory"
	idgen "github.com/fedegarcia/hockeyclub/internal/platform/id"
	"github.com/fedegarcia/hockeyclub/internal/platform/logging"
)

type formationFixture struct {
	service    *FormationService
	playerRepo *memory.PlayerRepository
}

// newFormationFixture seeds two owned teams with enough rostered players to
// exercise the starter cap.
func newFormationFixture(t *testing.T) formationFixture {
	t.Helper()

	teamRepo := memory.NewTeamRepository([]team.Team{
		seededTeam("team-1", memory.DivisionIDSub16, 20),
		seededTeam("team-2", memory.DivisionIDSub19, 20),
	})

	players := make([]player.Player, 0, 15)
	for i := 1; i <= 15; i++ {
		players = append(players, player.Player{
			ID:        fmt.Sprintf("player-%d", i),
			TeamID:    "team-1",
			FirstName: fmt.Sprintf("Jugadora%d", i),
			LastName:  "Apellido",
			BirthDate: birthDate(2009),
			Position:  player.PositionMidfielder,
		})
	}
	playerRepo := memory.NewPlayerRepository(players, teamRepo)

	service := NewFormationService(
		memory.NewFormationRepository(),
		teamRepo,
		playerRepo,
		idgen.NewUUIDGenerator(),
		logging.NewNop(),
	)

	return formationFixture{service: service, playerRepo: playerRepo}
}

func (fx formationFixture) createFormation(t *testing.T) formation.Formation {
	t.Helper()

	created, err := fx.service.CreateFormation(t.Context(), "user-1", "team-1", CreateFormationInput{
		Name:           "Titular Sub16",
		TacticalSystem: "3-3-3-1",
		FormationType:  "partido",
	})
	if err != nil {
		t.Fatalf("create formation: %v", err)
	}
	return created
}

func (fx formationFixture) addPosition(t *testing.T, formationID, playerID string, kind formation.PositionType, number int) formation.Position {
	t.Helper()

	added, err := fx.service.AddPosition(t.Context(), "user-1", formationID, AddPositionInput{
		PlayerID: playerID,
		Type:     kind,
		Number:   number,
		FieldX:   50,
		FieldY:   50,
	})
	if err != nil {
		t.Fatalf("add position for %s: %v", playerID, err)
	}
	return added
}

func TestFormationService_CreateUpdateVersioning(t *testing.T) {
	fx := newFormationFixture(t)
	created := fx.createFormation(t)

	if created.Version != 1 {
		t.Fatalf("new formation should start at version 1, got %d", created.Version)
	}

	updated, err := fx.service.UpdateFormation(t.Context(), "user-1", created.ID, UpdateFormationInput{
		TacticalSystem: "4-3-3",
	})
	if err != nil {
		t.Fatalf("update formation: %v", err)
	}
	if updated.Version != 2 {
		t.Fatalf("edit should bump version to 2, got %d", updated.Version)
	}
	if updated.TacticalSystem != "4-3-3" {
		t.Fatalf("unexpected tactical system: %q", updated.TacticalSystem)
	}
}

func TestFormationService_StarterCap(t *testing.T) {
	fx := newFormationFixture(t)
	created := fx.createFormation(t)

	for i := 1; i <= formation.MaxStarters; i++ {
		fx.addPosition(t, created.ID, fmt.Sprintf("player-%d", i), formation.PositionStarter, i)
	}

	// Slot twelve on the field is rejected.
	_, err := fx.service.AddPosition(t.Context(), "user-1", created.ID, AddPositionInput{
		PlayerID: "player-12",
		Type:     formation.PositionStarter,
		Number:   12,
		FieldX:   50,
		FieldY:   50,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict at starter cap, got %v", err)
	}
	if !errors.Is(err, formation.ErrStarterLimitReached) {
		t.Fatalf("expected ErrStarterLimitReached in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "máximo 11 titulares") {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	// The bench is not capped.
	fx.addPosition(t, created.ID, "player-12", formation.PositionSubstitute, 12)

	positions, err := fx.service.ListPositions(t.Context(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("list positions: %v", err)
	}
	if len(positions) != formation.MaxStarters+1 {
		t.Fatalf("expected %d positions, got %d", formation.MaxStarters+1, len(positions))
	}
}

func TestFormationService_StarterCap_Concurrent(t *testing.T) {
	fx := newFormationFixture(t)
	created := fx.createFormation(t)
	ctx := t.Context()

	// All fifteen rostered players race for the eleven field slots.
	var (
		wg       sync.WaitGroup
		admitted atomic.Int32
	)
	for i := 1; i <= 15; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.service.AddPosition(ctx, "user-1", created.ID, AddPositionInput{
				PlayerID: fmt.Sprintf("player-%d", i),
				Type:     formation.PositionStarter,
				Number:   i,
				FieldX:   50,
				FieldY:   50,
			})
			if err == nil {
				admitted.Add(1)
				return
			}
			if !errors.Is(err, ErrConflict) {
				t.Errorf("unexpected error for player-%d: %v", i, err)
			}
		}()
	}
	wg.Wait()

	if got := int(admitted.Load()); got != formation.MaxStarters {
		t.Fatalf("expected %d starters admitted, got %d", formation.MaxStarters, got)
	}

	positions, err := fx.service.ListPositions(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("list positions: %v", err)
	}
	if len(positions) != formation.MaxStarters {
		t.Fatalf("expected %d positions, got %d", formation.MaxStarters, len(positions))
	}
}

func TestFormationService_AddPosition_Gates(t *testing.T) {
	fx := newFormationFixture(t)
	created := fx.createFormation(t)

	fx.addPosition(t, created.ID, "player-1", formation.PositionStarter, 1)

	// The same player cannot hold two slots.
	if _, err := fx.service.AddPosition(t.Context(), "user-1", created.ID, AddPositionInput{
		PlayerID: "player-1",
		Type:     formation.PositionSubstitute,
		Number:   13,
		FieldX:   50,
		FieldY:   50,
	}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate player, got %v", err)
	}

	// A player rostered on another team cannot be placed.
	if err := fx.playerRepo.Create(context.Background(), player.Player{
		ID:        "player-other",
		TeamID:    "team-2",
		FirstName: "Laura",
		LastName:  "Gómez",
		BirthDate: birthDate(2007),
		Position:  player.PositionDefender,
	}); err != nil {
		t.Fatalf("seed player: %v", err)
	}
	if _, err := fx.service.AddPosition(t.Context(), "user-1", created.ID, AddPositionInput{
		PlayerID: "player-other",
		Type:     formation.PositionStarter,
		Number:   2,
		FieldX:   50,
		FieldY:   50,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for off-roster player, got %v", err)
	}

	// Coordinates are percentages.
	if _, err := fx.service.AddPosition(t.Context(), "user-1", created.ID, AddPositionInput{
		PlayerID: "player-2",
		Type:     formation.PositionStarter,
		Number:   2,
		FieldX:   130,
		FieldY:   50,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for out-of-range coordinates, got %v", err)
	}
}

func TestFormationService_SwapPositions(t *testing.T) {
	fx := newFormationFixture(t)
	created := fx.createFormation(t)

	starter := fx.addPosition(t, created.ID, "player-1", formation.PositionStarter, 7)
	bench := fx.addPosition(t, created.ID, "player-2", formation.PositionSubstitute, 15)

	if err := fx.service.SwapPositions(t.Context(), "user-1", created.ID, starter.ID, bench.ID); err != nil {
		t.Fatalf("swap positions: %v", err)
	}

	positions, err := fx.service.ListPositions(t.Context(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("list positions: %v", err)
	}
	byID := make(map[string]formation.Position, len(positions))
	for _, p := range positions {
		byID[p.ID] = p
	}
	if byID[starter.ID].Type != formation.PositionSubstitute || byID[starter.ID].Number != 15 {
		t.Fatalf("first row not swapped: %+v", byID[starter.ID])
	}
	if byID[bench.ID].Type != formation.PositionStarter || byID[bench.ID].Number != 7 {
		t.Fatalf("second row not swapped: %+v", byID[bench.ID])
	}

	// Swapping back restores the original layout.
	if err := fx.service.SwapPositions(t.Context(), "user-1", created.ID, starter.ID, bench.ID); err != nil {
		t.Fatalf("swap back: %v", err)
	}
	positions, err = fx.service.ListPositions(t.Context(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("list positions: %v", err)
	}
	for _, p := range positions {
		switch p.ID {
		case starter.ID:
			if p.Type != formation.PositionStarter || p.Number != 7 {
				t.Fatalf("double swap did not restore starter: %+v", p)
			}
		case bench.ID:
			if p.Type != formation.PositionSubstitute || p.Number != 15 {
				t.Fatalf("double swap did not restore substitute: %+v", p)
			}
		}
	}
}

func TestFormationService_SwapPositions_Mismatch(t *testing.T) {
	fx := newFormationFixture(t)
	first := fx.createFormation(t)

	second, err := fx.service.CreateFormation(t.Context(), "user-1", "team-1", CreateFormationInput{
		Name:           "Alternativa",
		TacticalSystem: "4-4-2",
		FormationType:  "entrenamiento",
	})
	if err != nil {
		t.Fatalf("create second formation: %v", err)
	}

	inFirst := fx.addPosition(t, first.ID, "player-1", formation.PositionStarter, 1)
	inSecond := fx.addPosition(t, second.ID, "player-2", formation.PositionStarter, 1)

	err = fx.service.SwapPositions(t.Context(), "user-1", first.ID, inFirst.ID, inSecond.ID)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for cross-formation swap, got %v", err)
	}
	if !errors.Is(err, formation.ErrSwapMismatch) {
		t.Fatalf("expected ErrSwapMismatch in chain, got %v", err)
	}

	if err := fx.service.SwapPositions(t.Context(), "user-1", first.ID, inFirst.ID, inFirst.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self swap, got %v", err)
	}
}

func TestFormationService_UpdatePosition_TypeImmutable(t *testing.T) {
	fx := newFormationFixture(t)
	created := fx.createFormation(t)
	added := fx.addPosition(t, created.ID, "player-1", formation.PositionStarter, 7)

	newNumber := 9
	captain := true
	updated, err := fx.service.UpdatePosition(t.Context(), "user-1", added.ID, UpdatePositionInput{
		Number:    &newNumber,
		IsCaptain: &captain,
	})
	if err != nil {
		t.Fatalf("update position: %v", err)
	}
	if updated.Number != 9 || !updated.IsCaptain {
		t.Fatalf("unexpected position: %+v", updated)
	}
	if updated.Type != formation.PositionStarter {
		t.Fatalf("slot type must not change on update: %s", updated.Type)
	}
}

func TestFormationService_Clone(t *testing.T) {
	fx := newFormationFixture(t)
	created := fx.createFormation(t)

	fx.addPosition(t, created.ID, "player-1", formation.PositionStarter, 1)
	fx.addPosition(t, created.ID, "player-2", formation.PositionSubstitute, 12)

	detail, err := fx.service.CloneFormation(t.Context(), "user-1", created.ID, CloneFormationInput{})
	if err != nil {
		t.Fatalf("clone formation: %v", err)
	}

	if detail.Formation.Name != "Titular Sub16 (copia)" {
		t.Fatalf("unexpected clone name: %q", detail.Formation.Name)
	}
	if detail.Formation.ID == created.ID {
		t.Fatal("clone reused the source id")
	}
	if detail.Formation.Version != 1 || detail.Formation.UsageCount != 0 {
		t.Fatalf("clone must start fresh: %+v", detail.Formation)
	}
	if len(detail.Positions) != 2 {
		t.Fatalf("expected 2 cloned positions, got %d", len(detail.Positions))
	}
	for _, p := range detail.Positions {
		if p.FormationID != detail.Formation.ID {
			t.Fatalf("cloned position points at wrong formation: %+v", p)
		}
	}

	source, err := fx.service.GetFormation(t.Context(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("get source formation: %v", err)
	}
	if source.Formation.UsageCount != 1 {
		t.Fatalf("source usage count should be 1 after clone, got %d", source.Formation.UsageCount)
	}
	if len(source.Positions) != 2 {
		t.Fatalf("source positions must be untouched, got %d", len(source.Positions))
	}

	// Cloning into a second owned team moves the copy, not the source.
	moved, err := fx.service.CloneFormation(t.Context(), "user-1", created.ID, CloneFormationInput{
		Name:         "Para Sub19",
		TargetTeamID: "team-2",
	})
	if err != nil {
		t.Fatalf("clone into target team: %v", err)
	}
	if moved.Formation.TeamID != "team-2" {
		t.Fatalf("clone landed on wrong team: %q", moved.Formation.TeamID)
	}
}

func TestFormationService_DeleteFormation(t *testing.T) {
	fx := newFormationFixture(t)
	created := fx.createFormation(t)
	fx.addPosition(t, created.ID, "player-1", formation.PositionStarter, 1)

	if err := fx.service.DeleteFormation(t.Context(), "user-1", created.ID); err != nil {
		t.Fatalf("delete formation: %v", err)
	}
	if _, err := fx.service.GetFormation(t.Context(), "user-1", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFormationService_Ownership(t *testing.T) {
	fx := newFormationFixture(t)
	created := fx.createFormation(t)

	if _, err := fx.service.GetFormation(t.Context(), "user-2", created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign formation, got %v", err)
	}
	if _, err := fx.service.ListFormations(t.Context(), "user-2", "team-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden listing foreign team, got %v", err)
	}
}
