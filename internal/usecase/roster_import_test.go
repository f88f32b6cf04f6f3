package usecase

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fedegarcia/hockeyclub/internal/domain/team"
	"github.com/fedegarcia/hockeyclub/internal/infrastructure/repository/memory"
	"github.com/fedegarcia/hockeyclub/internal/platform/logging"
)

func newImportFixture(t *testing.T, maxRows int) (*RosterImportService, playerFixture) {
	t.Helper()

	fx := newPlayerFixture(t, []team.Team{seededTeam("team-1", memory.DivisionIDSub16, 20)})
	svc := NewRosterImportService(fx.service, 4, maxRows, logging.NewNop())

	return svc, fx
}

func TestRosterImport_CSV(t *testing.T) {
	svc, fx := newImportFixture(t, 500)

	csvBody := strings.Join([]string{
		"first_name,last_name,nickname,birth_date,position",
		"Ana,Pérez,Anita,2009-05-01,delantera",
		"Lucía,Gómez,,2010-03-12,arquera",
		"Carla,Suárez,,2013-01-20,defensora", // too young for Sub16
		"Sofía,Ruiz,,no-es-fecha,mediocampista",
	}, "\n")

	result, err := svc.Import(t.Context(), "user-1", "team-1", "plantel.csv", strings.NewReader(csvBody))
	if err != nil {
		t.Fatalf("import csv: %v", err)
	}

	if result.Total != 4 || result.Imported != 2 || result.Failed != 2 {
		t.Fatalf("unexpected counts: %+v", result)
	}

	players, err := fx.service.ListPlayers(t.Context(), "user-1", "team-1")
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 rostered players, got %d", len(players))
	}

	if !strings.Contains(result.Report, "importadas 2 de 4 jugadoras") {
		t.Fatalf("unexpected report header: %q", result.Report)
	}
	if !strings.Contains(result.Report, "fecha de nacimiento inválida") {
		t.Fatalf("expected bad-date row in report: %q", result.Report)
	}

	// Rows come back in file order regardless of worker completion order.
	for i, row := range result.Rows {
		if i > 0 && result.Rows[i-1].Line > row.Line {
			t.Fatalf("rows out of order: %+v", result.Rows)
		}
	}
}

func TestRosterImport_JSON(t *testing.T) {
	svc, fx := newImportFixture(t, 500)

	jsonBody := `{"players": [
		{"firstName": "Ana", "lastName": "Pérez", "nickname": "Anita", "birthDate": "2009-05-01", "position": "delantera"},
		{"firstName": "Lucía", "lastName": "Gómez", "birthDate": "2010-03-12", "position": "arquera"}
	]}`

	result, err := svc.Import(t.Context(), "user-1", "team-1", "plantel.json", strings.NewReader(jsonBody))
	if err != nil {
		t.Fatalf("import json: %v", err)
	}
	if result.Imported != 2 || result.Failed != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}

	players, err := fx.service.ListPlayers(t.Context(), "user-1", "team-1")
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	for _, p := range players {
		if p.FirstName == "Ana" {
			if p.Nickname == nil || *p.Nickname != "Anita" {
				t.Fatalf("nickname not carried through: %+v", p)
			}
		}
	}
}

func TestRosterImport_RosterCapWithParallelWorkers(t *testing.T) {
	// More valid rows than roster slots, and more workers than slots: the
	// import may validate in any order but only five players can land.
	fx := newPlayerFixture(t, []team.Team{seededTeam("team-1", memory.DivisionIDSub16, 5)})
	svc := NewRosterImportService(fx.service, 8, 500, logging.NewNop())

	lines := []string{"first_name,last_name,nickname,birth_date,position"}
	for i := 0; i < 12; i++ {
		lines = append(lines, fmt.Sprintf("Jugadora%d,Apellido%d,,2009-05-01,delantera", i, i))
	}

	result, err := svc.Import(t.Context(), "user-1", "team-1", "plantel.csv", strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatalf("import csv: %v", err)
	}

	if result.Imported != 5 || result.Failed != 7 {
		t.Fatalf("expected 5 imported / 7 failed, got %+v", result)
	}

	players, err := fx.service.ListPlayers(t.Context(), "user-1", "team-1")
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 5 {
		t.Fatalf("roster cap exceeded: %d players", len(players))
	}

	capped := 0
	for _, row := range result.Rows {
		if strings.Contains(row.Message, "máximo de 5 jugadoras") {
			capped++
		}
	}
	if capped != 7 {
		t.Fatalf("expected 7 rows rejected at the cap, got %d: %+v", capped, result.Rows)
	}
}

func TestRosterImport_UnsupportedExtension(t *testing.T) {
	svc, _ := newImportFixture(t, 500)

	_, err := svc.Import(t.Context(), "user-1", "team-1", "plantel.xlsx", strings.NewReader("x"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for .xlsx, got %v", err)
	}
	if !strings.Contains(err.Error(), "formato no soportado") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestRosterImport_EmptyAndOversized(t *testing.T) {
	svc, _ := newImportFixture(t, 2)

	_, err := svc.Import(t.Context(), "user-1", "team-1", "plantel.csv",
		strings.NewReader("first_name,last_name,nickname,birth_date,position\n"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty file, got %v", err)
	}

	oversized := strings.Join([]string{
		"first_name,last_name,nickname,birth_date,position",
		"Ana,Pérez,,2009-05-01,delantera",
		"Lucía,Gómez,,2010-03-12,arquera",
		"Carla,Suárez,,2009-01-20,defensora",
	}, "\n")
	_, err = svc.Import(t.Context(), "user-1", "team-1", "plantel.csv", strings.NewReader(oversized))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput over the row limit, got %v", err)
	}
	if !strings.Contains(err.Error(), "supera el máximo") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestRosterImport_ForeignTeam(t *testing.T) {
	svc, _ := newImportFixture(t, 500)

	_, err := svc.Import(t.Context(), "user-2", "team-1", "plantel.csv",
		strings.NewReader("first_name,last_name,nickname,birth_date,position\nAna,Pérez,,2009-05-01,delantera\n"))
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign team, got %v", err)
	}
}
