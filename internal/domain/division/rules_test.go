package division

import (
	"strings"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestValidateAge(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	sub16 := Division{
		ID:           "div-sub16",
		Name:         "Sub16",
		Gender:       GenderFemale,
		MinBirthYear: intPtr(2009),
		MaxBirthYear: intPtr(2010),
		IsActive:     true,
	}

	tests := []struct {
		name        string
		birthDate   time.Time
		wantValid   bool
		wantMessage string
	}{
		{
			name:      "inside bounds",
			birthDate: time.Date(2009, 5, 1, 0, 0, 0, 0, time.UTC),
			wantValid: true,
		},
		{
			name:      "earliest allowed year",
			birthDate: time.Date(2010, 12, 31, 0, 0, 0, 0, time.UTC),
			wantValid: true,
		},
		{
			name:        "too young",
			birthDate:   time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC),
			wantMessage: "Jugadora muy joven",
		},
		{
			name:        "too old",
			birthDate:   time.Date(2008, 6, 15, 0, 0, 0, 0, time.UTC),
			wantMessage: "Jugadora muy grande",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sub16.ValidateAge(tt.birthDate, now)
			if got.Valid != tt.wantValid {
				t.Fatalf("expected valid=%v, got %v (message=%q)", tt.wantValid, got.Valid, got.Message)
			}
			if tt.wantMessage != "" && !strings.Contains(got.Message, tt.wantMessage) {
				t.Fatalf("expected message containing %q, got %q", tt.wantMessage, got.Message)
			}
		})
	}
}

func TestValidateAge_OneSidedBounds(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mamis := Division{
		ID:           "div-mamis",
		Name:         "Mamis",
		Gender:       GenderFemale,
		MaxBirthYear: intPtr(1996),
		IsActive:     true,
	}

	if got := mamis.ValidateAge(time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC), now); !got.Valid {
		t.Fatalf("expected no age ceiling for one-sided division, got %q", got.Message)
	}
	if got := mamis.ValidateAge(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), now); got.Valid {
		t.Fatal("expected birth year above floor to be rejected")
	}
}

func TestCalendarAge(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	if age := calendarAge(time.Date(2010, 8, 28, 0, 0, 0, 0, time.UTC), now); age != 16 {
		t.Fatalf("expected age 16 on birthday, got %d", age)
	}
	if age := calendarAge(time.Date(2010, 8, 29, 0, 0, 0, 0, time.UTC), now); age != 15 {
		t.Fatalf("expected age 15 one day before birthday, got %d", age)
	}
}

func TestSuggestFor(t *testing.T) {
	divisions := []Division{
		{ID: "a", Name: "Sub14", Gender: GenderFemale, MinBirthYear: intPtr(2011), MaxBirthYear: intPtr(2012), IsActive: true},
		{ID: "b", Name: "Sub16", Gender: GenderFemale, MinBirthYear: intPtr(2009), MaxBirthYear: intPtr(2010), IsActive: true},
		{ID: "c", Name: "Sub18", Gender: GenderFemale, MinBirthYear: intPtr(2007), MaxBirthYear: intPtr(2008), IsActive: false},
		{ID: "d", Name: "Primera", Gender: GenderFemale, MaxBirthYear: intPtr(2006), IsActive: true},
	}

	got := SuggestFor(divisions, 2011)
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected only Sub14 to admit 2011, got %+v", got)
	}

	// Inactive divisions never get suggested even when bounds admit the year.
	got = SuggestFor(divisions, 2008)
	if len(got) != 0 {
		t.Fatalf("expected no suggestions for 2008, got %+v", got)
	}

	got = SuggestFor(divisions, 2000)
	if len(got) != 1 || got[0].ID != "d" {
		t.Fatalf("expected Primera to admit 2000, got %+v", got)
	}
}

func TestCheckClubDivisionLimit(t *testing.T) {
	if err := CheckClubDivisionLimit(0); err != nil {
		t.Fatalf("expected 0 divisions to pass, got %v", err)
	}
	if err := CheckClubDivisionLimit(1); err != nil {
		t.Fatalf("expected 1 division to pass, got %v", err)
	}
	if err := CheckClubDivisionLimit(2); err == nil {
		t.Fatal("expected 2 divisions to hit the per-club limit")
	}
}

func TestDivisionValidate(t *testing.T) {
	base := Division{ID: "x", Name: "Sub16", Gender: GenderFemale, MinBirthYear: intPtr(2009), MaxBirthYear: intPtr(2010)}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid division, got %v", err)
	}

	unbounded := base
	unbounded.MinBirthYear = nil
	unbounded.MaxBirthYear = nil
	if err := unbounded.Validate(); err == nil {
		t.Fatal("expected unbounded division to be rejected")
	}

	inverted := base
	inverted.MinBirthYear = intPtr(2012)
	inverted.MaxBirthYear = intPtr(2009)
	if err := inverted.Validate(); err == nil {
		t.Fatal("expected inverted bounds to be rejected")
	}
}
