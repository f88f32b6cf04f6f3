package division

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrAgeIneligible        = errors.New("player age is not eligible for division")
	ErrDivisionLimitReached = errors.New("player division limit per club reached")
	ErrDivisionInactive     = errors.New("division is not active")
)

// MaxDivisionsPerClub caps how many divisions one player may be registered in
// within the same club.
const MaxDivisionsPerClub = 2

// AgeValidation is the outcome of checking a birth date against one division.
type AgeValidation struct {
	Valid              bool
	Age                int
	Message            string
	SuggestedDivisions []Division
}

// ValidateAge checks the birth date against the division's birth-year bounds.
// The age reported is the calendar age at `now`.
func (d Division) ValidateAge(birthDate time.Time, now time.Time) AgeValidation {
	age := calendarAge(birthDate, now)
	year := birthDate.Year()

	if d.MinBirthYear != nil && year < *d.MinBirthYear {
		return AgeValidation{
			Age:     age,
			Message: fmt.Sprintf("Jugadora muy grande para %s: debe haber nacido en %d o después", d.Name, *d.MinBirthYear),
		}
	}
	if d.MaxBirthYear != nil && year > *d.MaxBirthYear {
		return AgeValidation{
			Age:     age,
			Message: fmt.Sprintf("Jugadora muy joven para %s: debe haber nacido en %d o antes", d.Name, *d.MaxBirthYear),
		}
	}

	return AgeValidation{Valid: true, Age: age}
}

// SuggestFor scans divisions and returns every active one whose bounds admit
// the given birth year. Used to fill SuggestedDivisions on a failed check.
func SuggestFor(divisions []Division, birthYear int) []Division {
	out := make([]Division, 0, len(divisions))
	for _, d := range divisions {
		if !d.IsActive {
			continue
		}
		if d.AdmitsBirthYear(birthYear) {
			out = append(out, d)
		}
	}

	return out
}

// CheckClubDivisionLimit gates registration given how many distinct divisions
// the player already occupies within the club.
func CheckClubDivisionLimit(currentDivisionCount int) error {
	if currentDivisionCount >= MaxDivisionsPerClub {
		return fmt.Errorf("%w: una jugadora puede estar en máximo %d divisiones por club", ErrDivisionLimitReached, MaxDivisionsPerClub)
	}

	return nil
}

func calendarAge(birthDate, now time.Time) int {
	age := now.Year() - birthDate.Year()
	if now.Month() < birthDate.Month() ||
		(now.Month() == birthDate.Month() && now.Day() < birthDate.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}

	return age
}
