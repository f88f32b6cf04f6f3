package division

import (
	"fmt"
	"strings"
)

// Gender restricts which players a division admits.
type Gender string

const (
	GenderFemale Gender = "femenino"
	GenderMale   Gender = "masculino"
	GenderMixed  Gender = "mixto"
)

// Division is an age/gender-bounded competitive category a team registers
// into. Seeded by admins, rarely mutated.
//
// Birth-year bounds are inclusive: a year is admitted when
// MinBirthYear <= year <= MaxBirthYear. Note the age inversion: the larger
// birth year (MaxBirthYear) is the youngest player allowed. All seeded
// divisions bound at least one side.
type Division struct {
	ID             string
	Name           string
	Gender         Gender
	MinBirthYear   *int
	MaxBirthYear   *int
	AllowsShootout bool
	IsActive       bool
}

func (d Division) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("division id is required")
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("division name is required")
	}
	switch d.Gender {
	case GenderFemale, GenderMale, GenderMixed:
	default:
		return fmt.Errorf("invalid division gender: %s", d.Gender)
	}
	if d.MinBirthYear == nil && d.MaxBirthYear == nil {
		return fmt.Errorf("division %s must bound at least one birth year side", d.Name)
	}
	if d.MinBirthYear != nil && d.MaxBirthYear != nil && *d.MinBirthYear > *d.MaxBirthYear {
		return fmt.Errorf("division %s has inverted birth year bounds", d.Name)
	}

	return nil
}

// AdmitsBirthYear reports whether a player born in the given year is
// age-eligible, bounds inclusive.
func (d Division) AdmitsBirthYear(year int) bool {
	if d.MinBirthYear != nil && year < *d.MinBirthYear {
		return false
	}
	if d.MaxBirthYear != nil && year > *d.MaxBirthYear {
		return false
	}

	return true
}
