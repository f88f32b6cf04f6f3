package memory

import "github.com/fedegarcia/hockeyclub/internal/domain/division"

const (
	DivisionIDSub12   = "div-sub12"
	DivisionIDSub14   = "div-sub14"
	DivisionIDSub16   = "div-sub16"
	DivisionIDSub19   = "div-sub19"
	DivisionIDPrimera = "div-primera"
	DivisionIDMamis   = "div-mamis"
)

func intPtr(v int) *int { return &v }

// SeedDivisions mirrors the admin-seeded division ladder of the product.
func SeedDivisions() []division.Division {
	return []division.Division{
		{
			ID:           DivisionIDSub12,
			Name:         "Sub12",
			Gender:       division.GenderFemale,
			MinBirthYear: intPtr(2013),
			MaxBirthYear: intPtr(2014),
			IsActive:     true,
		},
		{
			ID:             DivisionIDSub14,
			Name:           "Sub14",
			Gender:         division.GenderFemale,
			MinBirthYear:   intPtr(2011),
			MaxBirthYear:   intPtr(2012),
			AllowsShootout: true,
			IsActive:       true,
		},
		{
			ID:             DivisionIDSub16,
			Name:           "Sub16",
			Gender:         division.GenderFemale,
			MinBirthYear:   intPtr(2009),
			MaxBirthYear:   intPtr(2010),
			AllowsShootout: true,
			IsActive:       true,
		},
		{
			ID:             DivisionIDSub19,
			Name:           "Sub19",
			Gender:         division.GenderFemale,
			MinBirthYear:   intPtr(2006),
			MaxBirthYear:   intPtr(2008),
			AllowsShootout: true,
			IsActive:       true,
		},
		{
			ID:             DivisionIDPrimera,
			Name:           "Primera",
			Gender:         division.GenderFemale,
			MaxBirthYear:   intPtr(2006),
			AllowsShootout: true,
			IsActive:       true,
		},
		{
			ID:           DivisionIDMamis,
			Name:         "Mamis",
			Gender:       division.GenderFemale,
			MaxBirthYear: intPtr(1996),
			IsActive:     true,
		},
	}
}
