package usecase

import (
	"context"
	"fmt"

	"github.com/fedegarcia/hockeyclub/internal/domain/division"
)

type DivisionService struct {
	divisionRepo division.Repository
}

func NewDivisionService(divisionRepo division.Repository) *DivisionService {
	return &DivisionService{divisionRepo: divisionRepo}
}

func (s *DivisionService) ListDivisions(ctx context.Context) ([]division.Division, error) {
	divisions, err := s.divisionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}

	return divisions, nil
}
