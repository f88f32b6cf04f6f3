package player

import (
	"context"
	"time"
)

// Repository describes player persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, item Player) error
	Update(ctx context.Context, item Player) error
	Delete(ctx context.Context, playerID string) error
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]Player, error)
	CountByTeam(ctx context.Context, teamID string) (int, error)
	// CountDivisionsByClub counts the distinct divisions a person is
	// registered in across all teams of the given club. Identity is matched
	// by name and birth date because each team keeps its own player row.
	CountDivisionsByClub(ctx context.Context, firstName, lastName string, birthDate time.Time, clubName string) (int, error)
}
