package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, item Team) error
	Update(ctx context.Context, item Team) error
	Delete(ctx context.Context, teamID string) error
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	GetByClubAndDivision(ctx context.Context, clubName, divisionID string) (Team, bool, error)
	ListByUser(ctx context.Context, userID string) ([]Team, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}
