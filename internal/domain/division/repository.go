package division

import "context"

// Repository describes division persistence needs from use cases. Divisions
// are near-static seed data; implementations may serve cached copies.
type Repository interface {
	List(ctx context.Context) ([]Division, error)
	GetByID(ctx context.Context, divisionID string) (Division, bool, error)
}
