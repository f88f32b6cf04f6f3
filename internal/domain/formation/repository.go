package formation

import "context"

// Repository describes formation persistence needs from use cases.
//
// AddPosition and SwapPositions carry multi-step invariants (starter cap,
// read-both/write-both exchange). Implementations must run each inside a
// row-locked transaction so the invariants hold under concurrent requests.
type Repository interface {
	Create(ctx context.Context, item Formation) error
	// CreateWithPositions inserts a formation and all its positions in one
	// transaction. Used by cloning.
	CreateWithPositions(ctx context.Context, item Formation, positions []Position) error
	// Update persists mutable formation fields and bumps Version.
	Update(ctx context.Context, item Formation) error
	GetByID(ctx context.Context, formationID string) (Formation, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]Formation, error)
	Delete(ctx context.Context, formationID string) error
	IncrementUsage(ctx context.Context, formationID string) error

	// AddPosition inserts only while the formation holds fewer than
	// maxStarters starter rows (the cap never applies to substitutes).
	// Returns false with a nil error when the cap blocked the insert.
	AddPosition(ctx context.Context, item Position, maxStarters int) (bool, error)
	GetPosition(ctx context.Context, positionID string) (Position, bool, error)
	ListPositions(ctx context.Context, formationID string) ([]Position, error)
	UpdatePosition(ctx context.Context, item Position) error
	DeletePosition(ctx context.Context, positionID string) error
	// SwapPositions exchanges coordinates, number, type and captain flags
	// between two rows of the same formation.
	SwapPositions(ctx context.Context, positionIDA, positionIDB string) error
}
