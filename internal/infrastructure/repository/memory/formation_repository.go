package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fedegarcia/hockeyclub/internal/domain/formation"
)

type FormationRepository struct {
	mu        sync.RWMutex
	items     map[string]formation.Formation
	positions map[string]formation.Position
}

func NewFormationRepository() *FormationRepository {
	return &FormationRepository{
		items:     make(map[string]formation.Formation),
		positions: make(map[string]formation.Position),
	}
}

func (r *FormationRepository) Create(_ context.Context, item formation.Formation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneFormation(item)
	return nil
}

func (r *FormationRepository) CreateWithPositions(_ context.Context, item formation.Formation, positions []formation.Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneFormation(item)
	for _, p := range positions {
		r.positions[p.ID] = p
	}

	return nil
}

func (r *FormationRepository) Update(_ context.Context, item formation.Formation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneFormation(item)
	return nil
}

func (r *FormationRepository) GetByID(_ context.Context, formationID string) (formation.Formation, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[formationID]
	if !ok {
		return formation.Formation{}, false, nil
	}

	return cloneFormation(item), true, nil
}

func (r *FormationRepository) ListByTeam(_ context.Context, teamID string) ([]formation.Formation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]formation.Formation, 0)
	for _, item := range r.items {
		if item.TeamID == teamID {
			out = append(out, cloneFormation(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *FormationRepository) Delete(_ context.Context, formationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, formationID)
	for id, p := range r.positions {
		if p.FormationID == formationID {
			delete(r.positions, id)
		}
	}

	return nil
}

func (r *FormationRepository) IncrementUsage(_ context.Context, formationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[formationID]
	if !ok {
		return nil
	}
	item.UsageCount++
	r.items[formationID] = item

	return nil
}

// AddPosition enforces the starter cap under the same lock as the insert,
// mirroring the conditional-insert semantics of the SQL implementation.
func (r *FormationRepository) AddPosition(_ context.Context, item formation.Position, maxStarters int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.Type == formation.PositionStarter {
		starters := 0
		for _, p := range r.positions {
			if p.FormationID == item.FormationID && p.Type == formation.PositionStarter {
				starters++
			}
		}
		if starters >= maxStarters {
			return false, nil
		}
	}

	r.positions[item.ID] = item

	return true, nil
}

func (r *FormationRepository) GetPosition(_ context.Context, positionID string) (formation.Position, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.positions[positionID]
	return item, ok, nil
}

func (r *FormationRepository) ListPositions(_ context.Context, formationID string) ([]formation.Position, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]formation.Position, 0)
	for _, item := range r.positions {
		if item.FormationID == formationID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })

	return out, nil
}

func (r *FormationRepository) UpdatePosition(_ context.Context, item formation.Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.positions[item.ID] = item
	return nil
}

func (r *FormationRepository) DeletePosition(_ context.Context, positionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.positions, positionID)
	return nil
}

func (r *FormationRepository) SwapPositions(_ context.Context, positionIDA, positionIDB string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, okA := r.positions[positionIDA]
	b, okB := r.positions[positionIDB]
	if !okA || !okB {
		return nil
	}

	now := time.Now().UTC()
	a.Type, b.Type = b.Type, a.Type
	a.Number, b.Number = b.Number, a.Number
	a.FieldX, b.FieldX = b.FieldX, a.FieldX
	a.FieldY, b.FieldY = b.FieldY, a.FieldY
	a.IsCaptain, b.IsCaptain = b.IsCaptain, a.IsCaptain
	a.IsViceCaptain, b.IsViceCaptain = b.IsViceCaptain, a.IsViceCaptain
	a.UpdatedAt = now
	b.UpdatedAt = now

	r.positions[positionIDA] = a
	r.positions[positionIDB] = b

	return nil
}

func cloneFormation(f formation.Formation) formation.Formation {
	copied := f
	if f.ExportSettings != nil {
		settings := make(map[string]any, len(f.ExportSettings))
		for k, v := range f.ExportSettings {
			settings[k] = v
		}
		copied.ExportSettings = settings
	}

	return copied
}
