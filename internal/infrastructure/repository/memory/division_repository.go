package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fedegarcia/hockeyclub/internal/domain/division"
)

type DivisionRepository struct {
	mu    sync.RWMutex
	items map[string]division.Division
}

func NewDivisionRepository(seed []division.Division) *DivisionRepository {
	items := make(map[string]division.Division, len(seed))
	for _, item := range seed {
		items[item.ID] = item
	}

	return &DivisionRepository{items: items}
}

func (r *DivisionRepository) List(_ context.Context) ([]division.Division, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]division.Division, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *DivisionRepository) GetByID(_ context.Context, divisionID string) (division.Division, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[divisionID]
	return item, ok, nil
}
