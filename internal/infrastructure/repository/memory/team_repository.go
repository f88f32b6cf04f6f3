package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/fedegarcia/hockeyclub/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]team.Team
}

func NewTeamRepository(seed []team.Team) *TeamRepository {
	items := make(map[string]team.Team, len(seed))
	for _, item := range seed {
		items[item.ID] = item
	}

	return &TeamRepository{items: items}
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}

func (r *TeamRepository) Update(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}

func (r *TeamRepository) Delete(_ context.Context, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, teamID)
	return nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[teamID]
	return item, ok, nil
}

func (r *TeamRepository) GetByClubAndDivision(_ context.Context, clubName, divisionID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if strings.EqualFold(item.ClubName, clubName) && item.DivisionID == divisionID {
			return item, true, nil
		}
	}

	return team.Team{}, false, nil
}

func (r *TeamRepository) ListByUser(_ context.Context, userID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *TeamRepository) CountByUser(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.items {
		if item.UserID == userID {
			count++
		}
	}

	return count, nil
}
