package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fedegarcia/hockeyclub/internal/domain/player"
)

type PlayerRepository struct {
	mu    sync.RWMutex
	items map[string]player.Player
	teams *TeamRepository
}

// NewPlayerRepository needs the team repository to resolve club membership
// for the per-club division count.
func NewPlayerRepository(seed []player.Player, teams *TeamRepository) *PlayerRepository {
	items := make(map[string]player.Player, len(seed))
	for _, item := range seed {
		items[item.ID] = item
	}

	return &PlayerRepository{items: items, teams: teams}
}

func (r *PlayerRepository) Create(_ context.Context, item player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}

func (r *PlayerRepository) Update(_ context.Context, item player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}

func (r *PlayerRepository) Delete(_ context.Context, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, playerID)
	return nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[playerID]
	return item, ok, nil
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0)
	for _, item := range r.items {
		if item.TeamID == teamID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })

	return out, nil
}

func (r *PlayerRepository) CountByTeam(_ context.Context, teamID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.items {
		if item.TeamID == teamID {
			count++
		}
	}

	return count, nil
}

func (r *PlayerRepository) CountDivisionsByClub(ctx context.Context, firstName, lastName string, birthDate time.Time, clubName string) (int, error) {
	r.mu.RLock()
	items := make([]player.Player, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	r.mu.RUnlock()

	divisions := make(map[string]struct{})
	for _, item := range items {
		if !strings.EqualFold(item.FirstName, firstName) ||
			!strings.EqualFold(item.LastName, lastName) ||
			!sameDay(item.BirthDate, birthDate) {
			continue
		}

		owner, exists, err := r.teams.GetByID(ctx, item.TeamID)
		if err != nil {
			return 0, err
		}
		if !exists || owner.ClubName != clubName {
			continue
		}
		divisions[owner.DivisionID] = struct{}{}
	}

	return len(divisions), nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
