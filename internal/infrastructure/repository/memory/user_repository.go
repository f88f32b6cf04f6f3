package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/fedegarcia/hockeyclub/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func NewUserRepository(seed []user.User) *UserRepository {
	items := make(map[string]user.User, len(seed))
	for _, item := range seed {
		items[item.ID] = item
	}

	return &UserRepository{items: items}
}

func (r *UserRepository) Create(_ context.Context, item user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, item := range r.items {
		if item.Email == email {
			return item, true, nil
		}
	}

	return user.User{}, false, nil
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[userID]
	return item, ok, nil
}
