package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fedegarcia/hockeyclub/internal/domain/user"
)

type TokenRepository struct {
	mu            sync.RWMutex
	refreshTokens map[string]user.RefreshToken
	revokedAccess map[string]user.RevokedAccessToken
	now           func() time.Time
}

func NewTokenRepository() *TokenRepository {
	return &TokenRepository{
		refreshTokens: make(map[string]user.RefreshToken),
		revokedAccess: make(map[string]user.RevokedAccessToken),
		now:           time.Now,
	}
}

func (r *TokenRepository) SaveRefreshToken(_ context.Context, item user.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refreshTokens[item.TokenHash] = item
	return nil
}

func (r *TokenRepository) GetRefreshToken(_ context.Context, tokenHash string) (user.RefreshToken, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.refreshTokens[tokenHash]
	return item, ok, nil
}

func (r *TokenRepository) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.refreshTokens[tokenHash]
	if !ok {
		return nil
	}
	if item.RevokedAt == nil {
		revokedAt := r.now().UTC()
		item.RevokedAt = &revokedAt
		r.refreshTokens[tokenHash] = item
	}

	return nil
}

func (r *TokenRepository) RevokeAccessToken(_ context.Context, item user.RevokedAccessToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.revokedAccess[item.JTI] = item
	return nil
}

func (r *TokenRepository) IsAccessTokenRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.revokedAccess[jti]
	return ok, nil
}
