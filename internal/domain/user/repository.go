package user

import "context"

// Repository describes user persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, item User) error
	GetByEmail(ctx context.Context, email string) (User, bool, error)
	GetByID(ctx context.Context, userID string) (User, bool, error)
}

// TokenRepository stores refresh tokens and the access-token denylist in the
// shared database so revocation is visible across server instances.
type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, item RefreshToken) error
	GetRefreshToken(ctx context.Context, tokenHash string) (RefreshToken, bool, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAccessToken(ctx context.Context, item RevokedAccessToken) error
	IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error)
}
