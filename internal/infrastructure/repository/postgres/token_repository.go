package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fedegarcia/hockeyclub/internal/domain/user"
	qb "github.com/fedegarcia/hockeyclub/internal/platform/querybuilder"
)

type refreshTokenTableModel struct {
	TokenHash string     `db:"token_hash"`
	UserID    string     `db:"user_id"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

type refreshTokenInsertModel struct {
	TokenHash string    `db:"token_hash"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
}

type revokedAccessInsertModel struct {
	JTI       string    `db:"jti"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
}

// TokenRepository keeps refresh tokens and the access-token denylist in the
// database so every server instance sees the same revocation state.
type TokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) SaveRefreshToken(ctx context.Context, item user.RefreshToken) error {
	insertModel := refreshTokenInsertModel{
		TokenHash: item.TokenHash,
		UserID:    item.UserID,
		ExpiresAt: item.ExpiresAt,
	}

	query, args, err := qb.InsertModel("refresh_tokens", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert refresh token query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}

	return nil
}

func (r *TokenRepository) GetRefreshToken(ctx context.Context, tokenHash string) (user.RefreshToken, bool, error) {
	query, args, err := qb.Select("*").From("refresh_tokens").
		Where(qb.Eq("token_hash", tokenHash)).
		ToSQL()
	if err != nil {
		return user.RefreshToken{}, false, fmt.Errorf("build get refresh token query: %w", err)
	}

	var row refreshTokenTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.RefreshToken{}, false, nil
		}
		return user.RefreshToken{}, false, fmt.Errorf("get refresh token: %w", err)
	}

	return user.RefreshToken{
		TokenHash: row.TokenHash,
		UserID:    row.UserID,
		ExpiresAt: row.ExpiresAt,
		RevokedAt: row.RevokedAt,
	}, true, nil
}

func (r *TokenRepository) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	query, args, err := qb.Update("refresh_tokens").
		SetExpr("revoked_at", "NOW()").
		Where(
			qb.Eq("token_hash", tokenHash),
			qb.IsNull("revoked_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build revoke refresh token query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	return nil
}

func (r *TokenRepository) RevokeAccessToken(ctx context.Context, item user.RevokedAccessToken) error {
	insertModel := revokedAccessInsertModel{
		JTI:       item.JTI,
		UserID:    item.UserID,
		ExpiresAt: item.ExpiresAt,
	}

	// Revoking twice is a no-op, not an error.
	query, args, err := qb.InsertModel("revoked_access_tokens", insertModel, "ON CONFLICT (jti) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert revoked access token query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert revoked access token: %w", err)
	}

	return nil
}

func (r *TokenRepository) IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM revoked_access_tokens WHERE jti = $1)`

	var revoked bool
	if err := r.db.GetContext(ctx, &revoked, query, jti); err != nil {
		return false, fmt.Errorf("check revoked access token: %w", err)
	}

	return revoked, nil
}
