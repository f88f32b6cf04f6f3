package user

import "time"

// RefreshToken is stored hashed; the raw token never touches the database.
type RefreshToken struct {
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
}

func (t RefreshToken) Active(now time.Time) bool {
	return t.RevokedAt == nil && t.ExpiresAt.After(now)
}

// RevokedAccessToken denylists one access token until its natural expiry.
type RevokedAccessToken struct {
	JTI       string
	UserID    string
	ExpiresAt time.Time
}
