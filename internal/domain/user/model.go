package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fedegarcia/hockeyclub/internal/domain/plan"
)

// ErrEmailTaken surfaces a duplicate registration caught by the storage
// layer's unique index, after the pre-insert lookup already passed.
var ErrEmailTaken = errors.New("email already registered")

// Role controls coarse authorization on the HTTP surface.
type Role string

const (
	RoleCoach Role = "coach"
	RoleAdmin Role = "admin"
)

// User is a coach account that owns teams.
type User struct {
	ID                 string
	Email              string
	PasswordHash       string
	FullName           string
	Role               Role
	Plan               plan.Plan
	SubscriptionStatus plan.SubscriptionStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (u User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("user email is required")
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("user password hash is required")
	}
	if u.Role != RoleCoach && u.Role != RoleAdmin {
		return fmt.Errorf("invalid user role: %s", u.Role)
	}
	if !u.Plan.Known() {
		return fmt.Errorf("invalid user plan: %s", u.Plan)
	}

	return nil
}

// Principal is the authenticated identity attached to a request context.
// ExpiresAt mirrors the access token's exp claim so logout can denylist the
// jti exactly until its natural expiry.
type Principal struct {
	UserID    string
	Email     string
	Role      Role
	Plan      plan.Plan
	JTI       string
	ExpiresAt time.Time
}
