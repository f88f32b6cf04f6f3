package team

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrTeamNotEmpty blocks deleting a team that still carries roster rows.
var ErrTeamNotEmpty = errors.New("team still has players")

// ErrClubDivisionTaken surfaces the (club, division) unique index when a
// concurrent insert wins the slot after the pre-insert check passed.
var ErrClubDivisionTaken = errors.New("club already has a team in division")

// DefaultMaxPlayers caps the roster when the coach does not override it.
const DefaultMaxPlayers = 20

// Team is one club squad registered into a division, owned by a coach.
type Team struct {
	ID         string
	Name       string
	ClubName   string
	DivisionID string
	UserID     string
	MaxPlayers int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if strings.TrimSpace(t.ClubName) == "" {
		return fmt.Errorf("team club name is required")
	}
	if t.DivisionID == "" {
		return fmt.Errorf("team division id is required")
	}
	if t.UserID == "" {
		return fmt.Errorf("team owner id is required")
	}
	if t.MaxPlayers <= 0 {
		return fmt.Errorf("team max players must be greater than zero")
	}

	return nil
}
