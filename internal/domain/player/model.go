package player

import (
	"fmt"
	"strings"
	"time"
)

// Position is the field role a player usually takes.
type Position string

const (
	PositionGoalkeeper Position = "arquera"
	PositionDefender   Position = "defensora"
	PositionMidfielder Position = "mediocampista"
	PositionForward    Position = "delantera"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// Player belongs to exactly one team at a time.
type Player struct {
	ID        string
	TeamID    string
	FirstName string
	LastName  string
	Nickname  *string
	BirthDate time.Time
	Position  Position
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.TeamID == "" {
		return fmt.Errorf("player team id is required")
	}
	if strings.TrimSpace(p.FirstName) == "" {
		return fmt.Errorf("player first name is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("player last name is required")
	}
	if p.BirthDate.IsZero() {
		return fmt.Errorf("player birth date is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}

	return nil
}

func (p Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
