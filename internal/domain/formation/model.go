package formation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrStarterLimitReached = errors.New("formation starter limit reached")
	ErrDuplicatePlayer     = errors.New("player already has a position in formation")
	ErrSwapMismatch        = errors.New("positions belong to different formations")
)

// MaxStarters caps the on-field slots of one formation. Substitutes are
// never counted against it.
const MaxStarters = 11

// PositionType is the slot kind inside a formation.
type PositionType string

const (
	PositionStarter    PositionType = "starter"
	PositionSubstitute PositionType = "substitute"
)

// Formation is a named lineup configuration for a team, optionally reusable
// as a template. ExportSettings is opaque to the backend: stored and returned
// for the visual editor, never interpreted.
type Formation struct {
	ID             string
	TeamID         string
	Name           string
	TacticalSystem string
	FormationType  string
	IsTemplate     bool
	ExportSettings map[string]any
	Version        int
	UsageCount     int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (f Formation) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("formation id is required")
	}
	if f.TeamID == "" {
		return fmt.Errorf("formation team id is required")
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("formation name is required")
	}
	if f.Version < 1 {
		return fmt.Errorf("formation version must be >= 1")
	}

	return nil
}

// Position is one player slot within a formation. Field coordinates are
// percentages of the pitch, origin top-left.
type Position struct {
	ID            string
	FormationID   string
	PlayerID      string
	Type          PositionType
	Number        int
	FieldX        float64
	FieldY        float64
	IsCaptain     bool
	IsViceCaptain bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p Position) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("position id is required")
	}
	if p.FormationID == "" {
		return fmt.Errorf("position formation id is required")
	}
	if p.PlayerID == "" {
		return fmt.Errorf("position player id is required")
	}
	if p.Type != PositionStarter && p.Type != PositionSubstitute {
		return fmt.Errorf("invalid position type: %s", p.Type)
	}
	if p.Number <= 0 {
		return fmt.Errorf("position number must be greater than zero")
	}
	if p.FieldX < 0 || p.FieldX > 100 || p.FieldY < 0 || p.FieldY > 100 {
		return fmt.Errorf("field coordinates must be percentages between 0 and 100")
	}

	return nil
}
