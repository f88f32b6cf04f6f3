package training

import (
	"fmt"
	"strings"
	"time"
)

// SessionType categorizes what the team works on.
type SessionType string

const (
	SessionTypePhysical  SessionType = "fisico"
	SessionTypeTechnical SessionType = "tecnico"
	SessionTypeTactical  SessionType = "tactico"
	SessionTypeMatch     SessionType = "partido"
)

var AllSessionTypes = map[SessionType]struct{}{
	SessionTypePhysical:  {},
	SessionTypeTechnical: {},
	SessionTypeTactical:  {},
	SessionTypeMatch:     {},
}

// Session is one scheduled training for a team. Cancelling keeps the row so
// attendance history survives.
type Session struct {
	ID              string
	TeamID          string
	Name            string
	Date            time.Time
	DurationMinutes int
	Type            SessionType
	IsCancelled     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (s Session) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if s.TeamID == "" {
		return fmt.Errorf("session team id is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("session name is required")
	}
	if s.Date.IsZero() {
		return fmt.Errorf("session date is required")
	}
	if s.DurationMinutes <= 0 {
		return fmt.Errorf("session duration must be greater than zero")
	}
	if _, ok := AllSessionTypes[s.Type]; !ok {
		return fmt.Errorf("invalid session type: %s", s.Type)
	}

	return nil
}

// AttendanceStatus is recorded per player per session.
type AttendanceStatus string

const (
	StatusPresente AttendanceStatus = "presente"
	StatusTarde    AttendanceStatus = "tarde"
	StatusAusente  AttendanceStatus = "ausente"
)

var AllAttendanceStatuses = map[AttendanceStatus]struct{}{
	StatusPresente: {},
	StatusTarde:    {},
	StatusAusente:  {},
}

// Attendance is one row per (player, session); re-marking overwrites it.
type Attendance struct {
	ID                 string
	SessionID          string
	PlayerID           string
	Status             AttendanceStatus
	ParticipationLevel *int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (a Attendance) Validate() error {
	if a.SessionID == "" {
		return fmt.Errorf("attendance session id is required")
	}
	if a.PlayerID == "" {
		return fmt.Errorf("attendance player id is required")
	}
	if _, ok := AllAttendanceStatuses[a.Status]; !ok {
		return fmt.Errorf("invalid attendance status: %s", a.Status)
	}
	if a.ParticipationLevel != nil && (*a.ParticipationLevel < 1 || *a.ParticipationLevel > 5) {
		return fmt.Errorf("participation level must be between 1 and 5")
	}

	return nil
}
