package training

import "context"

// SessionRepository describes training session persistence needs.
type SessionRepository interface {
	Create(ctx context.Context, item Session) error
	GetByID(ctx context.Context, sessionID string) (Session, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]Session, error)
	Cancel(ctx context.Context, sessionID string) error
}

// AttendanceRepository stores one row per (player, session).
type AttendanceRepository interface {
	Upsert(ctx context.Context, item Attendance) error
	ListBySession(ctx context.Context, sessionID string) ([]Attendance, error)
}
