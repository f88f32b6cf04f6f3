package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fedegarcia/hockeyclub/internal/domain/training"
	qb "github.com/fedegarcia/hockeyclub/internal/platform/querybuilder"
)

type sessionTableModel struct {
	ID              string    `db:"id"`
	TeamID          string    `db:"team_id"`
	Name            string    `db:"name"`
	Date            time.Time `db:"date"`
	DurationMinutes int       `db:"duration_minutes"`
	Type            string    `db:"type"`
	IsCancelled     bool      `db:"is_cancelled"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type sessionInsertModel struct {
	ID              string    `db:"id"`
	TeamID          string    `db:"team_id"`
	Name            string    `db:"name"`
	Date            time.Time `db:"date"`
	DurationMinutes int       `db:"duration_minutes"`
	Type            string    `db:"type"`
}

type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, item training.Session) error {
	insertModel := sessionInsertModel{
		ID:              item.ID,
		TeamID:          item.TeamID,
		Name:            item.Name,
		Date:            item.Date,
		DurationMinutes: item.DurationMinutes,
		Type:            string(item.Type),
	}

	query, args, err := qb.InsertModel("training_sessions", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert session query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (training.Session, bool, error) {
	query, args, err := qb.Select("*").From("training_sessions").
		Where(qb.Eq("id", sessionID)).
		ToSQL()
	if err != nil {
		return training.Session{}, false, fmt.Errorf("build get session query: %w", err)
	}

	var row sessionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return training.Session{}, false, nil
		}
		return training.Session{}, false, fmt.Errorf("get session: %w", err)
	}

	return sessionFromRow(row), true, nil
}

func (r *SessionRepository) ListByTeam(ctx context.Context, teamID string) ([]training.Session, error) {
	query, args, err := qb.Select("*").From("training_sessions").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("date DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sessions query: %w", err)
	}

	var rows []sessionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]training.Session, 0, len(rows))
	for _, row := range rows {
		out = append(out, sessionFromRow(row))
	}

	return out, nil
}

// Cancel flags the row; attendance history stays behind it.
func (r *SessionRepository) Cancel(ctx context.Context, sessionID string) error {
	query, args, err := qb.Update("training_sessions").
		Set("is_cancelled", true).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", sessionID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build cancel session query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("cancel session: %w", err)
	}

	return nil
}

func sessionFromRow(row sessionTableModel) training.Session {
	return training.Session{
		ID:              row.ID,
		TeamID:          row.TeamID,
		Name:            row.Name,
		Date:            row.Date,
		DurationMinutes: row.DurationMinutes,
		Type:            training.SessionType(row.Type),
		IsCancelled:     row.IsCancelled,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

type attendanceTableModel struct {
	ID                 string        `db:"id"`
	SessionID          string        `db:"session_id"`
	PlayerID           string        `db:"player_id"`
	Status             string        `db:"status"`
	ParticipationLevel sql.NullInt64 `db:"participation_level"`
	CreatedAt          time.Time     `db:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at"`
}

type attendanceInsertModel struct {
	ID                 string        `db:"id"`
	SessionID          string        `db:"session_id"`
	PlayerID           string        `db:"player_id"`
	Status             string        `db:"status"`
	ParticipationLevel sql.NullInt64 `db:"participation_level"`
}

type AttendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert keeps one row per (session, player); re-marking replaces the status
// and participation level in place.
func (r *AttendanceRepository) Upsert(ctx context.Context, item training.Attendance) error {
	insertModel := attendanceInsertModel{
		ID:                 item.ID,
		SessionID:          item.SessionID,
		PlayerID:           item.PlayerID,
		Status:             string(item.Status),
		ParticipationLevel: intPtrToNullInt64(item.ParticipationLevel),
	}

	query, args, err := qb.InsertModel("training_attendances", insertModel, `ON CONFLICT (session_id, player_id)
DO UPDATE SET
    status = EXCLUDED.status,
    participation_level = EXCLUDED.participation_level,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert attendance query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}

	return nil
}

func (r *AttendanceRepository) ListBySession(ctx context.Context, sessionID string) ([]training.Attendance, error) {
	query, args, err := qb.Select("*").From("training_attendances").
		Where(qb.Eq("session_id", sessionID)).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list attendances query: %w", err)
	}

	var rows []attendanceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list attendances: %w", err)
	}

	out := make([]training.Attendance, 0, len(rows))
	for _, row := range rows {
		out = append(out, training.Attendance{
			ID:                 row.ID,
			SessionID:          row.SessionID,
			PlayerID:           row.PlayerID,
			Status:             training.AttendanceStatus(row.Status),
			ParticipationLevel: nullInt64ToIntPtr(row.ParticipationLevel),
			CreatedAt:          row.CreatedAt,
			UpdatedAt:          row.UpdatedAt,
		})
	}

	return out, nil
}
