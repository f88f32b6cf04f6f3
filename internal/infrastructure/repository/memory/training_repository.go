package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fedegarcia/hockeyclub/internal/domain/training"
)

type SessionRepository struct {
	mu    sync.RWMutex
	items map[string]training.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{items: make(map[string]training.Session)}
}

func (r *SessionRepository) Create(_ context.Context, item training.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}

func (r *SessionRepository) GetByID(_ context.Context, sessionID string) (training.Session, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[sessionID]
	return item, ok, nil
}

func (r *SessionRepository) ListByTeam(_ context.Context, teamID string) ([]training.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]training.Session, 0)
	for _, item := range r.items {
		if item.TeamID == teamID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	return out, nil
}

func (r *SessionRepository) Cancel(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[sessionID]
	if !ok {
		return nil
	}
	item.IsCancelled = true
	item.UpdatedAt = time.Now().UTC()
	r.items[sessionID] = item

	return nil
}

type AttendanceRepository struct {
	mu    sync.RWMutex
	items map[string]training.Attendance
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{items: make(map[string]training.Attendance)}
}

func (r *AttendanceRepository) Upsert(_ context.Context, item training.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := attendanceKey(item.SessionID, item.PlayerID)
	if existing, ok := r.items[key]; ok {
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
	}
	r.items[key] = item

	return nil
}

func (r *AttendanceRepository) ListBySession(_ context.Context, sessionID string) ([]training.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]training.Attendance, 0)
	for _, item := range r.items {
		if item.SessionID == sessionID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	return out, nil
}

func attendanceKey(sessionID, playerID string) string {
	return sessionID + "::" + playerID
}
