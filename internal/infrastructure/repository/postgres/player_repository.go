package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fedegarcia/hockeyclub/internal/domain/player"
	qb "github.com/fedegarcia/hockeyclub/internal/platform/querybuilder"
)

type playerTableModel struct {
	ID        string         `db:"id"`
	TeamID    string         `db:"team_id"`
	FirstName string         `db:"first_name"`
	LastName  string         `db:"last_name"`
	Nickname  sql.NullString `db:"nickname"`
	BirthDate time.Time      `db:"birth_date"`
	Position  string         `db:"position"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type playerInsertModel struct {
	ID        string         `db:"id"`
	TeamID    string         `db:"team_id"`
	FirstName string         `db:"first_name"`
	LastName  string         `db:"last_name"`
	Nickname  sql.NullString `db:"nickname"`
	BirthDate time.Time      `db:"birth_date"`
	Position  string         `db:"position"`
}

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) error {
	insertModel := playerInsertModel{
		ID:        item.ID,
		TeamID:    item.TeamID,
		FirstName: item.FirstName,
		LastName:  item.LastName,
		Nickname:  ptrToNullString(item.Nickname),
		BirthDate: item.BirthDate,
		Position:  string(item.Position),
	}

	query, args, err := qb.InsertModel("players", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert player: %w", err)
	}

	return nil
}

func (r *PlayerRepository) Update(ctx context.Context, item player.Player) error {
	query, args, err := qb.Update("players").
		Set("first_name", item.FirstName).
		Set("last_name", item.LastName).
		Set("nickname", ptrToNullString(item.Nickname)).
		Set("birth_date", item.BirthDate).
		Set("position", string(item.Position)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update player: %w", err)
	}

	return nil
}

func (r *PlayerRepository) Delete(ctx context.Context, playerID string) error {
	const query = `DELETE FROM players WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, playerID); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}

	return nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}

	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("last_name", "first_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}

	return out, nil
}

func (r *PlayerRepository) CountByTeam(ctx context.Context, teamID string) (int, error) {
	const query = `SELECT COUNT(*) FROM players WHERE team_id = $1`

	var count int
	if err := r.db.GetContext(ctx, &count, query, teamID); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}

	return count, nil
}

// CountDivisionsByClub matches the person by name and birth date across every
// live team of the club; each team keeps its own player row, so there is no
// shared person id to join on.
func (r *PlayerRepository) CountDivisionsByClub(ctx context.Context, firstName, lastName string, birthDate time.Time, clubName string) (int, error) {
	const query = `
SELECT COUNT(DISTINCT t.division_id)
FROM players p
JOIN teams t ON t.id = p.team_id
WHERE LOWER(p.first_name) = LOWER($1)
  AND LOWER(p.last_name) = LOWER($2)
  AND p.birth_date = $3
  AND LOWER(t.club_name) = LOWER($4)
  AND t.deleted_at IS NULL`

	var count int
	if err := r.db.GetContext(ctx, &count, query, firstName, lastName, birthDate, clubName); err != nil {
		return 0, fmt.Errorf("count divisions by club: %w", err)
	}

	return count, nil
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:        row.ID,
		TeamID:    row.TeamID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Nickname:  nullStringToPtr(row.Nickname),
		BirthDate: row.BirthDate,
		Position:  player.Position(row.Position),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
