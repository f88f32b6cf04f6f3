package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fedegarcia/hockeyclub/internal/domain/team"
	qb "github.com/fedegarcia/hockeyclub/internal/platform/querybuilder"
)

type teamTableModel struct {
	ID         string     `db:"id"`
	Name       string     `db:"name"`
	ClubName   string     `db:"club_name"`
	DivisionID string     `db:"division_id"`
	UserID     string     `db:"user_id"`
	MaxPlayers int        `db:"max_players"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type teamInsertModel struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	ClubName   string `db:"club_name"`
	DivisionID string `db:"division_id"`
	UserID     string `db:"user_id"`
	MaxPlayers int    `db:"max_players"`
}

// TeamRepository soft-deletes rows; the partial unique index on
// (club_name, division_id) only covers live rows, so a deleted registration
// frees the slot.
type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	insertModel := teamInsertModel{
		ID:         item.ID,
		Name:       item.Name,
		ClubName:   item.ClubName,
		DivisionID: item.DivisionID,
		UserID:     item.UserID,
		MaxPlayers: item.MaxPlayers,
	}

	query, args, err := qb.InsertModel("teams", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert team: %w", team.ErrClubDivisionTaken)
		}
		return fmt.Errorf("insert team: %w", err)
	}

	return nil
}

func (r *TeamRepository) Update(ctx context.Context, item team.Team) error {
	query, args, err := qb.Update("teams").
		Set("name", item.Name).
		Set("club_name", item.ClubName).
		Set("division_id", item.DivisionID).
		Set("max_players", item.MaxPlayers).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", item.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update team: %w", team.ErrClubDivisionTaken)
		}
		return fmt.Errorf("update team: %w", err)
	}

	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, teamID string) error {
	query, args, err := qb.Update("teams").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete team query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}

	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("id", teamID))
}

func (r *TeamRepository) GetByClubAndDivision(ctx context.Context, clubName, divisionID string) (team.Team, bool, error) {
	// Matches the teams_club_division_key index expression, which is built
	// on LOWER(club_name).
	return r.getOne(ctx, qb.Expr("LOWER(club_name) = LOWER(?)", clubName), qb.Eq("division_id", divisionID))
}

func (r *TeamRepository) ListByUser(ctx context.Context, userID string) ([]team.Team, error) {
	query, args, err := teamBaseSelectBuilder().
		Where(
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}

	return out, nil
}

func (r *TeamRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM teams WHERE user_id = $1 AND deleted_at IS NULL`

	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}

	return count, nil
}

func (r *TeamRepository) getOne(ctx context.Context, conditions ...qb.Condition) (team.Team, bool, error) {
	conditions = append(conditions, qb.IsNull("deleted_at"))
	query, args, err := teamBaseSelectBuilder().Where(conditions...).ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	return teamFromRow(row), true, nil
}

func teamBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("teams")
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:         row.ID,
		Name:       row.Name,
		ClubName:   row.ClubName,
		DivisionID: row.DivisionID,
		UserID:     row.UserID,
		MaxPlayers: row.MaxPlayers,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
