package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fedegarcia/hockeyclub/internal/domain/division"
	qb "github.com/fedegarcia/hockeyclub/internal/platform/querybuilder"
)

type divisionTableModel struct {
	ID             string        `db:"id"`
	Name           string        `db:"name"`
	Gender         string        `db:"gender"`
	MinBirthYear   sql.NullInt64 `db:"min_birth_year"`
	MaxBirthYear   sql.NullInt64 `db:"max_birth_year"`
	AllowsShootout bool          `db:"allows_shootout"`
	IsActive       bool          `db:"is_active"`
}

type DivisionRepository struct {
	db *sqlx.DB
}

func NewDivisionRepository(db *sqlx.DB) *DivisionRepository {
	return &DivisionRepository{db: db}
}

func (r *DivisionRepository) List(ctx context.Context) ([]division.Division, error) {
	query, args, err := qb.Select("*").From("divisions").OrderBy("name").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list divisions query: %w", err)
	}

	var rows []divisionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}

	out := make([]division.Division, 0, len(rows))
	for _, row := range rows {
		out = append(out, divisionFromRow(row))
	}

	return out, nil
}

func (r *DivisionRepository) GetByID(ctx context.Context, divisionID string) (division.Division, bool, error) {
	query, args, err := qb.Select("*").From("divisions").
		Where(qb.Eq("id", divisionID)).
		ToSQL()
	if err != nil {
		return division.Division{}, false, fmt.Errorf("build get division query: %w", err)
	}

	var row divisionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return division.Division{}, false, nil
		}
		return division.Division{}, false, fmt.Errorf("get division: %w", err)
	}

	return divisionFromRow(row), true, nil
}

func divisionFromRow(row divisionTableModel) division.Division {
	return division.Division{
		ID:             row.ID,
		Name:           row.Name,
		Gender:         division.Gender(row.Gender),
		MinBirthYear:   nullInt64ToIntPtr(row.MinBirthYear),
		MaxBirthYear:   nullInt64ToIntPtr(row.MaxBirthYear),
		AllowsShootout: row.AllowsShootout,
		IsActive:       row.IsActive,
	}
}
