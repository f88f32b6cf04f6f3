package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/fedegarcia/hockeyclub/internal/domain/formation"
	qb "github.com/fedegarcia/hockeyclub/internal/platform/querybuilder"
)

type formationTableModel struct {
	ID             string         `db:"id"`
	TeamID         string         `db:"team_id"`
	Name           string         `db:"name"`
	TacticalSystem string         `db:"tactical_system"`
	FormationType  string         `db:"formation_type"`
	IsTemplate     bool           `db:"is_template"`
	ExportSettings sql.NullString `db:"export_settings"`
	Version        int            `db:"version"`
	UsageCount     int            `db:"usage_count"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	DeletedAt      *time.Time     `db:"deleted_at"`
}

type formationInsertModel struct {
	ID             string         `db:"id"`
	TeamID         string         `db:"team_id"`
	Name           string         `db:"name"`
	TacticalSystem string         `db:"tactical_system"`
	FormationType  string         `db:"formation_type"`
	IsTemplate     bool           `db:"is_template"`
	ExportSettings sql.NullString `db:"export_settings"`
	Version        int            `db:"version"`
}

type positionTableModel struct {
	ID            string    `db:"id"`
	FormationID   string    `db:"formation_id"`
	PlayerID      string    `db:"player_id"`
	Type          string    `db:"type"`
	Number        int       `db:"number"`
	FieldX        float64   `db:"field_x"`
	FieldY        float64   `db:"field_y"`
	IsCaptain     bool      `db:"is_captain"`
	IsViceCaptain bool      `db:"is_vice_captain"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type FormationRepository struct {
	db *sqlx.DB
}

func NewFormationRepository(db *sqlx.DB) *FormationRepository {
	return &FormationRepository{db: db}
}

func (r *FormationRepository) Create(ctx context.Context, item formation.Formation) error {
	insertModel, err := formationToInsertModel(item)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("formations", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert formation query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert formation: %w", err)
	}

	return nil
}

// CreateWithPositions copies a formation and its rows in one transaction so a
// failed clone leaves nothing behind.
func (r *FormationRepository) CreateWithPositions(ctx context.Context, item formation.Formation, positions []formation.Position) error {
	insertModel, err := formationToInsertModel(item)
	if err != nil {
		return err
	}

	formationQuery, formationArgs, err := qb.InsertModel("formations", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert formation query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clone transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, formationQuery, formationArgs...); err != nil {
		return fmt.Errorf("insert formation: %w", err)
	}

	const positionQuery = `
INSERT INTO formation_positions (id, formation_id, player_id, type, number, field_x, field_y, is_captain, is_vice_captain)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, p := range positions {
		if _, err := tx.ExecContext(ctx, positionQuery,
			p.ID, p.FormationID, p.PlayerID, string(p.Type), p.Number,
			p.FieldX, p.FieldY, p.IsCaptain, p.IsViceCaptain,
		); err != nil {
			return fmt.Errorf("insert cloned position: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clone transaction: %w", err)
	}

	return nil
}

func (r *FormationRepository) Update(ctx context.Context, item formation.Formation) error {
	settings, err := exportSettingsToNullString(item.ExportSettings)
	if err != nil {
		return err
	}

	query, args, err := qb.Update("formations").
		Set("name", item.Name).
		Set("tactical_system", item.TacticalSystem).
		Set("formation_type", item.FormationType).
		Set("is_template", item.IsTemplate).
		Set("export_settings", settings).
		Set("version", item.Version).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", item.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update formation query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update formation: %w", err)
	}

	return nil
}

func (r *FormationRepository) GetByID(ctx context.Context, formationID string) (formation.Formation, bool, error) {
	query, args, err := qb.Select("*").From("formations").
		Where(
			qb.Eq("id", formationID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return formation.Formation{}, false, fmt.Errorf("build get formation query: %w", err)
	}

	var row formationTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return formation.Formation{}, false, nil
		}
		return formation.Formation{}, false, fmt.Errorf("get formation: %w", err)
	}

	item, err := formationFromRow(row)
	if err != nil {
		return formation.Formation{}, false, err
	}

	return item, true, nil
}

func (r *FormationRepository) ListByTeam(ctx context.Context, teamID string) ([]formation.Formation, error) {
	query, args, err := qb.Select("*").From("formations").
		Where(
			qb.Eq("team_id", teamID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list formations query: %w", err)
	}

	var rows []formationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list formations: %w", err)
	}

	out := make([]formation.Formation, 0, len(rows))
	for _, row := range rows {
		item, err := formationFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *FormationRepository) Delete(ctx context.Context, formationID string) error {
	query, args, err := qb.Update("formations").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("id", formationID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete formation query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete formation: %w", err)
	}

	return nil
}

func (r *FormationRepository) IncrementUsage(ctx context.Context, formationID string) error {
	query, args, err := qb.Update("formations").
		SetExpr("usage_count", "usage_count + 1").
		Where(qb.Eq("id", formationID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build increment usage query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}

	return nil
}

// AddPosition locks the formation row, then runs a conditional insert whose
// WHERE clause re-counts starters. The lock serializes concurrent inserts for
// the same formation, so the count always reflects every earlier insert. A
// zero-row result means the cap blocked it.
func (r *FormationRepository) AddPosition(ctx context.Context, item formation.Position, maxStarters int) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin position transaction: %w", err)
	}
	defer tx.Rollback()

	var lockedID string
	if err := tx.GetContext(ctx, &lockedID,
		`SELECT id FROM formations WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
		item.FormationID,
	); err != nil {
		if isNotFound(err) {
			return false, fmt.Errorf("lock formation: %w", sql.ErrNoRows)
		}
		return false, fmt.Errorf("lock formation: %w", err)
	}

	const query = `
INSERT INTO formation_positions (id, formation_id, player_id, type, number, field_x, field_y, is_captain, is_vice_captain)
SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9
WHERE $4 <> 'starter'
   OR (SELECT COUNT(*) FROM formation_positions WHERE formation_id = $2 AND type = 'starter') < $10`

	result, err := tx.ExecContext(ctx, query,
		item.ID, item.FormationID, item.PlayerID, string(item.Type), item.Number,
		item.FieldX, item.FieldY, item.IsCaptain, item.IsViceCaptain, maxStarters,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, formation.ErrDuplicatePlayer
		}
		return false, fmt.Errorf("insert position: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("position rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit position transaction: %w", err)
	}

	return inserted > 0, nil
}

func (r *FormationRepository) GetPosition(ctx context.Context, positionID string) (formation.Position, bool, error) {
	query, args, err := qb.Select("*").From("formation_positions").
		Where(qb.Eq("id", positionID)).
		ToSQL()
	if err != nil {
		return formation.Position{}, false, fmt.Errorf("build get position query: %w", err)
	}

	var row positionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return formation.Position{}, false, nil
		}
		return formation.Position{}, false, fmt.Errorf("get position: %w", err)
	}

	return positionFromRow(row), true, nil
}

func (r *FormationRepository) ListPositions(ctx context.Context, formationID string) ([]formation.Position, error) {
	query, args, err := qb.Select("*").From("formation_positions").
		Where(qb.Eq("formation_id", formationID)).
		OrderBy("type", "number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list positions query: %w", err)
	}

	var rows []positionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}

	out := make([]formation.Position, 0, len(rows))
	for _, row := range rows {
		out = append(out, positionFromRow(row))
	}

	return out, nil
}

func (r *FormationRepository) UpdatePosition(ctx context.Context, item formation.Position) error {
	query, args, err := qb.Update("formation_positions").
		Set("number", item.Number).
		Set("field_x", item.FieldX).
		Set("field_y", item.FieldY).
		Set("is_captain", item.IsCaptain).
		Set("is_vice_captain", item.IsViceCaptain).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update position query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update position: %w", err)
	}

	return nil
}

func (r *FormationRepository) DeletePosition(ctx context.Context, positionID string) error {
	const query = `DELETE FROM formation_positions WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, positionID); err != nil {
		return fmt.Errorf("delete position: %w", err)
	}

	return nil
}

// SwapPositions locks both rows in a stable order, then exchanges slot type,
// number, coordinates and captain flags. The lock order keeps two opposite
// swaps from deadlocking.
func (r *FormationRepository) SwapPositions(ctx context.Context, positionIDA, positionIDB string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin swap transaction: %w", err)
	}
	defer tx.Rollback()

	const lockQuery = `
SELECT id, formation_id, player_id, type, number, field_x, field_y, is_captain, is_vice_captain, created_at, updated_at
FROM formation_positions
WHERE id IN ($1, $2)
ORDER BY id
FOR UPDATE`

	var rows []positionTableModel
	if err := tx.SelectContext(ctx, &rows, lockQuery, positionIDA, positionIDB); err != nil {
		return fmt.Errorf("lock positions: %w", err)
	}
	if len(rows) != 2 {
		return fmt.Errorf("swap positions: expected 2 rows, locked %d", len(rows))
	}

	byID := map[string]positionTableModel{rows[0].ID: rows[0], rows[1].ID: rows[1]}
	a, b := byID[positionIDA], byID[positionIDB]

	const writeQuery = `
UPDATE formation_positions
SET type = $2, number = $3, field_x = $4, field_y = $5, is_captain = $6, is_vice_captain = $7, updated_at = NOW()
WHERE id = $1`

	if _, err := tx.ExecContext(ctx, writeQuery, a.ID, b.Type, b.Number, b.FieldX, b.FieldY, b.IsCaptain, b.IsViceCaptain); err != nil {
		return fmt.Errorf("write first position: %w", err)
	}
	if _, err := tx.ExecContext(ctx, writeQuery, b.ID, a.Type, a.Number, a.FieldX, a.FieldY, a.IsCaptain, a.IsViceCaptain); err != nil {
		return fmt.Errorf("write second position: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit swap transaction: %w", err)
	}

	return nil
}

func formationToInsertModel(item formation.Formation) (formationInsertModel, error) {
	settings, err := exportSettingsToNullString(item.ExportSettings)
	if err != nil {
		return formationInsertModel{}, err
	}

	return formationInsertModel{
		ID:             item.ID,
		TeamID:         item.TeamID,
		Name:           item.Name,
		TacticalSystem: item.TacticalSystem,
		FormationType:  item.FormationType,
		IsTemplate:     item.IsTemplate,
		ExportSettings: settings,
		Version:        item.Version,
	}, nil
}

func exportSettingsToNullString(settings map[string]any) (sql.NullString, error) {
	if settings == nil {
		return sql.NullString{}, nil
	}

	encoded, err := sonic.Marshal(settings)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal export settings: %w", err)
	}

	return sql.NullString{String: string(encoded), Valid: true}, nil
}

func formationFromRow(row formationTableModel) (formation.Formation, error) {
	item := formation.Formation{
		ID:             row.ID,
		TeamID:         row.TeamID,
		Name:           row.Name,
		TacticalSystem: row.TacticalSystem,
		FormationType:  row.FormationType,
		IsTemplate:     row.IsTemplate,
		Version:        row.Version,
		UsageCount:     row.UsageCount,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}

	if row.ExportSettings.Valid && row.ExportSettings.String != "" {
		settings := make(map[string]any)
		if err := sonic.Unmarshal([]byte(row.ExportSettings.String), &settings); err != nil {
			return formation.Formation{}, fmt.Errorf("unmarshal export settings: %w", err)
		}
		item.ExportSettings = settings
	}

	return item, nil
}

func positionFromRow(row positionTableModel) formation.Position {
	return formation.Position{
		ID:            row.ID,
		FormationID:   row.FormationID,
		PlayerID:      row.PlayerID,
		Type:          formation.PositionType(row.Type),
		Number:        row.Number,
		FieldX:        row.FieldX,
		FieldY:        row.FieldY,
		IsCaptain:     row.IsCaptain,
		IsViceCaptain: row.IsViceCaptain,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
