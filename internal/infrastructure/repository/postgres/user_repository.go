package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fedegarcia/hockeyclub/internal/domain/plan"
	"github.com/fedegarcia/hockeyclub/internal/domain/user"
	qb "github.com/fedegarcia/hockeyclub/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, item user.User) error {
	insertModel := userInsertModel{
		ID:                 item.ID,
		Email:              item.Email,
		PasswordHash:       item.PasswordHash,
		FullName:           item.FullName,
		Role:               string(item.Role),
		Plan:               string(item.Plan),
		SubscriptionStatus: string(item.SubscriptionStatus),
	}

	query, args, err := qb.InsertModel("users", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert user query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, bool, error) {
	return r.getOne(ctx, qb.Eq("email", email))
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	return r.getOne(ctx, qb.Eq("id", userID))
}

func (r *UserRepository) getOne(ctx context.Context, condition qb.Condition) (user.User, bool, error) {
	query, args, err := qb.Select("*").From("users").Where(condition).ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user: %w", err)
	}

	return userFromRow(row), true, nil
}

func userFromRow(row userTableModel) user.User {
	return user.User{
		ID:                 row.ID,
		Email:              row.Email,
		PasswordHash:       row.PasswordHash,
		FullName:           row.FullName,
		Role:               user.Role(row.Role),
		Plan:               plan.Plan(row.Plan),
		SubscriptionStatus: plan.SubscriptionStatus(row.SubscriptionStatus),
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}
