package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/LaykenV/teach-magic-server/internal/domain"
	"github.com/LaykenV/teach-magic-server/internal/infra"
	"github.com/LaykenV/teach-magic-server/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	db infra.SQLExecutor
}

func NewUserRepository(db infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{db: db}
}

// Upsert inserts the account on first sign-in, keyed by email. Returning
// users keep their stored id and token balance; only the display name is
// refreshed from the identity provider.
func (r *UserRepositoryPG) Upsert(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := r.db.QueryRow(ctx, sqlinline.QUpsertUser,
		user.ID,
		user.Email,
		user.Name,
		user.Tokens,
		user.SubscriptionPlan,
	)
	return scanUser(row)
}

func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, sqlinline.QSelectUserByID, id)
	return scanUser(row)
}

// SpendToken decrements the balance by one only when tokens remain. The
// conditional update makes the check-and-spend a single atomic statement.
func (r *UserRepositoryPG) SpendToken(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, sqlinline.QSpendToken, id)
	if err != nil {
		return false, fmt.Errorf("spend token: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *UserRepositoryPG) CreditTokens(ctx context.Context, id string, amount int) (int, error) {
	var balance int
	row := r.db.QueryRow(ctx, sqlinline.QCreditTokens, id, amount)
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("credit tokens: %w", err)
	}
	return balance, nil
}

func (r *UserRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, sqlinline.QDeleteUser, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Tokens, &u.SubscriptionPlan, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
