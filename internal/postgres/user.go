package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robaa12/user-service/internal/domain"
)

// UserRepository implements domain.UserRepository using PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

var _ domain.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, first_name, last_name, email, phone_number, is_active, plan_id, plan_expire_date, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber,
		&u.IsActive, &u.PlanID, &u.PlanExpireDate, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUser retrieves a user by id.
func (r *UserRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal(err, "user.get", "failed to get user")
	}
	return user, nil
}

// DeleteUser removes a user and every dependent row in one transaction.
// The cascade is spelled out so nothing survives as an orphan: order-payment
// links for the user's stores, the stores, the payment ledger, then the user.
func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Internal(err, "user.delete", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM store_order_payments
		WHERE store_id IN (SELECT id FROM stores WHERE user_id = $1)`, id); err != nil {
		return domain.Internal(err, "user.delete", "failed to delete order payments")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM stores WHERE user_id = $1`, id); err != nil {
		return domain.Internal(err, "user.delete", "failed to delete stores")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM subscription_payments WHERE user_id = $1`, id); err != nil {
		return domain.Internal(err, "user.delete", "failed to delete payments")
	}

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return domain.Internal(err, "user.delete", "failed to delete user")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, "user.delete", "failed to commit")
	}
	return nil
}
