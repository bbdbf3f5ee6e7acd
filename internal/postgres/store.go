package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robaa12/user-service/internal/domain"
	"github.com/robaa12/user-service/internal/slug"
)

// maxSlugAttempts bounds the numeric-suffix probing before giving up.
const maxSlugAttempts = 25

// StoreRepository implements domain.StoreRepository using PostgreSQL.
type StoreRepository struct {
	pool *pgxpool.Pool
}

var _ domain.StoreRepository = (*StoreRepository)(nil)

// NewStoreRepository creates a new PostgreSQL-backed store repository.
func NewStoreRepository(pool *pgxpool.Pool) *StoreRepository {
	return &StoreRepository{pool: pool}
}

const storeColumns = `id, user_id, store_name, slug, description, business_phone, category_id, store_currency, created_at, updated_at`

func scanStore(row pgx.Row) (*domain.Store, error) {
	var s domain.Store
	err := row.Scan(&s.ID, &s.UserID, &s.StoreName, &s.Slug, &s.Description,
		&s.BusinessPhone, &s.CategoryID, &s.StoreCurrency, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateStore inserts a store with the quota re-checked under a row lock
// on the owning user, so two concurrent creates cannot both pass the
// guard. Slug collisions are resolved inside the same transaction with
// ON CONFLICT DO NOTHING probing, so a lost race never aborts the tx.
func (r *StoreRepository) CreateStore(ctx context.Context, params domain.CreateStoreParams) (*domain.Store, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, domain.Internal(err, "store.create", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	// Lock the owner row. Serializes concurrent creates for the same user.
	var ownerID int64
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, params.UserID).Scan(&ownerID)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal(err, "store.create", "failed to lock user")
	}

	var count int64
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM stores WHERE user_id = $1`, params.UserID).Scan(&count)
	if err != nil {
		return nil, domain.Internal(err, "store.create", "failed to count stores")
	}
	if count >= int64(params.Quota) {
		return nil, domain.ErrStoreQuotaReached
	}

	store, err := r.insertWithSlugProbing(ctx, tx, params)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Internal(err, "store.create", "failed to commit")
	}
	return store, nil
}

// insertWithSlugProbing tries BaseSlug first, then base-1, base-2, ...
// ON CONFLICT DO NOTHING keeps the surrounding transaction usable when a
// candidate loses to a concurrent insert.
func (r *StoreRepository) insertWithSlugProbing(ctx context.Context, tx pgx.Tx, params domain.CreateStoreParams) (*domain.Store, error) {
	candidate := params.BaseSlug
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		row := tx.QueryRow(ctx, `
			INSERT INTO stores (user_id, store_name, slug, description, business_phone, category_id, store_currency)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (slug) DO NOTHING
			RETURNING `+storeColumns,
			params.UserID, params.StoreName, candidate, params.Description,
			params.BusinessPhone, params.CategoryID, params.StoreCurrency)

		store, err := scanStore(row)
		if err == nil {
			return store, nil
		}
		if !isNoRows(err) {
			return nil, domain.Internal(err, "store.create", "failed to insert store")
		}

		candidate = slug.WithSuffix(params.BaseSlug, attempt)
	}

	return nil, domain.ErrSlugTaken
}

// GetStore retrieves a store by id.
func (r *StoreRepository) GetStore(ctx context.Context, id int64) (*domain.Store, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id)

	store, err := scanStore(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrStoreNotFound
		}
		return nil, domain.Internal(err, "store.get", "failed to get store")
	}
	return store, nil
}

// GetStoreBySlug retrieves a store by its unique slug.
func (r *StoreRepository) GetStoreBySlug(ctx context.Context, s string) (*domain.Store, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE slug = $1`, s)

	store, err := scanStore(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrStoreNotFound
		}
		return nil, domain.Internal(err, "store.get_by_slug", "failed to get store")
	}
	return store, nil
}

// ListStoresByUser returns a user's stores, oldest first.
func (r *StoreRepository) ListStoresByUser(ctx context.Context, userID int64) ([]domain.Store, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+storeColumns+` FROM stores WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, domain.Internal(err, "store.list", "failed to list stores")
	}
	defer rows.Close()

	var stores []domain.Store
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, domain.Internal(err, "store.list", "failed to scan store")
		}
		stores = append(stores, *store)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "store.list", "failed to list stores")
	}
	return stores, nil
}

// CountStoresByUser returns the number of stores a user owns.
func (r *StoreRepository) CountStoresByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stores WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, domain.Internal(err, "store.count", "failed to count stores")
	}
	return count, nil
}

// DeleteStore removes the store and its order-payment links in one
// transaction. Theme documents are deleted by the caller.
func (r *StoreRepository) DeleteStore(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Internal(err, "store.delete", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM store_order_payments WHERE store_id = $1`, id); err != nil {
		return domain.Internal(err, "store.delete", "failed to delete order payments")
	}

	tag, err := tx.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return domain.Internal(err, "store.delete", "failed to delete store")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStoreNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, "store.delete", "failed to commit")
	}
	return nil
}
