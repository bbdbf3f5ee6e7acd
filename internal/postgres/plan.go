package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robaa12/user-service/internal/domain"
)

// PlanRepository implements domain.PlanRepository using PostgreSQL.
type PlanRepository struct {
	pool *pgxpool.Pool
}

// Compile-time check that PlanRepository implements domain.PlanRepository.
var _ domain.PlanRepository = (*PlanRepository)(nil)

// NewPlanRepository creates a new PostgreSQL-backed plan repository.
func NewPlanRepository(pool *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{pool: pool}
}

const planColumns = `id, name, description, price, is_active, num_of_stores, created_at, updated_at`

func scanPlan(row pgx.Row) (*domain.Plan, error) {
	var p domain.Plan
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.IsActive, &p.NumOfStores, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePlan inserts a new active plan.
func (r *PlanRepository) CreatePlan(ctx context.Context, params domain.CreatePlanParams) (*domain.Plan, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO plans (name, description, price, is_active, num_of_stores)
		VALUES ($1, $2, $3, true, $4)
		RETURNING `+planColumns,
		params.Name, params.Description, params.Price, params.NumOfStores)

	plan, err := scanPlan(row)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, domain.Conflict("plan.create", "plan name already exists")
		}
		return nil, domain.Internal(err, "plan.create", "failed to create plan")
	}
	return plan, nil
}

// GetPlan retrieves a plan by id.
func (r *PlanRepository) GetPlan(ctx context.Context, id int64) (*domain.Plan, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id)

	plan, err := scanPlan(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, domain.Internal(err, "plan.get", "failed to get plan")
	}
	return plan, nil
}

// ListPlans returns all plans, cheapest first.
func (r *PlanRepository) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+planColumns+` FROM plans ORDER BY price, id`)
	if err != nil {
		return nil, domain.Internal(err, "plan.list", "failed to list plans")
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, domain.Internal(err, "plan.list", "failed to scan plan")
		}
		plans = append(plans, *plan)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "plan.list", "failed to list plans")
	}
	return plans, nil
}

// GetDefaultPlan returns the cheapest active plan, applied to users with
// no explicit subscription.
func (r *PlanRepository) GetDefaultPlan(ctx context.Context) (*domain.Plan, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+planColumns+`
		FROM plans
		WHERE is_active
		ORDER BY price, id
		LIMIT 1`)

	plan, err := scanPlan(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNoDefaultPlan
		}
		return nil, domain.Internal(err, "plan.default", "failed to get default plan")
	}
	return plan, nil
}
