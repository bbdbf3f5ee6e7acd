package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robaa12/user-service/internal/domain"
)

// PaymentRepository implements domain.PaymentRepository using PostgreSQL.
// The charge id carries a unique index in both ledger tables; it is the
// idempotency key for everything the processor reports back.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

var _ domain.PaymentRepository = (*PaymentRepository)(nil)

// NewPaymentRepository creates a new PostgreSQL-backed payment repository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, user_id, plan_id, charge_id, amount, currency, status, payment_date, created_at, updated_at`

func scanPayment(row pgx.Row) (*domain.SubscriptionPayment, error) {
	var p domain.SubscriptionPayment
	err := row.Scan(&p.ID, &p.UserID, &p.PlanID, &p.ChargeID, &p.Amount,
		&p.Currency, &p.Status, &p.PaymentDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateSubscriptionPayment records a charge attempt in the ledger.
func (r *PaymentRepository) CreateSubscriptionPayment(ctx context.Context, params domain.CreateSubscriptionPaymentParams) (*domain.SubscriptionPayment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO subscription_payments (user_id, plan_id, charge_id, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+paymentColumns,
		params.UserID, params.PlanID, params.ChargeID, params.Amount, params.Currency, params.Status)

	payment, err := scanPayment(row)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, domain.ErrDuplicateCharge
		}
		return nil, domain.Internal(err, "payment.create", "failed to record payment")
	}
	return payment, nil
}

// GetSubscriptionPaymentByChargeID looks up a ledger row by charge id.
func (r *PaymentRepository) GetSubscriptionPaymentByChargeID(ctx context.Context, chargeID string) (*domain.SubscriptionPayment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM subscription_payments WHERE charge_id = $1`, chargeID)

	payment, err := scanPayment(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, domain.Internal(err, "payment.get", "failed to get payment")
	}
	return payment, nil
}

// MarkSucceeded flips a pending payment to succeeded and applies the plan
// entitlement to the user in the same transaction. The conditional UPDATE
// is the compare-and-set: whichever caller's update matches a row wins the
// transition, everyone else observes won=false and must not touch the user.
func (r *PaymentRepository) MarkSucceeded(ctx context.Context, chargeID string, expireAt time.Time) (*domain.SubscriptionPayment, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, domain.Internal(err, "payment.mark_succeeded", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE subscription_payments
		SET status = $2, payment_date = now(), updated_at = now()
		WHERE charge_id = $1 AND status = $3
		RETURNING `+paymentColumns,
		chargeID, domain.PaymentStatusSucceeded, domain.PaymentStatusPending)

	payment, err := scanPayment(row)
	if err != nil {
		if isNoRows(err) {
			// Lost the race or the row is already terminal. Report current state.
			current, gerr := r.GetSubscriptionPaymentByChargeID(ctx, chargeID)
			if gerr != nil {
				return nil, false, gerr
			}
			return current, false, nil
		}
		return nil, false, domain.Internal(err, "payment.mark_succeeded", "failed to update payment")
	}

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET plan_id = $1, plan_expire_date = $2, updated_at = now()
		WHERE id = $3`,
		payment.PlanID, expireAt, payment.UserID)
	if err != nil {
		return nil, false, domain.Internal(err, "payment.mark_succeeded", "failed to apply entitlement")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, domain.Internal(err, "payment.mark_succeeded", "failed to commit")
	}
	return payment, true, nil
}

// MarkFailed flips a pending payment to failed. The conditional UPDATE is
// the compare-and-set, mirroring MarkSucceeded: terminal rows are left
// untouched and returned as-is with won=false.
func (r *PaymentRepository) MarkFailed(ctx context.Context, chargeID string) (*domain.SubscriptionPayment, bool, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE subscription_payments
		SET status = $2, updated_at = now()
		WHERE charge_id = $1 AND status = $3
		RETURNING `+paymentColumns,
		chargeID, domain.PaymentStatusFailed, domain.PaymentStatusPending)

	payment, err := scanPayment(row)
	if err != nil {
		if isNoRows(err) {
			current, gerr := r.GetSubscriptionPaymentByChargeID(ctx, chargeID)
			if gerr != nil {
				return nil, false, gerr
			}
			return current, false, nil
		}
		return nil, false, domain.Internal(err, "payment.mark_failed", "failed to update payment")
	}
	return payment, true, nil
}

// ListStalePending returns pending payments created before the cutoff,
// oldest first.
func (r *PaymentRepository) ListStalePending(ctx context.Context, cutoff time.Time, limit int32) ([]domain.SubscriptionPayment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM subscription_payments
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at
		LIMIT $3`,
		domain.PaymentStatusPending, cutoff, limit)
	if err != nil {
		return nil, domain.Internal(err, "payment.list_stale_pending", "failed to list pending payments")
	}
	defer rows.Close()

	var out []domain.SubscriptionPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, domain.Internal(err, "payment.list_stale_pending", "failed to scan payment")
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "payment.list_stale_pending", "failed to read payments")
	}
	return out, nil
}

// CreateStoreOrderPayment persists the store/order/charge link.
func (r *PaymentRepository) CreateStoreOrderPayment(ctx context.Context, link domain.StoreOrderPayment) (*domain.StoreOrderPayment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO store_order_payments (store_id, order_id, charge_id)
		VALUES ($1, $2, $3)
		RETURNING id, store_id, order_id, charge_id, created_at`,
		link.StoreID, link.OrderID, link.ChargeID)

	var out domain.StoreOrderPayment
	err := row.Scan(&out.ID, &out.StoreID, &out.OrderID, &out.ChargeID, &out.CreatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, domain.ErrDuplicateCharge
		}
		return nil, domain.Internal(err, "order_payment.create", "failed to record order payment")
	}
	return &out, nil
}

// GetStoreOrderPaymentByChargeID looks up the link row by charge id.
func (r *PaymentRepository) GetStoreOrderPaymentByChargeID(ctx context.Context, chargeID string) (*domain.StoreOrderPayment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, store_id, order_id, charge_id, created_at
		FROM store_order_payments
		WHERE charge_id = $1`, chargeID)

	var out domain.StoreOrderPayment
	err := row.Scan(&out.ID, &out.StoreID, &out.OrderID, &out.ChargeID, &out.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrOrderPaymentNotFound
		}
		return nil, domain.Internal(err, "order_payment.get", "failed to get order payment")
	}
	return &out, nil
}
