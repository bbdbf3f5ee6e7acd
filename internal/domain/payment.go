package domain

import (
	"context"
	"time"
)

// Payment-related domain errors.
var (
	ErrPaymentNotFound      = &Error{Code: ENOTFOUND, Message: "Payment not found"}
	ErrOrderPaymentNotFound = &Error{Code: ENOTFOUND, Message: "Order payment not found"}
	ErrDuplicateCharge      = &Error{Code: ECONFLICT, Message: "Charge already recorded"}
)

// PaymentStatus is the ledger state of a subscription payment attempt.
// Transitions: pending -> succeeded (terminal, entitlement applied),
// pending -> failed (terminal). A pending report from the processor is a
// no-op.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSucceeded || s == PaymentStatusFailed
}

// SubscriptionPayment is one row per charge attempt against the external
// processor for a plan subscription. ChargeID is the processor-assigned id
// and the idempotency key: a unique index guarantees one row per charge.
// UserID and PlanID are point-in-time references, not live joins.
type SubscriptionPayment struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"user_id"`
	PlanID      int64         `json:"plan_id"`
	ChargeID    string        `json:"charge_id"`
	Amount      float64       `json:"amount"`
	Currency    string        `json:"currency"`
	Status      PaymentStatus `json:"status"`
	PaymentDate *time.Time    `json:"payment_date"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// StoreOrderPayment links a store, a remote order and the charge that paid
// for it. Written once per successful order charge.
type StoreOrderPayment struct {
	ID        int64     `json:"id"`
	StoreID   int64     `json:"store_id"`
	OrderID   int64     `json:"order_id"`
	ChargeID  string    `json:"charge_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSubscriptionPaymentParams contains parameters for recording a new
// charge attempt.
type CreateSubscriptionPaymentParams struct {
	UserID   int64
	PlanID   int64
	ChargeID string
	Amount   float64
	Currency string
	Status   PaymentStatus
}

// PaymentRepository provides access to the payment ledger.
type PaymentRepository interface {
	// CreateSubscriptionPayment records a charge attempt. Returns
	// ErrDuplicateCharge when the charge id is already recorded.
	CreateSubscriptionPayment(ctx context.Context, params CreateSubscriptionPaymentParams) (*SubscriptionPayment, error)

	// GetSubscriptionPaymentByChargeID returns ErrPaymentNotFound for an
	// unknown charge id. Unknown ids must never create or mutate state.
	GetSubscriptionPaymentByChargeID(ctx context.Context, chargeID string) (*SubscriptionPayment, error)

	// MarkSucceeded moves the payment to succeeded and applies the
	// entitlement (user.plan = payment.plan, user.plan_expire_date =
	// expireAt) in one transaction, conditioned on the prior status being
	// pending. The returned bool reports whether this call won the
	// transition; callers observing false must not re-apply entitlement.
	MarkSucceeded(ctx context.Context, chargeID string, expireAt time.Time) (*SubscriptionPayment, bool, error)

	// MarkFailed moves a pending payment to failed, conditioned on the
	// prior status being pending. The returned bool reports whether this
	// call won the transition; an already terminal row is a no-op and
	// returns the current record with false.
	MarkFailed(ctx context.Context, chargeID string) (*SubscriptionPayment, bool, error)

	// ListStalePending returns pending payments created before the cutoff,
	// oldest first, capped at limit. Fed to the reconciliation sweeper for
	// charges whose callback never arrived.
	ListStalePending(ctx context.Context, cutoff time.Time, limit int32) ([]SubscriptionPayment, error)

	// CreateStoreOrderPayment persists the store/order/charge link.
	// Returns ErrDuplicateCharge when the charge id is already linked.
	CreateStoreOrderPayment(ctx context.Context, link StoreOrderPayment) (*StoreOrderPayment, error)

	// GetStoreOrderPaymentByChargeID returns ErrOrderPaymentNotFound for an
	// unknown charge id.
	GetStoreOrderPaymentByChargeID(ctx context.Context, chargeID string) (*StoreOrderPayment, error)
}
