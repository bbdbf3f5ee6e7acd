// Package events publishes domain events to the platform message bus.
// Downstream services (notifications, analytics) consume them; this
// service only ever publishes.
package events

import "context"

// Subjects for published events.
const (
	SubjectPaymentSucceeded = "payment.succeeded"
	SubjectPaymentFailed    = "payment.failed"
	SubjectOrderPaid        = "order.paid"
)

// Publisher delivers domain events. Publishing is best-effort: callers
// log failures and carry on, the request outcome never depends on it.
type Publisher interface {
	Publish(ctx context.Context, subject string, event any) error
	Close()
}

// PaymentEvent is the payload for payment.succeeded / payment.failed.
type PaymentEvent struct {
	ChargeID string  `json:"charge_id"`
	UserID   int64   `json:"user_id"`
	PlanID   int64   `json:"plan_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Status   string  `json:"status"`
}

// OrderPaidEvent is the payload for order.paid.
type OrderPaidEvent struct {
	ChargeID string  `json:"charge_id"`
	OrderID  int64   `json:"order_id"`
	StoreID  int64   `json:"store_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// NopPublisher discards every event. Used when the bus is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, subject string, event any) error { return nil }
func (NopPublisher) Close()                                                       {}
