// Package orders is the client for the remote order service. Storefront
// order drafts are created there; this service only coordinates payment
// for them.
package orders

import (
	"context"
	"time"
)

// Client defines the interface for the remote order service.
type Client interface {
	// CreateOrder submits an order draft and returns the created order.
	CreateOrder(ctx context.Context, draft OrderDraft) (*Order, error)

	// GetOrder fetches an order by id within a store.
	GetOrder(ctx context.Context, storeID, orderID int64) (*Order, error)

	// VoidOrder cancels an order whose payment could not be opened.
	// Compensation path; callers treat failures as non-fatal.
	VoidOrder(ctx context.Context, storeID, orderID int64) error
}

// OrderItem is one line of an order draft.
type OrderItem struct {
	SKUID    int64   `json:"sku_id" validate:"required"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Quantity int32   `json:"quantity" validate:"required,gt=0"`
}

// OrderDraft is the order shape the storefront checkout submits.
type OrderDraft struct {
	StoreID        int64       `json:"store_id" validate:"required"`
	TotalPrice     float64     `json:"total_price" validate:"required,gt=0"`
	Email          string      `json:"email" validate:"required,email"`
	CustomerName   string      `json:"customer_name" validate:"required"`
	PhoneNumber    string      `json:"phone_number" validate:"required"`
	Address        string      `json:"address" validate:"required"`
	PaymentMethod  string      `json:"payment_method" validate:"required"`
	Note           string      `json:"note,omitempty"`
	City           string      `json:"city" validate:"required"`
	Governorate    string      `json:"governorate" validate:"required"`
	PostalCode     string      `json:"postal_code,omitempty"`
	ShippingMethod string      `json:"shipping_method" validate:"required"`
	OrderItems     []OrderItem `json:"order_items" validate:"required,min=1,dive"`
}

// Order is an order as reported by the order service.
type Order struct {
	ID         int64     `json:"id"`
	StoreID    int64     `json:"store_id"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
