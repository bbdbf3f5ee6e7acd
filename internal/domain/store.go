package domain

import (
	"context"
	"time"
)

// Store-related domain errors.
var (
	ErrStoreNotFound     = &Error{Code: ENOTFOUND, Message: "Store not found"}
	ErrStoreQuotaReached = &Error{Code: ECONFLICT, Message: "Store quota exceeded for current plan"}
	ErrSlugTaken         = &Error{Code: ECONFLICT, Message: "Store slug already exists"}
)

// Store is a merchant storefront owned by a user. Slug is globally unique
// and backed by a database unique constraint; allocation-time probing is
// only an optimization.
type Store struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	StoreName     string    `json:"store_name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	BusinessPhone string    `json:"business_phone"`
	CategoryID    int64     `json:"category_id"`
	StoreCurrency string    `json:"store_currency"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateStoreParams contains parameters for creating a store.
// Quota is the owning user's plan quota, resolved by the caller; the
// repository re-validates it against the store count inside the same
// transaction that inserts the row.
type CreateStoreParams struct {
	UserID        int64
	StoreName     string
	BaseSlug      string
	Description   string
	BusinessPhone string
	CategoryID    int64
	StoreCurrency string
	Quota         int32
}

// StoreRepository provides access to store records.
type StoreRepository interface {
	// CreateStore inserts a store after re-checking the owner's quota under
	// a row lock on the user. The slug starts at params.BaseSlug and gains
	// numeric suffixes (-1, -2, ...) until the unique constraint accepts it.
	// Returns ErrStoreQuotaReached when the locked count is at quota.
	CreateStore(ctx context.Context, params CreateStoreParams) (*Store, error)

	GetStore(ctx context.Context, id int64) (*Store, error)
	GetStoreBySlug(ctx context.Context, slug string) (*Store, error)
	ListStoresByUser(ctx context.Context, userID int64) ([]Store, error)
	CountStoresByUser(ctx context.Context, userID int64) (int64, error)

	// DeleteStore removes the store and its relational dependents
	// (order-payment links) in one transaction. Theme documents live in a
	// separate document store and are removed by the caller.
	DeleteStore(ctx context.Context, id int64) error
}
