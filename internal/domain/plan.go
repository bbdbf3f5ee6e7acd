package domain

import (
	"context"
	"time"
)

// Plan-related domain errors.
var (
	ErrPlanNotFound  = &Error{Code: ENOTFOUND, Message: "Plan not found"}
	ErrNoDefaultPlan = &Error{Code: EINTERNAL, Message: "No default plan configured"}
)

// Plan defines a subscription tier: its price and the number of stores
// a subscribed user may own. Plans are read-mostly; editing a plan never
// rewrites historical payments, which keep the amount they were charged.
type Plan struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	IsActive    bool      `json:"is_active"`
	NumOfStores int32     `json:"num_of_stores"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreatePlanParams contains parameters for creating a plan.
type CreatePlanParams struct {
	Name        string
	Description string
	Price       float64
	NumOfStores int32
}

// PlanRepository provides access to plan records.
type PlanRepository interface {
	CreatePlan(ctx context.Context, params CreatePlanParams) (*Plan, error)

	// GetPlan returns ErrPlanNotFound if no plan exists with the given id.
	GetPlan(ctx context.Context, id int64) (*Plan, error)

	ListPlans(ctx context.Context) ([]Plan, error)

	// GetDefaultPlan returns the plan applied to users without an explicit
	// subscription: the cheapest active plan (the seeded Free Plan).
	GetDefaultPlan(ctx context.Context) (*Plan, error)
}
