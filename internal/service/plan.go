package service

import (
	"context"

	"github.com/robaa12/user-service/internal/domain"
)

// PlanService provides business logic for the plan catalog.
type PlanService interface {
	// CreatePlan adds a new tier to the catalog. Existing payments keep
	// the amounts they were charged; plan edits never rewrite history.
	CreatePlan(ctx context.Context, params domain.CreatePlanParams) (*domain.Plan, error)

	GetPlan(ctx context.Context, id int64) (*domain.Plan, error)
	ListPlans(ctx context.Context) ([]domain.Plan, error)
}

type planService struct {
	plans domain.PlanRepository
}

// NewPlanService creates a new PlanService instance.
func NewPlanService(plans domain.PlanRepository) PlanService {
	return &planService{plans: plans}
}

func (s *planService) CreatePlan(ctx context.Context, params domain.CreatePlanParams) (*domain.Plan, error) {
	if params.Name == "" {
		return nil, domain.Invalid("plan.create", "plan name is required")
	}
	if params.Price < 0 {
		return nil, ErrInvalidPlanPrice
	}
	if params.NumOfStores <= 0 {
		return nil, ErrInvalidQuota
	}

	return s.plans.CreatePlan(ctx, params)
}

func (s *planService) GetPlan(ctx context.Context, id int64) (*domain.Plan, error) {
	return s.plans.GetPlan(ctx, id)
}

func (s *planService) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	return s.plans.ListPlans(ctx)
}
