package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/robaa12/user-service/internal/domain"
	"github.com/robaa12/user-service/internal/slug"
)

// CreateStoreInput contains the caller-supplied fields for a new store.
// The slug is derived from the store name, never supplied.
type CreateStoreInput struct {
	UserID        int64
	StoreName     string
	Description   string
	BusinessPhone string
	CategoryID    int64
	StoreCurrency string
}

// StoreService provides business logic for store provisioning.
type StoreService interface {
	// CreateStore provisions a store for the user, enforcing the plan's
	// store quota and allocating a unique slug from the store name.
	CreateStore(ctx context.Context, input CreateStoreInput) (*domain.Store, error)

	GetStore(ctx context.Context, id int64) (*domain.Store, error)
	GetStoreBySlug(ctx context.Context, s string) (*domain.Store, error)
	ListStoresByUser(ctx context.Context, userID int64) ([]domain.Store, error)

	// DeleteStore removes the store and all its dependents: theme
	// documents first, then the relational rows.
	DeleteStore(ctx context.Context, id int64) error
}

type storeService struct {
	users  domain.UserRepository
	plans  domain.PlanRepository
	stores domain.StoreRepository
	themes domain.ThemeRepository
	logger zerolog.Logger
}

// NewStoreService creates a new StoreService instance.
func NewStoreService(
	users domain.UserRepository,
	plans domain.PlanRepository,
	stores domain.StoreRepository,
	themes domain.ThemeRepository,
	logger zerolog.Logger,
) StoreService {
	return &storeService{
		users:  users,
		plans:  plans,
		stores: stores,
		themes: themes,
		logger: logger,
	}
}

// CreateStore provisions a store under the owner's quota.
func (s *storeService) CreateStore(ctx context.Context, input CreateStoreInput) (*domain.Store, error) {
	user, err := s.users.GetUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	quota, err := s.resolveQuota(ctx, user)
	if err != nil {
		return nil, err
	}

	// Fast-fail outside the transaction. The repository re-checks the
	// count under a lock on the user row, so this is only a shortcut.
	count, err := s.stores.CountStoresByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if count >= int64(quota) {
		return nil, domain.ErrStoreQuotaReached
	}

	base := slug.Make(input.StoreName)
	if base == "" {
		return nil, ErrEmptyStoreName
	}

	store, err := s.stores.CreateStore(ctx, domain.CreateStoreParams{
		UserID:        user.ID,
		StoreName:     input.StoreName,
		BaseSlug:      base,
		Description:   input.Description,
		BusinessPhone: input.BusinessPhone,
		CategoryID:    input.CategoryID,
		StoreCurrency: input.StoreCurrency,
		Quota:         quota,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("store_id", store.ID).
		Int64("user_id", user.ID).
		Str("slug", store.Slug).
		Msg("store created")

	return store, nil
}

// resolveQuota returns the number of stores the user may own. Users with
// no plan, or whose plan entitlement lapsed, get the default plan's quota.
func (s *storeService) resolveQuota(ctx context.Context, user *domain.User) (int32, error) {
	expired := user.PlanExpireDate != nil && user.PlanExpireDate.Before(time.Now())
	if user.PlanID == nil || expired {
		plan, err := s.plans.GetDefaultPlan(ctx)
		if err != nil {
			return 0, err
		}
		return plan.NumOfStores, nil
	}

	plan, err := s.plans.GetPlan(ctx, *user.PlanID)
	if err != nil {
		return 0, err
	}
	return plan.NumOfStores, nil
}

func (s *storeService) GetStore(ctx context.Context, id int64) (*domain.Store, error) {
	return s.stores.GetStore(ctx, id)
}

func (s *storeService) GetStoreBySlug(ctx context.Context, sl string) (*domain.Store, error) {
	return s.stores.GetStoreBySlug(ctx, sl)
}

func (s *storeService) ListStoresByUser(ctx context.Context, userID int64) ([]domain.Store, error) {
	return s.stores.ListStoresByUser(ctx, userID)
}

// DeleteStore removes the store with its dependents enumerated
// explicitly: theme documents in the document store, then the
// relational rows.
func (s *storeService) DeleteStore(ctx context.Context, id int64) error {
	if _, err := s.stores.GetStore(ctx, id); err != nil {
		return err
	}

	if err := s.themes.DeleteThemesByStore(ctx, id); err != nil {
		return err
	}

	if err := s.stores.DeleteStore(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("store_id", id).Msg("store deleted")
	return nil
}
