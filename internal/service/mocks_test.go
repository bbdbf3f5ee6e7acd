package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robaa12/user-service/internal/domain"
	"github.com/robaa12/user-service/internal/slug"
)

// In-memory repository fakes. They honor the same concurrency contracts
// as the PostgreSQL implementations (quota re-check under lock, slug
// uniqueness, charge-id compare-and-set) so service tests can exercise
// races without a database.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[int64]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) DeleteUser(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type fakePlanRepo struct {
	mu     sync.Mutex
	plans  map[int64]*domain.Plan
	nextID int64
}

func newFakePlanRepo(plans ...*domain.Plan) *fakePlanRepo {
	r := &fakePlanRepo{plans: make(map[int64]*domain.Plan)}
	for _, p := range plans {
		r.plans[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *fakePlanRepo) CreatePlan(ctx context.Context, params domain.CreatePlanParams) (*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.plans {
		if p.Name == params.Name {
			return nil, domain.Conflict("plan.create", "plan name already exists")
		}
	}
	r.nextID++
	plan := &domain.Plan{
		ID:          r.nextID,
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		IsActive:    true,
		NumOfStores: params.NumOfStores,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	r.plans[plan.ID] = plan
	return plan, nil
}

func (r *fakePlanRepo) GetPlan(ctx context.Context, id int64) (*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePlanRepo) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Plan
	for _, p := range r.plans {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePlanRepo) GetDefaultPlan(ctx context.Context) (*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var def *domain.Plan
	for _, p := range r.plans {
		if !p.IsActive {
			continue
		}
		if def == nil || p.Price < def.Price {
			def = p
		}
	}
	if def == nil {
		return nil, domain.ErrNoDefaultPlan
	}
	cp := *def
	return &cp, nil
}

type fakeStoreRepo struct {
	mu     sync.Mutex
	stores map[int64]*domain.Store
	nextID int64
}

func newFakeStoreRepo(stores ...*domain.Store) *fakeStoreRepo {
	r := &fakeStoreRepo{stores: make(map[int64]*domain.Store)}
	for _, s := range stores {
		r.stores[s.ID] = s
		if s.ID > r.nextID {
			r.nextID = s.ID
		}
	}
	return r
}

func (r *fakeStoreRepo) CreateStore(ctx context.Context, params domain.CreateStoreParams) (*domain.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	taken := make(map[string]bool)
	for _, s := range r.stores {
		if s.UserID == params.UserID {
			count++
		}
		taken[s.Slug] = true
	}
	if count >= int64(params.Quota) {
		return nil, domain.ErrStoreQuotaReached
	}

	candidate := params.BaseSlug
	for attempt := 1; taken[candidate]; attempt++ {
		if attempt > 25 {
			return nil, domain.ErrSlugTaken
		}
		candidate = slug.WithSuffix(params.BaseSlug, attempt)
	}

	r.nextID++
	store := &domain.Store{
		ID:            r.nextID,
		UserID:        params.UserID,
		StoreName:     params.StoreName,
		Slug:          candidate,
		Description:   params.Description,
		BusinessPhone: params.BusinessPhone,
		CategoryID:    params.CategoryID,
		StoreCurrency: params.StoreCurrency,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	r.stores[store.ID] = store
	return store, nil
}

func (r *fakeStoreRepo) GetStore(ctx context.Context, id int64) (*domain.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[id]
	if !ok {
		return nil, domain.ErrStoreNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStoreRepo) GetStoreBySlug(ctx context.Context, sl string) (*domain.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.stores {
		if s.Slug == sl {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrStoreNotFound
}

func (r *fakeStoreRepo) ListStoresByUser(ctx context.Context, userID int64) ([]domain.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Store
	for _, s := range r.stores {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeStoreRepo) CountStoresByUser(ctx context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, s := range r.stores {
		if s.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeStoreRepo) DeleteStore(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stores[id]; !ok {
		return domain.ErrStoreNotFound
	}
	delete(r.stores, id)
	return nil
}

type fakePaymentRepo struct {
	mu     sync.Mutex
	users  *fakeUserRepo
	byID   map[string]*domain.SubscriptionPayment
	links  map[string]*domain.StoreOrderPayment
	nextID int64
}

func newFakePaymentRepo(users *fakeUserRepo) *fakePaymentRepo {
	return &fakePaymentRepo{
		users: users,
		byID:  make(map[string]*domain.SubscriptionPayment),
		links: make(map[string]*domain.StoreOrderPayment),
	}
}

func (r *fakePaymentRepo) CreateSubscriptionPayment(ctx context.Context, params domain.CreateSubscriptionPaymentParams) (*domain.SubscriptionPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[params.ChargeID]; ok {
		return nil, domain.ErrDuplicateCharge
	}
	r.nextID++
	p := &domain.SubscriptionPayment{
		ID:        r.nextID,
		UserID:    params.UserID,
		PlanID:    params.PlanID,
		ChargeID:  params.ChargeID,
		Amount:    params.Amount,
		Currency:  params.Currency,
		Status:    params.Status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.byID[params.ChargeID] = p
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) GetSubscriptionPaymentByChargeID(ctx context.Context, chargeID string) (*domain.SubscriptionPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[chargeID]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) MarkSucceeded(ctx context.Context, chargeID string, expireAt time.Time) (*domain.SubscriptionPayment, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[chargeID]
	if !ok {
		return nil, false, domain.ErrPaymentNotFound
	}
	if p.Status != domain.PaymentStatusPending {
		cp := *p
		return &cp, false, nil
	}

	now := time.Now()
	p.Status = domain.PaymentStatusSucceeded
	p.PaymentDate = &now
	p.UpdatedAt = now

	// Entitlement applied with the status flip, as in the SQL transaction.
	r.users.mu.Lock()
	if u, ok := r.users.users[p.UserID]; ok {
		planID := p.PlanID
		expire := expireAt
		u.PlanID = &planID
		u.PlanExpireDate = &expire
	}
	r.users.mu.Unlock()

	cp := *p
	return &cp, true, nil
}

func (r *fakePaymentRepo) MarkFailed(ctx context.Context, chargeID string) (*domain.SubscriptionPayment, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[chargeID]
	if !ok {
		return nil, false, domain.ErrPaymentNotFound
	}
	if p.Status != domain.PaymentStatusPending {
		cp := *p
		return &cp, false, nil
	}
	p.Status = domain.PaymentStatusFailed
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, true, nil
}

func (r *fakePaymentRepo) ListStalePending(ctx context.Context, cutoff time.Time, limit int32) ([]domain.SubscriptionPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SubscriptionPayment
	for _, p := range r.byID {
		if p.Status == domain.PaymentStatusPending && p.CreatedAt.Before(cutoff) {
			out = append(out, *p)
		}
		if int32(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) CreateStoreOrderPayment(ctx context.Context, link domain.StoreOrderPayment) (*domain.StoreOrderPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.links[link.ChargeID]; ok {
		return nil, domain.ErrDuplicateCharge
	}
	r.nextID++
	link.ID = r.nextID
	link.CreatedAt = time.Now()
	r.links[link.ChargeID] = &link
	cp := link
	return &cp, nil
}

func (r *fakePaymentRepo) GetStoreOrderPaymentByChargeID(ctx context.Context, chargeID string) (*domain.StoreOrderPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.links[chargeID]
	if !ok {
		return nil, domain.ErrOrderPaymentNotFound
	}
	cp := *l
	return &cp, nil
}

type fakeThemeRepo struct {
	mu     sync.Mutex
	themes map[string]*domain.Theme
	nextID int64
}

func newFakeThemeRepo() *fakeThemeRepo {
	return &fakeThemeRepo{themes: make(map[string]*domain.Theme)}
}

func (r *fakeThemeRepo) UpsertTheme(ctx context.Context, params domain.UpsertThemeParams) (*domain.Theme, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if params.MakeActive {
		for _, t := range r.themes {
			if t.StoreID == params.StoreID && t.Name != params.Name {
				t.IsActive = false
			}
		}
	}

	for _, t := range r.themes {
		if t.StoreID == params.StoreID && t.Name == params.Name {
			t.Img = params.Img
			t.LocalPath = params.LocalPath
			t.Pages = params.Pages
			t.IsActive = params.MakeActive
			t.UpdatedAt = time.Now()
			cp := *t
			return &cp, nil
		}
	}

	r.nextID++
	id := fmt.Sprintf("theme-%d", r.nextID)
	theme := &domain.Theme{
		ID:        id,
		StoreID:   params.StoreID,
		Name:      params.Name,
		Img:       params.Img,
		LocalPath: params.LocalPath,
		IsActive:  params.MakeActive,
		Pages:     params.Pages,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.themes[id] = theme
	cp := *theme
	return &cp, nil
}

func (r *fakeThemeRepo) ListThemesByStore(ctx context.Context, storeID int64) ([]domain.Theme, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Theme
	for _, t := range r.themes {
		if t.StoreID == storeID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeThemeRepo) ActiveThemeByStore(ctx context.Context, storeID int64) (*domain.Theme, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.themes {
		if t.StoreID == storeID && t.IsActive {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrActiveThemeNotFound
}

func (r *fakeThemeRepo) DeleteTheme(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.themes[id]; !ok {
		return domain.ErrThemeNotFound
	}
	delete(r.themes, id)
	return nil
}

func (r *fakeThemeRepo) DeleteThemesByStore(ctx context.Context, storeID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.themes {
		if t.StoreID == storeID {
			delete(r.themes, id)
		}
	}
	return nil
}
