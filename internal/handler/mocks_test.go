package handler

import (
	"context"

	"github.com/robaa12/user-service/internal/domain"
	"github.com/robaa12/user-service/internal/orders"
	"github.com/robaa12/user-service/internal/service"
)

// Stub services with overridable funcs. Calls without an override panic
// so a test exercising an unexpected path fails loudly.

type stubPaymentService struct {
	OpenFunc      func(ctx context.Context, userID, planID int64) (*service.PaymentSession, error)
	ReconcileFunc func(ctx context.Context, chargeID string) (*service.ReconcileResult, error)
}

func (s *stubPaymentService) OpenSubscriptionPayment(ctx context.Context, userID, planID int64) (*service.PaymentSession, error) {
	return s.OpenFunc(ctx, userID, planID)
}

func (s *stubPaymentService) Reconcile(ctx context.Context, chargeID string) (*service.ReconcileResult, error) {
	return s.ReconcileFunc(ctx, chargeID)
}

type stubOrderPaymentService struct {
	CreateFunc   func(ctx context.Context, draft orders.OrderDraft) (*service.OrderPaymentResult, error)
	RetrieveFunc func(ctx context.Context, chargeID string) (*service.OrderPaymentStatus, error)
}

func (s *stubOrderPaymentService) CreateOrderPayment(ctx context.Context, draft orders.OrderDraft) (*service.OrderPaymentResult, error) {
	return s.CreateFunc(ctx, draft)
}

func (s *stubOrderPaymentService) RetrieveOrderPayment(ctx context.Context, chargeID string) (*service.OrderPaymentStatus, error) {
	return s.RetrieveFunc(ctx, chargeID)
}

type stubStoreService struct {
	CreateFunc    func(ctx context.Context, input service.CreateStoreInput) (*domain.Store, error)
	GetFunc       func(ctx context.Context, id int64) (*domain.Store, error)
	GetBySlugFunc func(ctx context.Context, slug string) (*domain.Store, error)
	ListFunc      func(ctx context.Context, userID int64) ([]domain.Store, error)
	DeleteFunc    func(ctx context.Context, id int64) error
}

func (s *stubStoreService) CreateStore(ctx context.Context, input service.CreateStoreInput) (*domain.Store, error) {
	return s.CreateFunc(ctx, input)
}

func (s *stubStoreService) GetStore(ctx context.Context, id int64) (*domain.Store, error) {
	return s.GetFunc(ctx, id)
}

func (s *stubStoreService) GetStoreBySlug(ctx context.Context, slug string) (*domain.Store, error) {
	return s.GetBySlugFunc(ctx, slug)
}

func (s *stubStoreService) ListStoresByUser(ctx context.Context, userID int64) ([]domain.Store, error) {
	return s.ListFunc(ctx, userID)
}

func (s *stubStoreService) DeleteStore(ctx context.Context, id int64) error {
	return s.DeleteFunc(ctx, id)
}

type stubThemeService struct {
	UpsertFunc       func(ctx context.Context, params domain.UpsertThemeParams) (*domain.Theme, error)
	ListFunc         func(ctx context.Context, storeID int64) ([]domain.Theme, error)
	ActiveFunc       func(ctx context.Context, storeID int64) (*domain.Theme, error)
	ActiveBySlugFunc func(ctx context.Context, slug string) (*domain.Theme, error)
	DeleteFunc       func(ctx context.Context, id string) error
}

func (s *stubThemeService) UpsertTheme(ctx context.Context, params domain.UpsertThemeParams) (*domain.Theme, error) {
	return s.UpsertFunc(ctx, params)
}

func (s *stubThemeService) ListThemes(ctx context.Context, storeID int64) ([]domain.Theme, error) {
	return s.ListFunc(ctx, storeID)
}

func (s *stubThemeService) ActiveTheme(ctx context.Context, storeID int64) (*domain.Theme, error) {
	return s.ActiveFunc(ctx, storeID)
}

func (s *stubThemeService) ActiveThemeBySlug(ctx context.Context, slug string) (*domain.Theme, error) {
	return s.ActiveBySlugFunc(ctx, slug)
}

func (s *stubThemeService) DeleteTheme(ctx context.Context, id string) error {
	return s.DeleteFunc(ctx, id)
}

type stubUserService struct {
	GetFunc    func(ctx context.Context, id int64) (*domain.User, error)
	DeleteFunc func(ctx context.Context, id int64) error
}

func (s *stubUserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.GetFunc(ctx, id)
}

func (s *stubUserService) DeleteUser(ctx context.Context, id int64) error {
	return s.DeleteFunc(ctx, id)
}

type stubPlanService struct {
	CreateFunc func(ctx context.Context, params domain.CreatePlanParams) (*domain.Plan, error)
	GetFunc    func(ctx context.Context, id int64) (*domain.Plan, error)
	ListFunc   func(ctx context.Context) ([]domain.Plan, error)
}

func (s *stubPlanService) CreatePlan(ctx context.Context, params domain.CreatePlanParams) (*domain.Plan, error) {
	return s.CreateFunc(ctx, params)
}

func (s *stubPlanService) GetPlan(ctx context.Context, id int64) (*domain.Plan, error) {
	return s.GetFunc(ctx, id)
}

func (s *stubPlanService) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	return s.ListFunc(ctx)
}
