package service

import (
	"context"

	"github.com/robaa12/user-service/internal/domain"
)

// ThemeService provides business logic for storefront themes.
type ThemeService interface {
	// UpsertTheme creates or overwrites the store's theme identified by
	// its name. With MakeActive set, the theme becomes the store's only
	// active theme in one atomic step.
	UpsertTheme(ctx context.Context, params domain.UpsertThemeParams) (*domain.Theme, error)

	ListThemes(ctx context.Context, storeID int64) ([]domain.Theme, error)
	ActiveTheme(ctx context.Context, storeID int64) (*domain.Theme, error)

	// ActiveThemeBySlug is the storefront rendering path: it resolves the
	// store by slug and returns its active theme.
	ActiveThemeBySlug(ctx context.Context, slug string) (*domain.Theme, error)

	DeleteTheme(ctx context.Context, id string) error
}

type themeService struct {
	stores domain.StoreRepository
	themes domain.ThemeRepository
}

// NewThemeService creates a new ThemeService instance.
func NewThemeService(stores domain.StoreRepository, themes domain.ThemeRepository) ThemeService {
	return &themeService{
		stores: stores,
		themes: themes,
	}
}

func (s *themeService) UpsertTheme(ctx context.Context, params domain.UpsertThemeParams) (*domain.Theme, error) {
	if params.Name == "" {
		return nil, domain.Invalid("theme.upsert", "theme name is required")
	}

	// Themes only exist under a real store.
	if _, err := s.stores.GetStore(ctx, params.StoreID); err != nil {
		return nil, err
	}

	return s.themes.UpsertTheme(ctx, params)
}

func (s *themeService) ListThemes(ctx context.Context, storeID int64) ([]domain.Theme, error) {
	return s.themes.ListThemesByStore(ctx, storeID)
}

func (s *themeService) ActiveTheme(ctx context.Context, storeID int64) (*domain.Theme, error) {
	return s.themes.ActiveThemeByStore(ctx, storeID)
}

func (s *themeService) ActiveThemeBySlug(ctx context.Context, slug string) (*domain.Theme, error) {
	store, err := s.stores.GetStoreBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.themes.ActiveThemeByStore(ctx, store.ID)
}

func (s *themeService) DeleteTheme(ctx context.Context, id string) error {
	return s.themes.DeleteTheme(ctx, id)
}
