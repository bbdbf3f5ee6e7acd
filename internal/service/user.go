package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/robaa12/user-service/internal/domain"
)

// UserService provides account lookup and removal.
type UserService interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)

	// DeleteUser removes the user and everything they own: theme
	// documents store by store, then the relational rows (link rows,
	// stores, payments, user) in one transaction.
	DeleteUser(ctx context.Context, id int64) error
}

type userService struct {
	users  domain.UserRepository
	stores domain.StoreRepository
	themes domain.ThemeRepository
	logger zerolog.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(
	users domain.UserRepository,
	stores domain.StoreRepository,
	themes domain.ThemeRepository,
	logger zerolog.Logger,
) UserService {
	return &userService{
		users:  users,
		stores: stores,
		themes: themes,
		logger: logger,
	}
}

func (s *userService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetUser(ctx, id)
}

func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	owned, err := s.stores.ListStoresByUser(ctx, id)
	if err != nil {
		return err
	}

	for _, store := range owned {
		if err := s.themes.DeleteThemesByStore(ctx, store.ID); err != nil {
			return err
		}
	}

	if err := s.users.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.logger.Info().
		Int64("user_id", id).
		Int("stores_removed", len(owned)).
		Msg("user deleted")
	return nil
}
