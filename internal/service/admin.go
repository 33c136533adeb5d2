package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/listenupapp/lessons-server/internal/domain"
	domainerrors "github.com/listenupapp/lessons-server/internal/errors"
	"github.com/listenupapp/lessons-server/internal/store"
)

// AdminService handles admin-only user management and reporting.
type AdminService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(store *store.Store, logger *slog.Logger) *AdminService {
	return &AdminService{
		store:  store,
		logger: logger,
	}
}

// ListUsers returns all users, oldest first.
func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

// PromoteToAdmin gives the user the admin role. Promoting an admin is a no-op.
func (s *AdminService) PromoteToAdmin(ctx context.Context, adminUserID, targetUserID string) (*domain.User, error) {
	user, err := s.store.SetUserRole(ctx, targetUserID, domain.RoleAdmin)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("set user role: %w", err)
	}

	s.logger.Info("User promoted to admin",
		"user_id", targetUserID,
		"promoted_by", adminUserID,
	)
	return user, nil
}

// Stats counts the stored documents of each kind.
func (s *AdminService) Stats(ctx context.Context) (*domain.AdminStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect stats: %w", err)
	}
	return stats, nil
}

// EnsureAdmin promotes the user with email at startup. A missing account is
// not an error; it is promoted on the next start after it signs in.
func (s *AdminService) EnsureAdmin(ctx context.Context, email string) error {
	if email == "" {
		return nil
	}
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Warn("Bootstrap admin has no account yet", "email", email)
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}
	if user.IsAdmin() {
		return nil
	}
	if _, err := s.store.SetUserRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		return fmt.Errorf("set user role: %w", err)
	}
	s.logger.Info("Bootstrap admin promoted", "user_id", user.ID)
	return nil
}
