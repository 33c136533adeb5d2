package store

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/listenupapp/lessons-server/internal/domain"
)

// CreateUser inserts a user. Emails are unique regardless of case.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	err := s.Users.Create(ctx, user)
	if errors.Is(err, ErrAlreadyExists) {
		return ErrEmailExists
	}
	return err
}

// GetUser returns the user with id.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.Users.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// GetUserByEmail looks a user up by email, ignoring case.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.Users.GetByUnique(ctx, "email", domain.NormalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// UpdateUser applies fn to the stored user in one transaction.
func (s *Store) UpdateUser(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error) {
	u, err := s.Users.Mutate(ctx, id, func(u *domain.User) error {
		if err := fn(u); err != nil {
			return err
		}
		u.Touch()
		return nil
	})
	switch {
	case errors.Is(err, ErrAlreadyExists):
		return nil, ErrEmailExists
	case errors.Is(err, ErrNotFound):
		return nil, ErrUserNotFound
	}
	return u, err
}

// SetUserRole changes a user's role.
func (s *Store) SetUserRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	return s.UpdateUser(ctx, id, func(u *domain.User) error {
		u.Role = role
		return nil
	})
}

// MarkUserPremium flags the user with email as premium.
func (s *Store) MarkUserPremium(ctx context.Context, email string, at time.Time) (*domain.User, error) {
	u, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.UpdateUser(ctx, u.ID, func(u *domain.User) error {
		u.MarkPremium(at)
		return nil
	})
}

// ListUsers returns all users ordered by creation time, oldest first.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	for u, err := range s.Users.List(ctx) {
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b *domain.User) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return users, nil
}
