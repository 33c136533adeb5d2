package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/listenupapp/lessons-server/internal/auth"
	"github.com/listenupapp/lessons-server/internal/domain"
	domainerrors "github.com/listenupapp/lessons-server/internal/errors"
	"github.com/listenupapp/lessons-server/internal/id"
	"github.com/listenupapp/lessons-server/internal/store"
)

// UserService manages account records.
type UserService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store *store.Store, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// CreateUserRequest is the sign-in payload sent by the client.
type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	DisplayName string `json:"displayName,omitempty" validate:"max=100"`
	PhotoURL    string `json:"photoURL,omitempty" validate:"omitempty,url"`
	Password    string `json:"password,omitempty" validate:"omitempty,min=8,max=1024"`
}

// RoleInfo answers "what can this account do".
type RoleInfo struct {
	Role      domain.Role `json:"role"`
	IsPremium bool        `json:"isPremium"`
}

// CreateIfAbsent stores a new user unless one with the same email exists.
// It returns the stored user and whether it was created by this call.
func (s *UserService) CreateIfAbsent(ctx context.Context, req CreateUserRequest) (*domain.User, bool, error) {
	if err := validate.Validate(req); err != nil {
		return nil, false, err
	}

	existing, err := s.store.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, false, fmt.Errorf("get user: %w", err)
	}

	var hash string
	if req.Password != "" {
		if hash, err = auth.HashPassword(req.Password); err != nil {
			return nil, false, fmt.Errorf("hash password: %w", err)
		}
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, false, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		ID:           userID,
		Email:        strings.TrimSpace(req.Email),
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PhotoURL:     req.PhotoURL,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			// Lost a race with a concurrent sign-in for the same email.
			existing, getErr := s.store.GetUserByEmail(ctx, req.Email)
			if getErr != nil {
				return nil, false, fmt.Errorf("get user: %w", getErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("User created", "user_id", user.ID)
	return user, true, nil
}

// GetByEmail returns the user with email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Role reports the role and premium flag of the user with email.
func (s *UserService) Role(ctx context.Context, email string) (*RoleInfo, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &RoleInfo{Role: user.Role, IsPremium: user.IsPremium}, nil
}
