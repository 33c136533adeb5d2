package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/listenupapp/lessons-server/internal/auth"
	"github.com/listenupapp/lessons-server/internal/domain"
	domainerrors "github.com/listenupapp/lessons-server/internal/errors"
	"github.com/listenupapp/lessons-server/internal/store"
)

// AuthService turns credentials into tokens and tokens back into users.
type AuthService struct {
	store        *store.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store *store.Store, tokenService *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:        store,
		tokenService: tokenService,
		logger:       logger,
	}
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        *domain.User `json:"user"`
}

// Login checks the password and issues an access token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	invalid := domainerrors.Unauthorized("invalid email or password")

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.HasPassword() || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		s.logger.Info("Login failed", "user_id", user.ID)
		return nil, invalid
	}

	return s.IssueToken(user)
}

// IssueToken creates an access token for user.
func (s *AuthService) IssueToken(user *domain.User) (*TokenResponse, error) {
	token, expires, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expires,
		User:        user,
	}, nil
}

// Authenticate resolves an access token to its user. Any token that cannot
// be trusted yields Forbidden, including tokens for users that no longer
// exist or whose email has changed.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		s.logger.Debug("Token rejected", "error", err)
		return nil, domainerrors.Forbidden("invalid or expired token")
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.Forbidden("invalid or expired token")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !domain.SameEmail(user.Email, claims.Email) {
		return nil, domainerrors.Forbidden("invalid or expired token")
	}
	return user, nil
}
