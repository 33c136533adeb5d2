package api

import (
	"context"
	"strings"

	"github.com/listenupapp/lessons-server/internal/domain"
	domainerrors "github.com/listenupapp/lessons-server/internal/errors"
)

// authenticate resolves the Authorization header to the calling user.
// A missing or malformed header is 401; a token that does not verify is 403.
func (s *Server) authenticate(ctx context.Context, authHeader string) (*domain.User, error) {
	if authHeader == "" {
		return nil, domainerrors.Unauthorized("missing authorization header")
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return nil, domainerrors.Unauthorized("invalid authorization header format")
	}

	return s.services.Auth.Authenticate(ctx, token)
}

// requireAdmin authenticates the caller and checks the stored role.
func (s *Server) requireAdmin(ctx context.Context, authHeader string) (*domain.User, error) {
	user, err := s.authenticate(ctx, authHeader)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, domainerrors.Forbidden("admin access required")
	}
	return user, nil
}

// requireSelf authenticates the caller and checks that the path email is
// theirs.
func (s *Server) requireSelf(ctx context.Context, authHeader, email string) (*domain.User, error) {
	user, err := s.authenticate(ctx, authHeader)
	if err != nil {
		return nil, err
	}
	if !domain.SameEmail(user.Email, email) {
		return nil, domainerrors.Forbidden("cannot access another user's data")
	}
	return user, nil
}
