package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/lessons-server/internal/domain"
	"github.com/listenupapp/lessons-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createUser",
		Method:      http.MethodPost,
		Path:        "/users",
		Summary:     "Create user",
		Description: "Stores the user on first sign-in. Existing emails are returned unchanged.",
		Tags:        []string{"Users"},
	}, s.handleCreateUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserRole",
		Method:      http.MethodGet,
		Path:        "/users/role/{email}",
		Summary:     "Get user role",
		Description: "Returns the caller's role and premium status",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUserRole)
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID           string      `json:"id" doc:"User ID"`
	Email        string      `json:"email" doc:"Email address"`
	DisplayName  string      `json:"displayName,omitempty" doc:"Display name"`
	PhotoURL     string      `json:"photoURL,omitempty" doc:"Avatar URL"`
	Role         domain.Role `json:"role" doc:"user or admin"`
	IsPremium    bool        `json:"isPremium" doc:"Whether the user has paid for premium"`
	PremiumSince *time.Time  `json:"premiumSince,omitempty" doc:"Most recent premium upgrade"`
	CreatedAt    time.Time   `json:"createdAt" doc:"Creation time"`
	UpdatedAt    time.Time   `json:"updatedAt" doc:"Last update time"`
}

func newUserResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		PhotoURL:     u.PhotoURL,
		Role:         u.Role,
		IsPremium:    u.IsPremium,
		PremiumSince: u.PremiumSince,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func newUserResponses(users []*domain.User) []*UserResponse {
	out := make([]*UserResponse, len(users))
	for i, u := range users {
		out[i] = newUserResponse(u)
	}
	return out
}

// CreateUserInput wraps the sign-in payload for Huma.
type CreateUserInput struct {
	Body service.CreateUserRequest
}

// CreateUserResponse reports whether the user was new. The account is only
// returned to the call that created it; an existing account is never shown
// to an unauthenticated caller.
type CreateUserResponse struct {
	Created bool          `json:"created" doc:"False when the email was already registered"`
	User    *UserResponse `json:"user,omitempty" doc:"The new account, absent when created is false"`
}

// CreateUserOutput wraps the create user response for Huma.
type CreateUserOutput struct {
	Body CreateUserResponse
}

func (s *Server) handleCreateUser(ctx context.Context, input *CreateUserInput) (*CreateUserOutput, error) {
	user, created, err := s.services.User.CreateIfAbsent(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	out := &CreateUserOutput{Body: CreateUserResponse{Created: created}}
	if created {
		out.Body.User = newUserResponse(user)
	}
	return out, nil
}

// GetUserRoleInput identifies the user whose role is requested.
type GetUserRoleInput struct {
	Authorization string `header:"Authorization"`
	Email         string `path:"email" doc:"User email"`
}

// GetUserRoleOutput wraps the role response for Huma.
type GetUserRoleOutput struct {
	Body service.RoleInfo
}

func (s *Server) handleGetUserRole(ctx context.Context, input *GetUserRoleInput) (*GetUserRoleOutput, error) {
	if _, err := s.requireSelf(ctx, input.Authorization, input.Email); err != nil {
		return nil, err
	}

	info, err := s.services.User.Role(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	return &GetUserRoleOutput{Body: *info}, nil
}
