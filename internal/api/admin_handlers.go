package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/lessons-server/internal/domain"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List users",
		Description: "Returns all users. Admin only.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "promoteUser",
		Method:      http.MethodPatch,
		Path:        "/users/admin/{id}",
		Summary:     "Promote user to admin",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePromoteUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAdminStats",
		Method:      http.MethodGet,
		Path:        "/admin-stats",
		Summary:     "Get admin stats",
		Description: "Returns document counts for the dashboard. Admin only.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetAdminStats)
}

// UserListOutput wraps the user list for Huma.
type UserListOutput struct {
	Body []*UserResponse
}

func (s *Server) handleListUsers(ctx context.Context, input *AuthOnlyInput) (*UserListOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	users, err := s.services.Admin.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return &UserListOutput{Body: newUserResponses(users)}, nil
}

// PromoteUserInput identifies the user to promote.
type PromoteUserInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
}

// UserOutput wraps a user for Huma.
type UserOutput struct {
	Body *UserResponse
}

func (s *Server) handlePromoteUser(ctx context.Context, input *PromoteUserInput) (*UserOutput, error) {
	admin, err := s.requireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Admin.PromoteToAdmin(ctx, admin.ID, input.ID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: newUserResponse(user)}, nil
}

// AdminStatsOutput wraps the stats for Huma.
type AdminStatsOutput struct {
	Body *domain.AdminStats
}

func (s *Server) handleGetAdminStats(ctx context.Context, input *AuthOnlyInput) (*AdminStatsOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	stats, err := s.services.Admin.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminStatsOutput{Body: stats}, nil
}
