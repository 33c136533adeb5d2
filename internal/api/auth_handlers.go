package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/lessons-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createToken",
		Method:      http.MethodPost,
		Path:        "/auth/token",
		Summary:     "Create access token",
		Description: "Exchanges email and password for a bearer token",
		Tags:        []string{"Auth"},
	}, s.handleCreateToken)
}

// CreateTokenInput wraps the login request for Huma.
type CreateTokenInput struct {
	Body service.LoginRequest
}

// TokenResponse is a bearer token with its owner.
type TokenResponse struct {
	AccessToken string        `json:"accessToken" doc:"PASETO access token"`
	TokenType   string        `json:"tokenType" doc:"Always Bearer"`
	ExpiresAt   time.Time     `json:"expiresAt" doc:"Token expiry"`
	User        *UserResponse `json:"user"`
}

// CreateTokenOutput wraps the token response for Huma.
type CreateTokenOutput struct {
	Body TokenResponse
}

func (s *Server) handleCreateToken(ctx context.Context, input *CreateTokenInput) (*CreateTokenOutput, error) {
	resp, err := s.services.Auth.Login(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &CreateTokenOutput{
		Body: TokenResponse{
			AccessToken: resp.AccessToken,
			TokenType:   resp.TokenType,
			ExpiresAt:   resp.ExpiresAt,
			User:        newUserResponse(resp.User),
		},
	}, nil
}
