package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/lessons-server/internal/service"
)

func (s *Server) registerFavoriteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "addFavorite",
		Method:      http.MethodPost,
		Path:        "/favorites",
		Summary:     "Add favorite",
		Description: "Saves a lesson for the caller. Saving it again is not an error.",
		Tags:        []string{"Favorites"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFavorites",
		Method:      http.MethodGet,
		Path:        "/favorites/{email}",
		Summary:     "List favorites",
		Description: "Returns the caller's favorites with their lessons, newest first",
		Tags:        []string{"Favorites"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFavorites)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteFavorite",
		Method:      http.MethodDelete,
		Path:        "/favorites/{id}",
		Summary:     "Remove favorite",
		Tags:        []string{"Favorites"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteFavorite)
}

// AddFavoriteInput wraps the add favorite request for Huma.
type AddFavoriteInput struct {
	Authorization string `header:"Authorization"`
	Body          service.AddFavoriteRequest
}

// AddFavoriteOutput wraps the add favorite result for Huma.
type AddFavoriteOutput struct {
	Body service.AddFavoriteResult
}

func (s *Server) handleAddFavorite(ctx context.Context, input *AddFavoriteInput) (*AddFavoriteOutput, error) {
	caller, err := s.authenticate(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Favorite.Add(ctx, caller, input.Body)
	if err != nil {
		return nil, err
	}
	return &AddFavoriteOutput{Body: *result}, nil
}

// ListFavoritesInput identifies whose favorites to list.
type ListFavoritesInput struct {
	Authorization string `header:"Authorization"`
	Email         string `path:"email" doc:"Owner email"`
}

// ListFavoritesOutput wraps the favorites list for Huma.
type ListFavoritesOutput struct {
	Body []*service.FavoriteWithLesson
}

func (s *Server) handleListFavorites(ctx context.Context, input *ListFavoritesInput) (*ListFavoritesOutput, error) {
	caller, err := s.requireSelf(ctx, input.Authorization, input.Email)
	if err != nil {
		return nil, err
	}

	favs, err := s.services.Favorite.List(ctx, caller)
	if err != nil {
		return nil, err
	}
	return &ListFavoritesOutput{Body: favs}, nil
}

// DeleteFavoriteInput identifies a favorite.
type DeleteFavoriteInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Favorite ID"`
}

func (s *Server) handleDeleteFavorite(ctx context.Context, input *DeleteFavoriteInput) (*DeleteOutput, error) {
	caller, err := s.authenticate(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Favorite.Remove(ctx, caller, input.ID); err != nil {
		return nil, err
	}
	return &DeleteOutput{Body: DeleteResponse{Deleted: true, ID: input.ID}}, nil
}
