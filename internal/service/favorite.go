package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/listenupapp/lessons-server/internal/domain"
	domainerrors "github.com/listenupapp/lessons-server/internal/errors"
	"github.com/listenupapp/lessons-server/internal/id"
	"github.com/listenupapp/lessons-server/internal/store"
)

// FavoriteService manages saved lessons.
type FavoriteService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(store *store.Store, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{store: store, logger: logger}
}

// AddFavoriteRequest names the lesson to save.
type AddFavoriteRequest struct {
	LessonID string `json:"lessonId" validate:"notblank"`
}

// AddFavoriteResult reports whether a new favorite was stored. Adding a
// lesson twice is not an error.
type AddFavoriteResult struct {
	Created  bool             `json:"created"`
	Message  string           `json:"message,omitempty"`
	Favorite *domain.Favorite `json:"favorite,omitempty"`
}

// FavoriteWithLesson is a favorite joined with its lesson. Lesson is nil
// when the lesson has been deleted since.
type FavoriteWithLesson struct {
	domain.Favorite
	Lesson *domain.Lesson `json:"lesson,omitempty"`
}

// Add saves a lesson for caller.
func (s *FavoriteService) Add(ctx context.Context, caller *domain.User, req AddFavoriteRequest) (*AddFavoriteResult, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	lesson, err := s.store.GetLesson(ctx, req.LessonID)
	if err != nil {
		if errors.Is(err, store.ErrLessonNotFound) {
			return nil, domainerrors.NotFound("lesson not found")
		}
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if !lesson.CanView(caller) {
		return nil, domainerrors.NotFound("lesson not found")
	}

	favID, err := id.Generate(id.PrefixFavorite)
	if err != nil {
		return nil, fmt.Errorf("generate favorite ID: %w", err)
	}
	fav := &domain.Favorite{
		ID:        favID,
		LessonID:  lesson.ID,
		UserEmail: domain.NormalizeEmail(caller.Email),
		CreatedAt: time.Now().UTC(),
	}

	switch err := s.store.AddFavorite(ctx, fav); {
	case err == nil:
		s.logger.Debug("Favorite added", "lesson_id", lesson.ID, "user_id", caller.ID)
		return &AddFavoriteResult{Created: true, Favorite: fav}, nil
	case errors.Is(err, store.ErrFavoriteExists):
		return &AddFavoriteResult{Created: false, Message: "already exists"}, nil
	case errors.Is(err, store.ErrLessonNotFound):
		return nil, domainerrors.NotFound("lesson not found")
	default:
		return nil, fmt.Errorf("add favorite: %w", err)
	}
}

// List returns the favorites saved by caller, newest first. A lesson is
// attached only while caller may still read it; a lesson made private or
// premium later leaves the bare favorite.
func (s *FavoriteService) List(ctx context.Context, caller *domain.User) ([]*FavoriteWithLesson, error) {
	favs, err := s.store.ListFavoritesByEmail(ctx, caller.Email)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	ids := make([]string, len(favs))
	for i, f := range favs {
		ids[i] = f.LessonID
	}
	lessons, err := s.store.GetLessons(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load lessons: %w", err)
	}
	byID := make(map[string]*domain.Lesson, len(lessons))
	for _, l := range lessons {
		if l.CanView(caller) && l.CanReadContent(caller) {
			byID[l.ID] = l
		}
	}

	out := make([]*FavoriteWithLesson, len(favs))
	for i, f := range favs {
		out[i] = &FavoriteWithLesson{Favorite: *f, Lesson: byID[f.LessonID]}
	}
	return out, nil
}

// Remove deletes one of caller's favorites.
func (s *FavoriteService) Remove(ctx context.Context, caller *domain.User, favoriteID string) error {
	fav, err := s.store.GetFavorite(ctx, favoriteID)
	if err != nil {
		if errors.Is(err, store.ErrFavoriteNotFound) {
			return domainerrors.NotFound("favorite not found")
		}
		return fmt.Errorf("get favorite: %w", err)
	}
	if !domain.SameEmail(fav.UserEmail, caller.Email) {
		return domainerrors.Forbidden("favorite belongs to another user")
	}

	if err := s.store.DeleteFavorite(ctx, favoriteID); err != nil {
		if errors.Is(err, store.ErrFavoriteNotFound) {
			return domainerrors.NotFound("favorite not found")
		}
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}
