package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/listenupapp/lessons-server/internal/domain"
	domainerrors "github.com/listenupapp/lessons-server/internal/errors"
	"github.com/listenupapp/lessons-server/internal/id"
	"github.com/listenupapp/lessons-server/internal/search"
	"github.com/listenupapp/lessons-server/internal/store"
)

// LessonService handles lesson authoring, listing and likes.
type LessonService struct {
	store  *store.Store
	index  *search.LessonIndex
	logger *slog.Logger
}

// NewLessonService creates a new lesson service.
func NewLessonService(store *store.Store, index *search.LessonIndex, logger *slog.Logger) *LessonService {
	return &LessonService{
		store:  store,
		index:  index,
		logger: logger,
	}
}

// CreateLessonRequest contains the author-supplied fields of a new lesson.
type CreateLessonRequest struct {
	Title         string             `json:"title" validate:"notblank,max=200"`
	Description   string             `json:"description" validate:"notblank,max=20000"`
	Category      string             `json:"category" validate:"notblank,max=100"`
	EmotionalTone string             `json:"emotionalTone" validate:"notblank,max=100"`
	Image         string             `json:"image,omitempty" validate:"omitempty,url"`
	Visibility    domain.Visibility  `json:"visibility" validate:"required,oneof=Public Private"`
	AccessLevel   domain.AccessLevel `json:"accessLevel,omitempty" validate:"omitempty,oneof=free premium"`
}

// UpdateLessonRequest contains the editable fields of a lesson. Nil fields
// are left unchanged.
type UpdateLessonRequest struct {
	Title         *string             `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Description   *string             `json:"description,omitempty" validate:"omitempty,notblank,max=20000"`
	Category      *string             `json:"category,omitempty" validate:"omitempty,notblank,max=100"`
	EmotionalTone *string             `json:"emotionalTone,omitempty" validate:"omitempty,notblank,max=100"`
	Image         *string             `json:"image,omitempty" validate:"omitempty,url"`
	Visibility    *domain.Visibility  `json:"visibility,omitempty" validate:"omitempty,oneof=Public Private"`
	AccessLevel   *domain.AccessLevel `json:"accessLevel,omitempty" validate:"omitempty,oneof=free premium"`
}

// LessonPage is one page of the public listing.
type LessonPage struct {
	Data       []*domain.Lesson `json:"data"`
	TotalCount int              `json:"totalCount"`
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

// ListPublic returns one page of public lessons matching q.
func (s *LessonService) ListPublic(ctx context.Context, q domain.LessonQuery) (*LessonPage, error) {
	page, err := s.index.SearchLessons(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search lessons: %w", err)
	}

	lessons, err := s.store.GetLessons(ctx, page.IDs)
	if err != nil {
		return nil, fmt.Errorf("load lessons: %w", err)
	}

	data := make([]*domain.Lesson, 0, len(lessons))
	for _, l := range lessons {
		if l.IsPublic() {
			data = append(data, l)
		}
	}
	if len(data) != len(page.IDs) {
		s.logger.Warn("Lesson index out of date", "indexed", len(page.IDs), "loaded", len(data))
	}

	return &LessonPage{Data: data, TotalCount: int(page.Total)}, nil
}

// Create stores a new lesson authored by caller.
func (s *LessonService) Create(ctx context.Context, caller *domain.User, req CreateLessonRequest) (*domain.Lesson, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if req.AccessLevel == "" {
		req.AccessLevel = domain.AccessFree
	}
	if req.AccessLevel == domain.AccessPremium && !canPublishPremium(caller) {
		return nil, domainerrors.Forbidden("premium lessons require a premium account")
	}

	lessonID, err := id.Generate(id.PrefixLesson)
	if err != nil {
		return nil, fmt.Errorf("generate lesson ID: %w", err)
	}

	lesson := &domain.Lesson{
		ID:            lessonID,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Category:      strings.TrimSpace(req.Category),
		EmotionalTone: strings.TrimSpace(req.EmotionalTone),
		Image:         req.Image,
		Visibility:    req.Visibility,
		AccessLevel:   req.AccessLevel,
		AuthorEmail:   caller.Email,
		AuthorName:    caller.DisplayName,
		Likes:         []string{},
	}
	lesson.InitTimestamps()

	if err := s.store.CreateLesson(ctx, lesson); err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}

	s.logger.Info("Lesson created", "lesson_id", lesson.ID, "author", caller.ID)
	return lesson, nil
}

// Get returns a lesson the caller may see. Private lessons of other authors
// look like they do not exist.
func (s *LessonService) Get(ctx context.Context, caller *domain.User, lessonID string) (*domain.Lesson, error) {
	lesson, err := s.load(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if !lesson.CanView(caller) {
		return nil, domainerrors.NotFound("lesson not found")
	}
	if !lesson.CanReadContent(caller) {
		return nil, domainerrors.Forbidden("this lesson requires a premium account")
	}
	return lesson, nil
}

// Update changes the editable fields of a lesson. Only its author or an
// admin may edit it.
func (s *LessonService) Update(ctx context.Context, caller *domain.User, lessonID string, req UpdateLessonRequest) (*domain.Lesson, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if req.AccessLevel != nil && *req.AccessLevel == domain.AccessPremium && !canPublishPremium(caller) {
		return nil, domainerrors.Forbidden("premium lessons require a premium account")
	}

	lesson, err := s.store.UpdateLesson(ctx, lessonID, func(l *domain.Lesson) error {
		if !canManage(caller, l) {
			return errNotManageable(caller, l)
		}
		applyLessonUpdate(l, req)
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrLessonNotFound) {
			return nil, domainerrors.NotFound("lesson not found")
		}
		var de *domainerrors.Error
		if errors.As(err, &de) {
			return nil, de
		}
		return nil, fmt.Errorf("update lesson: %w", err)
	}

	s.logger.Info("Lesson updated", "lesson_id", lessonID, "user_id", caller.ID)
	return lesson, nil
}

func applyLessonUpdate(l *domain.Lesson, req UpdateLessonRequest) {
	if req.Title != nil {
		l.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		l.Description = *req.Description
	}
	if req.Category != nil {
		l.Category = strings.TrimSpace(*req.Category)
	}
	if req.EmotionalTone != nil {
		l.EmotionalTone = strings.TrimSpace(*req.EmotionalTone)
	}
	if req.Image != nil {
		l.Image = *req.Image
	}
	if req.Visibility != nil {
		l.Visibility = *req.Visibility
	}
	if req.AccessLevel != nil {
		l.AccessLevel = *req.AccessLevel
	}
}

// Delete removes a lesson along with its favorites and reports. Only its
// author or an admin may delete it.
func (s *LessonService) Delete(ctx context.Context, caller *domain.User, lessonID string) error {
	lesson, err := s.load(ctx, lessonID)
	if err != nil {
		return err
	}
	if !canManage(caller, lesson) {
		return errNotManageable(caller, lesson)
	}

	if err := s.store.DeleteLesson(ctx, lessonID); err != nil {
		if errors.Is(err, store.ErrLessonNotFound) {
			return domainerrors.NotFound("lesson not found")
		}
		return fmt.Errorf("delete lesson: %w", err)
	}

	s.logger.Info("Lesson deleted", "lesson_id", lessonID, "user_id", caller.ID)
	return nil
}

// ToggleLike likes the lesson for caller, or removes an existing like.
func (s *LessonService) ToggleLike(ctx context.Context, caller *domain.User, lessonID string) (*LikeResult, error) {
	lesson, err := s.load(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if !lesson.CanView(caller) {
		return nil, domainerrors.NotFound("lesson not found")
	}

	lesson, liked, err := s.store.ToggleLike(ctx, lessonID, caller.Email)
	if err != nil {
		if errors.Is(err, store.ErrLessonNotFound) {
			return nil, domainerrors.NotFound("lesson not found")
		}
		return nil, fmt.Errorf("toggle like: %w", err)
	}
	return &LikeResult{Liked: liked, LikesCount: lesson.LikesCount}, nil
}

// ListMine returns every lesson caller has written, newest first.
func (s *LessonService) ListMine(ctx context.Context, caller *domain.User) ([]*domain.Lesson, error) {
	lessons, err := s.store.ListLessonsByAuthor(ctx, caller.Email)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	if lessons == nil {
		lessons = []*domain.Lesson{}
	}
	return lessons, nil
}

// SyncIndex rebuilds the query index when its document count no longer
// matches the stored lessons, for example after a crash between a commit
// and the index update.
func (s *LessonService) SyncIndex(ctx context.Context) error {
	stored, err := s.store.Lessons.Count(ctx)
	if err != nil {
		return fmt.Errorf("count lessons: %w", err)
	}
	indexed, err := s.index.DocumentCount()
	if err != nil {
		return fmt.Errorf("count indexed lessons: %w", err)
	}
	if uint64(stored) == indexed {
		s.logger.Debug("Lesson index up to date", "lessons", stored)
		return nil
	}

	s.logger.Info("Rebuilding lesson index", "stored", stored, "indexed", indexed)
	n, err := s.index.Rebuild(ctx, s.store.Lessons.List(ctx))
	if err != nil {
		return fmt.Errorf("rebuild lesson index: %w", err)
	}
	s.logger.Info("Lesson index rebuilt", "lessons", n)
	return nil
}

func (s *LessonService) load(ctx context.Context, lessonID string) (*domain.Lesson, error) {
	lesson, err := s.store.GetLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, store.ErrLessonNotFound) {
			return nil, domainerrors.NotFound("lesson not found")
		}
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	return lesson, nil
}

func canPublishPremium(u *domain.User) bool {
	return u.IsPremium || u.IsAdmin()
}

func canManage(u *domain.User, l *domain.Lesson) bool {
	return u.IsAdmin() || l.IsAuthor(u.Email)
}

// errNotManageable hides private lessons from non-authors.
func errNotManageable(u *domain.User, l *domain.Lesson) error {
	if !l.CanView(u) {
		return domainerrors.NotFound("lesson not found")
	}
	return domainerrors.Forbidden("only the author can change this lesson")
}
