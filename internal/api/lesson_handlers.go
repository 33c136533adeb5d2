package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/lessons-server/internal/domain"
	domainerrors "github.com/listenupapp/lessons-server/internal/errors"
	"github.com/listenupapp/lessons-server/internal/service"
)

func (s *Server) registerLessonRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPublicLessons",
		Method:      http.MethodGet,
		Path:        "/all-lessons",
		Summary:     "List public lessons",
		Description: "Returns one page of public lessons filtered by search, category and tone",
		Tags:        []string{"Lessons"},
	}, s.handleListPublicLessons)

	huma.Register(s.api, huma.Operation{
		OperationID: "createLesson",
		Method:      http.MethodPost,
		Path:        "/add-lesson",
		Summary:     "Create lesson",
		Tags:        []string{"Lessons"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateLesson)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLesson",
		Method:      http.MethodGet,
		Path:        "/lessons/{id}",
		Summary:     "Get lesson",
		Tags:        []string{"Lessons"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetLesson)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateLesson",
		Method:      http.MethodPut,
		Path:        "/update-lesson/{id}",
		Summary:     "Update lesson",
		Description: "Changes the editable fields of a lesson. Likes are not editable.",
		Tags:        []string{"Lessons"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateLesson)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteLesson",
		Method:      http.MethodDelete,
		Path:        "/delete-lesson/{id}",
		Summary:     "Delete lesson",
		Description: "Deletes a lesson with its favorites and reports",
		Tags:        []string{"Lessons"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteLesson)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleLessonLike",
		Method:      http.MethodPatch,
		Path:        "/lessons/like/{id}",
		Summary:     "Toggle like",
		Description: "Likes the lesson, or removes the caller's like if present",
		Tags:        []string{"Lessons"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleLike)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyLessons",
		Method:      http.MethodGet,
		Path:        "/my-lessons",
		Summary:     "List my lessons",
		Description: "Returns every lesson the caller wrote, newest first",
		Tags:        []string{"Lessons"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyLessons)
}

// ListLessonsInput contains the listing query parameters.
type ListLessonsInput struct {
	Search   string `query:"search" doc:"Case-insensitive substring of the title"`
	Category string `query:"category" doc:"Exact category"`
	Tone     string `query:"tone" doc:"Exact emotional tone"`
	Sort     string `query:"sort" enum:"newest,oldest,most-saved" doc:"Result order (default newest)"`
	Page     int    `query:"page" doc:"1-based page number (default 1)"`
	Limit    int    `query:"limit" doc:"Page size (default 8, max 100)"`
}

// ListLessonsOutput wraps a lesson page for Huma.
type ListLessonsOutput struct {
	Body service.LessonPage
}

func (s *Server) handleListPublicLessons(ctx context.Context, input *ListLessonsInput) (*ListLessonsOutput, error) {
	sort, err := domain.ParseSortMode(input.Sort)
	if err != nil {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{"sort": "must be one of: newest oldest most-saved"})
	}

	page, err := s.services.Lesson.ListPublic(ctx, domain.LessonQuery{
		Search:   input.Search,
		Category: input.Category,
		Tone:     input.Tone,
		Sort:     sort,
		Page:     input.Page,
		Limit:    input.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &ListLessonsOutput{Body: *page}, nil
}

// CreateLessonInput wraps the create lesson request for Huma.
type CreateLessonInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateLessonRequest
}

// LessonOutput wraps a lesson for Huma.
type LessonOutput struct {
	Body *domain.Lesson
}

func (s *Server) handleCreateLesson(ctx context.Context, input *CreateLessonInput) (*LessonOutput, error) {
	caller, err := s.authenticate(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	lesson, err := s.services.Lesson.Create(ctx, caller, input.Body)
	if err != nil {
		return nil, err
	}
	return &LessonOutput{Body: lesson}, nil
}

// LessonIDInput identifies a lesson.
type LessonIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Lesson ID"`
}

func (s *Server) handleGetLesson(ctx context.Context, input *LessonIDInput) (*LessonOutput, error) {
	caller, err := s.authenticate(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	lesson, err := s.services.Lesson.Get(ctx, caller, input.ID)
	if err != nil {
		return nil, err
	}
	return &LessonOutput{Body: lesson}, nil
}

// UpdateLessonInput wraps the update lesson request for Huma.
type UpdateLessonInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Lesson ID"`
	Body          service.UpdateLessonRequest
}

func (s *Server) handleUpdateLesson(ctx context.Context, input *UpdateLessonInput) (*LessonOutput, error) {
	caller, err := s.authenticate(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	lesson, err := s.services.Lesson.Update(ctx, caller, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &LessonOutput{Body: lesson}, nil
}

// DeleteResponse acknowledges a deletion.
type DeleteResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// DeleteOutput wraps a deletion acknowledgement for Huma.
type DeleteOutput struct {
	Body DeleteResponse
}

func (s *Server) handleDeleteLesson(ctx context.Context, input *LessonIDInput) (*DeleteOutput, error) {
	caller, err := s.authenticate(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Lesson.Delete(ctx, caller, input.ID); err != nil {
		return nil, err
	}
	return &DeleteOutput{Body: DeleteResponse{Deleted: true, ID: input.ID}}, nil
}

// LikeOutput wraps a like toggle result for Huma.
type LikeOutput struct {
	Body service.LikeResult
}

func (s *Server) handleToggleLike(ctx context.Context, input *LessonIDInput) (*LikeOutput, error) {
	caller, err := s.authenticate(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Lesson.ToggleLike(ctx, caller, input.ID)
	if err != nil {
		return nil, err
	}
	return &LikeOutput{Body: *result}, nil
}

// AuthOnlyInput carries just the credentials.
type AuthOnlyInput struct {
	Authorization string `header:"Authorization"`
}

// LessonListOutput wraps a list of lessons for Huma.
type LessonListOutput struct {
	Body []*domain.Lesson
}

func (s *Server) handleListMyLessons(ctx context.Context, input *AuthOnlyInput) (*LessonListOutput, error) {
	caller, err := s.authenticate(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	lessons, err := s.services.Lesson.ListMine(ctx, caller)
	if err != nil {
		return nil, err
	}
	return &LessonListOutput{Body: lessons}, nil
}
