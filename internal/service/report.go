package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/listenupapp/lessons-server/internal/domain"
	domainerrors "github.com/listenupapp/lessons-server/internal/errors"
	"github.com/listenupapp/lessons-server/internal/id"
	"github.com/listenupapp/lessons-server/internal/store"
)

// ReportService handles moderation reports.
type ReportService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewReportService creates a new report service.
func NewReportService(store *store.Store, logger *slog.Logger) *ReportService {
	return &ReportService{store: store, logger: logger}
}

// CreateReportRequest flags a lesson.
type CreateReportRequest struct {
	LessonID string `json:"lessonId" validate:"notblank"`
	Reason   string `json:"reason" validate:"notblank,max=1000"`
}

// Create files a report against a lesson the caller can see.
func (s *ReportService) Create(ctx context.Context, caller *domain.User, req CreateReportRequest) (*domain.Report, error) {
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

	reportID, err := id.Generate(id.PrefixReport)
	if err != nil {
		return nil, fmt.Errorf("generate report ID: %w", err)
	}
	report := &domain.Report{
		ID:            reportID,
		LessonID:      lesson.ID,
		LessonTitle:   lesson.Title,
		ReporterEmail: caller.Email,
		Reason:        strings.TrimSpace(req.Reason),
		ReportedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	s.logger.Info("Lesson reported", "lesson_id", lesson.ID, "report_id", report.ID)
	return report, nil
}

// List returns all reports, newest first.
func (s *ReportService) List(ctx context.Context) ([]*domain.Report, error) {
	reports, err := s.store.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	if reports == nil {
		reports = []*domain.Report{}
	}
	return reports, nil
}

// Delete dismisses a report.
func (s *ReportService) Delete(ctx context.Context, reportID string) error {
	if err := s.store.DeleteReport(ctx, reportID); err != nil {
		if errors.Is(err, store.ErrReportNotFound) {
			return domainerrors.NotFound("report not found")
		}
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}
