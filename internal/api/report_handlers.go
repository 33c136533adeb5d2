package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/lessons-server/internal/domain"
	"github.com/listenupapp/lessons-server/internal/service"
)

func (s *Server) registerReportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createReport",
		Method:      http.MethodPost,
		Path:        "/reports",
		Summary:     "Report lesson",
		Tags:        []string{"Reports"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateReport)

	huma.Register(s.api, huma.Operation{
		OperationID: "listReports",
		Method:      http.MethodGet,
		Path:        "/reports",
		Summary:     "List reports",
		Description: "Returns all reports, newest first. Admin only.",
		Tags:        []string{"Reports", "Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListReports)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteReport",
		Method:      http.MethodDelete,
		Path:        "/reports/{id}",
		Summary:     "Dismiss report",
		Description: "Admin only.",
		Tags:        []string{"Reports", "Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteReport)
}

// CreateReportInput wraps the create report request for Huma.
type CreateReportInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateReportRequest
}

// ReportOutput wraps a report for Huma.
type ReportOutput struct {
	Body *domain.Report
}

func (s *Server) handleCreateReport(ctx context.Context, input *CreateReportInput) (*ReportOutput, error) {
	caller, err := s.authenticate(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	report, err := s.services.Report.Create(ctx, caller, input.Body)
	if err != nil {
		return nil, err
	}
	return &ReportOutput{Body: report}, nil
}

// ReportListOutput wraps the report list for Huma.
type ReportListOutput struct {
	Body []*domain.Report
}

func (s *Server) handleListReports(ctx context.Context, input *AuthOnlyInput) (*ReportListOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	reports, err := s.services.Report.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ReportListOutput{Body: reports}, nil
}

// DeleteReportInput identifies a report.
type DeleteReportInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Report ID"`
}

func (s *Server) handleDeleteReport(ctx context.Context, input *DeleteReportInput) (*DeleteOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Report.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &DeleteOutput{Body: DeleteResponse{Deleted: true, ID: input.ID}}, nil
}
