package store

import (
	"context"
	"errors"
	"slices"

	"github.com/listenupapp/lessons-server/internal/domain"
)

// CreateReport stores a report.
func (s *Store) CreateReport(ctx context.Context, r *domain.Report) error {
	return s.Reports.Create(ctx, r)
}

// ListReports returns all reports, newest first.
func (s *Store) ListReports(ctx context.Context) ([]*domain.Report, error) {
	var reports []*domain.Report
	for r, err := range s.Reports.List(ctx) {
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	slices.SortFunc(reports, func(a, b *domain.Report) int {
		return b.ReportedAt.Compare(a.ReportedAt)
	})
	return reports, nil
}

// DeleteReport removes a report.
func (s *Store) DeleteReport(ctx context.Context, id string) error {
	err := s.Reports.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return ErrReportNotFound
	}
	return err
}
