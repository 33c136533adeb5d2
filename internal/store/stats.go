package store

import (
	"context"
	"fmt"

	"github.com/listenupapp/lessons-server/internal/domain"
)

// Stats counts the stored collections.
func (s *Store) Stats(ctx context.Context) (*domain.AdminStats, error) {
	var stats domain.AdminStats

	for u, err := range s.Users.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("count users: %w", err)
		}
		stats.Users++
		if u.IsPremium {
			stats.PremiumUsers++
		}
	}

	var err error
	if stats.Lessons, err = s.Lessons.Count(ctx); err != nil {
		return nil, fmt.Errorf("count lessons: %w", err)
	}
	if stats.Reports, err = s.Reports.Count(ctx); err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}
	if stats.Payments, err = s.Payments.Count(ctx); err != nil {
		return nil, fmt.Errorf("count payments: %w", err)
	}
	return &stats, nil
}
