package store

import (
	"context"
	"errors"
	"slices"

	"github.com/listenupapp/lessons-server/internal/domain"
)

// RecordPayment appends a payment. A transaction id can be recorded once.
func (s *Store) RecordPayment(ctx context.Context, p *domain.Payment) error {
	err := s.Payments.Create(ctx, p)
	if errors.Is(err, ErrAlreadyExists) {
		return ErrPaymentExists
	}
	return err
}

// ListPaymentsByEmail returns the payments made by email, newest first.
func (s *Store) ListPaymentsByEmail(ctx context.Context, email string) ([]*domain.Payment, error) {
	payments, err := s.Payments.ListBy(ctx, "email", domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	slices.SortFunc(payments, func(a, b *domain.Payment) int {
		return b.PaidAt.Compare(a.PaidAt)
	})
	return payments, nil
}
