package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/lessons-server/internal/domain"
)

func TestRecordPayment_TransactionIDUnique(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	p := &domain.Payment{ID: "pay-1", Email: "a@x.com", Amount: 9.99, Currency: "usd", TransactionID: "pi_123", PaidAt: time.Now()}
	require.NoError(t, s.RecordPayment(ctx, p))

	dup := *p
	dup.ID = "pay-2"
	assert.ErrorIs(t, s.RecordPayment(ctx, &dup), ErrPaymentExists)

	payments, err := s.ListPaymentsByEmail(ctx, "A@x.com")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "pi_123", payments[0].TransactionID)
}

func TestListPaymentsByEmail_NewestFirst(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, offset := range []time.Duration{0, 2 * time.Hour, time.Hour} {
		require.NoError(t, s.RecordPayment(ctx, &domain.Payment{
			ID:            fmt.Sprintf("pay-%d", i),
			Email:         "a@x.com",
			TransactionID: fmt.Sprintf("pi_%d", i),
			PaidAt:        base.Add(offset),
		}))
	}
	require.NoError(t, s.RecordPayment(ctx, &domain.Payment{ID: "pay-other", Email: "b@x.com", TransactionID: "pi_b"}))

	payments, err := s.ListPaymentsByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, payments, 3)
	assert.Equal(t, "pay-1", payments[0].ID)
	assert.Equal(t, "pay-2", payments[1].ID)
	assert.Equal(t, "pay-0", payments[2].ID)
}

func TestStats(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	for i := range 3 {
		require.NoError(t, s.CreateUser(ctx, newTestUser(i)))
	}
	_, err := s.MarkUserPremium(ctx, "user0@example.com", time.Now())
	require.NoError(t, err)

	mustCreateLesson(t, s, "lesson-1")
	mustCreateLesson(t, s, "lesson-2")
	require.NoError(t, s.CreateReport(ctx, &domain.Report{ID: "report-1", LessonID: "lesson-1", ReportedAt: time.Now()}))
	require.NoError(t, s.RecordPayment(ctx, &domain.Payment{ID: "pay-1", Email: "user0@example.com", TransactionID: "pi_1"}))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &domain.AdminStats{Users: 3, PremiumUsers: 1, Lessons: 2, Reports: 1, Payments: 1}, stats)
}
