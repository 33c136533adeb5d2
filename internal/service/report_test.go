package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/lessons-server/internal/domain"
	domainerrors "github.com/listenupapp/lessons-server/internal/errors"
)

func TestReportService(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author@example.com")
	reader := env.createUser(t, "reader@example.com")
	lesson := env.createLesson(t, author, "Questionable", domain.VisibilityPublic)

	report, err := env.reports.Create(ctx, reader, CreateReportRequest{LessonID: lesson.ID, Reason: " spam "})
	require.NoError(t, err)
	assert.Equal(t, "spam", report.Reason)
	assert.Equal(t, "Questionable", report.LessonTitle)
	assert.Equal(t, reader.Email, report.ReporterEmail)

	reports, err := env.reports.List(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)

	require.NoError(t, env.reports.Delete(ctx, report.ID))
	assert.ErrorIs(t, env.reports.Delete(ctx, report.ID), domainerrors.ErrNotFound)

	reports, err = env.reports.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, reports)
	assert.Empty(t, reports)
}

func TestReportService_Create_Rejects(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	reader := env.createUser(t, "reader@example.com")

	_, err := env.reports.Create(ctx, reader, CreateReportRequest{LessonID: "lesson-missing", Reason: "spam"})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = env.reports.Create(ctx, reader, CreateReportRequest{LessonID: "lesson-missing"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
