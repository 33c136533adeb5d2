package service

import (
	"context"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/listenupapp/lessons-server/internal/auth"
	"github.com/listenupapp/lessons-server/internal/domain"
	"github.com/listenupapp/lessons-server/internal/id"
	"github.com/listenupapp/lessons-server/internal/payments"
	"github.com/listenupapp/lessons-server/internal/search"
	"github.com/listenupapp/lessons-server/internal/store"
)

type testEnv struct {
	store     *store.Store
	index     *search.LessonIndex
	tokens    *auth.TokenService
	processor *payments.FakeProcessor

	auth      *AuthService
	users     *UserService
	lessons   *LessonService
	favorites *FavoriteService
	reports   *ReportService
	payments  *PaymentService
	admin     *AdminService
}

// setupTestEnv wires every service against a temp Badger store and an
// in-memory lesson index.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "lessons-service-test-*")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := store.New(filepath.Join(tmpDir, "db"), logger)
	require.NoError(t, err)

	idx, err := search.NewLessonIndex(search.Options{Logger: logger})
	require.NoError(t, err)
	s.SetLessonIndexer(idx)

	key, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(hex.EncodeToString(key), time.Hour)
	require.NoError(t, err)

	processor := &payments.FakeProcessor{}

	t.Cleanup(func() {
		_ = idx.Close()
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	})

	return &testEnv{
		store:     s,
		index:     idx,
		tokens:    tokens,
		processor: processor,
		auth:      NewAuthService(s, tokens, logger),
		users:     NewUserService(s, logger),
		lessons:   NewLessonService(s, idx, logger),
		favorites: NewFavoriteService(s, logger),
		reports:   NewReportService(s, logger),
		payments:  NewPaymentService(s, processor, "usd", logger),
		admin:     NewAdminService(s, logger),
	}
}

func (e *testEnv) createUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:    id.MustGenerate(id.PrefixUser),
		Email: email,
		Role:  domain.RoleUser,
	}
	user.InitTimestamps()
	require.NoError(t, e.store.CreateUser(context.Background(), user))
	return user
}

func (e *testEnv) createAdmin(t *testing.T, email string) *domain.User {
	t.Helper()
	user := e.createUser(t, email)
	user, err := e.store.SetUserRole(context.Background(), user.ID, domain.RoleAdmin)
	require.NoError(t, err)
	return user
}

func (e *testEnv) createLesson(t *testing.T, author *domain.User, title string, vis domain.Visibility) *domain.Lesson {
	t.Helper()
	lesson, err := e.lessons.Create(context.Background(), author, CreateLessonRequest{
		Title:         title,
		Description:   "What I learned.",
		Category:      "Personal Growth",
		EmotionalTone: "Reflective",
		Visibility:    vis,
	})
	require.NoError(t, err)
	return lesson
}
