package api

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/lessons-server/internal/auth"
	"github.com/listenupapp/lessons-server/internal/domain"
	"github.com/listenupapp/lessons-server/internal/id"
	"github.com/listenupapp/lessons-server/internal/payments"
	"github.com/listenupapp/lessons-server/internal/search"
	"github.com/listenupapp/lessons-server/internal/service"
	"github.com/listenupapp/lessons-server/internal/store"
)

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api          humatest.TestAPI
	tokenService *auth.TokenService
	processor    *payments.FakeProcessor
}

// setupTestServer creates a server backed by a temp store and an in-memory index.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "lessons-api-test-*")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(filepath.Join(tmpDir, "db"), logger)
	require.NoError(t, err)

	index, err := search.NewLessonIndex(search.Options{Logger: logger})
	require.NoError(t, err)
	st.SetLessonIndexer(index)

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(hex.EncodeToString(authKey), 15*time.Minute)
	require.NoError(t, err)

	processor := &payments.FakeProcessor{}

	services := &Services{
		Auth:     service.NewAuthService(st, tokenService, logger),
		User:     service.NewUserService(st, logger),
		Lesson:   service.NewLessonService(st, index, logger),
		Favorite: service.NewFavoriteService(st, logger),
		Report:   service.NewReportService(st, logger),
		Payment:  service.NewPaymentService(st, processor, "usd", logger),
		Admin:    service.NewAdminService(st, logger),
	}

	server := NewServer(st, index, services, Options{}, logger)

	t.Cleanup(func() {
		_ = index.Close()
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	})

	return &testServer{
		Server:       server,
		api:          humatest.Wrap(t, server.API()),
		tokenService: tokenService,
		processor:    processor,
	}
}

// createUser stores a user and returns it with a bearer header.
func (ts *testServer) createUser(t *testing.T, email string, role domain.Role) (*domain.User, string) {
	t.Helper()

	user := &domain.User{
		ID:          id.MustGenerate(id.PrefixUser),
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
	}
	user.InitTimestamps()
	require.NoError(t, ts.store.CreateUser(context.Background(), user))

	token, _, err := ts.tokenService.GenerateAccessToken(user)
	require.NoError(t, err)

	return user, "Authorization: Bearer " + token
}

func (ts *testServer) createLesson(t *testing.T, authHeader, title string, vis domain.Visibility) *domain.Lesson {
	t.Helper()

	resp := ts.api.Post("/add-lesson", authHeader, map[string]any{
		"title":         title,
		"description":   "Something worth sharing.",
		"category":      "Career",
		"emotionalTone": "Motivational",
		"visibility":    vis,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var lesson domain.Lesson
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &lesson))
	return &lesson
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	health := decode[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["database"].Status)
	assert.Equal(t, "healthy", health.Components["search"].Status)
}

func TestRequestIDHeader(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.NotEmpty(t, resp.Header().Get(RequestIDHeader))

	resp = ts.api.Get("/health", RequestIDHeader+": req-123")
	assert.Equal(t, "req-123", resp.Header().Get(RequestIDHeader))
}

func TestOpenAPIDocument(t *testing.T) {
	ts := setupTestServer(t)

	openapi := ts.api.OpenAPI()
	for _, path := range []string{"/all-lessons", "/favorites/{email}", "/admin-stats", "/payments"} {
		assert.Contains(t, openapi.Paths, path)
	}
}
