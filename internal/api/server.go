// Package api exposes the lesson services over HTTP with huma on a chi router.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/listenupapp/lessons-server/internal/search"
	"github.com/listenupapp/lessons-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *store.Store
	index    *search.LessonIndex
	services *Services
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
}

// Options configures the HTTP surface.
type Options struct {
	Title          string
	Version        string
	AllowedOrigins []string
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, index *search.LessonIndex, services *Services, opts Options, logger *slog.Logger) *Server {
	if opts.Title == "" {
		opts.Title = "Lessons API"
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}

	router := chi.NewRouter()
	router.Use(requestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(corsHandler(opts.AllowedOrigins))

	api := humachi.New(router, newHumaConfig(opts.Title, opts.Version))
	RegisterErrorHandler(logger)

	s := &Server{
		store:    st,
		index:    index,
		services: services,
		router:   router,
		api:      api,
		logger:   logger,
	}
	s.registerRoutes()

	return s
}

func newHumaConfig(title, version string) huma.Config {
	cfg := huma.DefaultConfig(title, version)
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	return cfg
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerLessonRoutes()
	s.registerFavoriteRoutes()
	s.registerReportRoutes()
	s.registerPaymentRoutes()
	s.registerAdminRoutes()
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}
