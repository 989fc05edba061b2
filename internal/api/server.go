// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dramirezb/cinemateca/internal/catalog/episode"
	"github.com/dramirezb/cinemateca/internal/catalog/genre"
	"github.com/dramirezb/cinemateca/internal/catalog/movie"
	"github.com/dramirezb/cinemateca/internal/catalog/season"
	"github.com/dramirezb/cinemateca/internal/catalog/serie"
	"github.com/dramirezb/cinemateca/internal/platform/config"
	"github.com/dramirezb/cinemateca/internal/platform/constants"
	"github.com/dramirezb/cinemateca/internal/platform/middleware"
	"github.com/dramirezb/cinemateca/internal/users/account"
	"github.com/dramirezb/cinemateca/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles signup, login, and refresh-token rotation.
	Auth *auth.Handler

	// Account handles administrative and self-service user management.
	Account *account.Handler

	// Genre manages the genre taxonomy.
	Genre *genre.Handler

	// Movie handles the standalone film catalogue.
	Movie *movie.Handler

	// Serie handles series and their genre associations.
	Serie *serie.Handler

	// Season handles seasons nested under a serie.
	Season *season.Handler

	// Episode handles episodes nested under a season.
	Episode *episode.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// Cross-domain listing routes (a genre's movies, a serie's seasons, a
// season's episodes) are registered here next to the mounted subtrees so
// that domain packages never import each other.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Account.Routes())

		api.Route("/genres", func(genres chi.Router) {
			genres.Mount("/", h.Genre.Routes())
			genres.Get("/{id}/movies", h.Movie.ListByGenre)
			genres.Get("/{id}/series", h.Serie.ListByGenre)
		})

		api.Mount("/movies", h.Movie.Routes())

		api.Route("/series", func(series chi.Router) {
			series.Mount("/", h.Serie.Routes())
			series.Get("/{id}/seasons", h.Season.ListBySerie)
		})

		api.Route("/seasons", func(seasons chi.Router) {
			seasons.Mount("/", h.Season.Routes())
			seasons.Get("/{id}/episodes", h.Episode.ListBySeason)
		})

		api.Mount("/episodes", h.Episode.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
