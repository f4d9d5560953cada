// Package server is the composition root: it wires the store, the analysis
// client, the services, and the handlers together, defines all routes, and
// owns the HTTP server lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/harman-04/My-Mind-Mirror/internal/analysis"
	"github.com/harman-04/My-Mind-Mirror/internal/auth"
	"github.com/harman-04/My-Mind-Mirror/internal/config"
	"github.com/harman-04/My-Mind-Mirror/internal/handler"
	"github.com/harman-04/My-Mind-Mirror/internal/middleware"
	"github.com/harman-04/My-Mind-Mirror/internal/repository"
	postgresRepo "github.com/harman-04/My-Mind-Mirror/internal/repository/postgres"
	sqliteRepo "github.com/harman-04/My-Mind-Mirror/internal/repository/sqlite"
	"github.com/harman-04/My-Mind-Mirror/internal/service"
)

// store is what the server needs from a storage backend: both repository
// contracts plus a way to shut it down. Satisfied by sqlite.DB and
// postgres.DB alike.
type store interface {
	repository.EntryRepository
	repository.UserRepository
	Close() error
}

// Server holds the router and the resources it owns. The store is closed
// during graceful shutdown, after in-flight requests have drained.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     store
}

// New assembles the full dependency chain:
//
//	config → store (sqlite or postgres) → services → handlers → routes
//
// Each layer only receives what it needs; handlers never touch the
// database, services never touch HTTP.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func openStore(cfg *config.Config) (store, error) {
	switch cfg.DBDriver {
	case "postgres":
		return postgresRepo.New(context.Background(), cfg.PostgresDSN)
	case "sqlite", "":
		return sqliteRepo.New(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q (want sqlite or postgres)", cfg.DBDriver)
	}
}

// setupRoutes configures middleware and all route handlers.
//
// Route structure:
//
//	POST   /api/auth/register            → create account + login
//	POST   /api/auth/login               → login
//	POST   /api/auth/logout              → clear token cookie
//	GET    /api/me                       → current user          [auth]
//	POST   /api/journal                  → submit today's entry  [auth]
//	GET    /api/journal/history          → history in range      [auth]
//	GET    /api/journal/mood-data        → mood-chart series     [auth]
//	GET    /api/journal/{id}             → single entry          [auth]
//	PUT    /api/journal/{id}             → update entry          [auth]
//	DELETE /api/journal/{id}             → delete entry          [auth]
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	analyzer := analysis.NewClient(s.config.MLServiceURL, s.config.MLTimeout, s.logger)

	journalService := service.NewJournalService(s.db, analyzer, s.logger)
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)

	journalHandler := handler.NewJournalHandler(journalService, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/me", authHandler.HandleMe)

			r.Post("/journal", journalHandler.HandleSubmit)
			r.Get("/journal/history", journalHandler.HandleHistory)
			r.Get("/journal/mood-data", journalHandler.HandleMoodData)
			r.Get("/journal/{id}", journalHandler.HandleGet)
			r.Put("/journal/{id}", journalHandler.HandleUpdate)
			r.Delete("/journal/{id}", journalHandler.HandleDelete)
		})
	})

	return nil
}

// Start runs the HTTP server and blocks until shutdown.
//
// Graceful shutdown: stop accepting connections, give in-flight requests
// 30 seconds to finish, then close the store.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("driver", s.config.DBDriver),
			slog.String("mlService", s.config.MLServiceURL),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
