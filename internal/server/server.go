// Package server wires the application together: database, services,
// handlers, middleware and routes, plus startup and graceful shutdown.
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

	"github.com/codavaulta/snippet-vault/internal/auth"
	"github.com/codavaulta/snippet-vault/internal/config"
	"github.com/codavaulta/snippet-vault/internal/handler"
	"github.com/codavaulta/snippet-vault/internal/middleware"
	sqliteRepo "github.com/codavaulta/snippet-vault/internal/repository/sqlite"
	"github.com/codavaulta/snippet-vault/internal/service"
)

// Server owns the router and the database connection. The connection is
// closed during shutdown so the WAL is flushed and the file lock released.
type Server struct {
	router *chi.Mux
	cfg    config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: database, auth services,
// domain services, handlers, routes. Each layer receives only the layer
// below it; handlers never see the database.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and all route handlers.
//
// Route map, all under /api:
//
//	POST   /api/user/register        create an account
//	POST   /api/user/login           exchange credentials for a token
//	GET    /api/users                list users (public projections)
//	GET    /api/snippets             list all snippets
//	GET    /api/languages            list accepted language tags
//	GET    /api/stats                user and snippet counts
//	POST   /api/user/logout          end a session            (auth)
//	DELETE /api/user/delete_user     delete own account       (auth)
//	POST   /api/user/create_snippet  create a snippet         (auth)
//	GET    /api/user/get_snippets    list own snippets        (auth)
//	PUT    /api/user/update_snippet  update an owned snippet  (auth)
//	DELETE /api/user/delete_snippet  delete an owned snippet  (auth)
//	GET    /api/protected            identify the token owner (auth)
//	DELETE /api/delete_user          delete any user          (operator key)
//
// The operator route is only registered when an admin key is configured;
// with no key there is no route to probe.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.cfg.Auth.JWTSecret, s.cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	users := s.db.Users()
	snippets := s.db.Snippets()

	accountService := service.NewAccountService(users, tokens, passwords, s.logger)
	snippetService := service.NewSnippetService(snippets, users, s.logger)

	accountHandler := handler.NewAccountHandler(accountService, s.logger)
	snippetHandler := handler.NewSnippetHandler(snippetService, accountService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/user/register", accountHandler.HandleRegister)
		r.Post("/user/login", accountHandler.HandleLogin)
		r.Get("/users", accountHandler.HandleListUsers)
		r.Get("/snippets", snippetHandler.HandleListAll)
		r.Get("/languages", snippetHandler.HandleLanguages)
		r.Get("/stats", snippetHandler.HandleStats)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Post("/user/logout", accountHandler.HandleLogout)
			r.Delete("/user/delete_user", accountHandler.HandleDeleteAccount)
			r.Post("/user/create_snippet", snippetHandler.HandleCreate)
			r.Get("/user/get_snippets", snippetHandler.HandleListOwn)
			r.Put("/user/update_snippet", snippetHandler.HandleUpdate)
			r.Delete("/user/delete_snippet", snippetHandler.HandleDelete)
			r.Get("/protected", accountHandler.HandleProtected)
		})

		// Operator routes
		if s.cfg.Auth.AdminKey != "" {
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdminKey(s.cfg.Auth.AdminKey))
				r.Delete("/delete_user", accountHandler.HandleAdminDelete)
			})
		} else {
			s.logger.Warn("no admin key configured, operator delete endpoint disabled")
		}
	})

	return nil
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT or SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests within
// the configured timeout, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
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
			slog.String("addr", s.cfg.Server.Addr),
			slog.String("database", s.cfg.Database.Path),
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

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
