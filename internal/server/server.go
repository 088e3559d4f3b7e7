// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the wiring layer. It connects handlers, middleware, and
// routes, and decides how the server starts and stops.
//
// DEPENDENCY INJECTION FLOW:
//
//	config.Config → New():
//	  PasswordService → Simulator → AuthService
//	  TokenService + session.Store (each session builds a seeded Dashboard on sign-in,
//	  over memory or a private in-memory SQLite database)
//	  Highlighter → Views → Page/Auth/Dashboard/Snippet handlers
//
// This is the "composition root" pattern: all dependencies are wired in one
// place (New/routes) rather than scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/sakif/codevault/internal/auth"
	"github.com/sakif/codevault/internal/clipboard"
	"github.com/sakif/codevault/internal/config"
	"github.com/sakif/codevault/internal/dashboard"
	"github.com/sakif/codevault/internal/handler"
	"github.com/sakif/codevault/internal/highlight"
	"github.com/sakif/codevault/internal/middleware"
	"github.com/sakif/codevault/internal/repository/sqlite"
	"github.com/sakif/codevault/internal/service"
	"github.com/sakif/codevault/internal/session"
	"github.com/sakif/codevault/internal/web"
)

// shutdownTimeout is how long in-flight requests get to finish.
const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server and all its dependencies.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger

	tokens   *auth.TokenService
	sessions *session.Store
}

// Options overrides collaborators New would otherwise build from config.
// Tests use it to swap the clipboard.
type Options struct {
	Clipboard clipboard.Writer
}

// New builds the whole dependency graph from cfg.
func New(cfg *config.Config, logger *slog.Logger, opts Options) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	clip := opts.Clipboard
	if clip == nil {
		clip, err = clipboard.New(cfg.Clipboard)
		if err != nil {
			return nil, err
		}
	}

	factory, err := dashboardFactory(cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		tokens:   tokens,
		sessions: session.NewStore(cfg.SessionTTL, factory, logger),
	}

	if err := s.routes(clip); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// dashboardFactory picks the collection backing each dashboard. Every sign-in
// starts from the example snippets, and the collection goes away with the
// session either way.
func dashboardFactory(storage string, logger *slog.Logger) (session.DashboardFactory, error) {
	switch storage {
	case "memory":
		return func(ctx context.Context) (*dashboard.Dashboard, error) {
			return dashboard.NewSeeded(ctx, logger)
		}, nil
	case "sqlite":
		return func(ctx context.Context) (*dashboard.Dashboard, error) {
			db, err := sqlite.NewMemory()
			if err != nil {
				return nil, err
			}
			return dashboard.NewSeededFrom(ctx, db, logger)
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage %q", storage)
	}
}

// routes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /healthz                         liveness
//	GET    /static/*                        embedded CSS and JS
//	GET    /                                landing, login or signup
//	POST   /view/{name}                     switch between them
//	POST   /login, /signup, /logout         mock auth
//	GET    /dashboard                       dashboard (signed in)
//	POST   /dashboard/...                   dashboard actions (signed in)
//	*      /api/...                         JSON API (signed in)
//
// MIDDLEWARE ORDER MATTERS:
//  1. RequestID: unique ID per request, for tracing
//  2. RealIP: client IP from proxy headers
//  3. Recoverer: a panic becomes a 500 instead of a crash
//  4. Sessions: attach (or start) the browser's session
//  5. Logger: one line per request, with request and session ids
func (s *Server) routes(clip clipboard.Writer) error {
	passwords := auth.NewPasswordService(s.config.BcryptCost)
	simulator := auth.NewSimulator(s.config.AuthDelay, passwords)
	authService := service.NewAuthService(simulator, s.logger)

	views, err := handler.NewViews(web.Templates(), highlight.New(s.config.HighlightStyle), s.logger)
	if err != nil {
		return err
	}

	pages := handler.NewPageHandler(views, s.logger)
	authHandler := handler.NewAuthHandler(views, authService, s.logger)
	dashboardHandler := handler.NewDashboardHandler(views, clip, s.logger)
	snippetHandler := handler.NewSnippetHandler(s.logger)

	r := s.router
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	// No session for probes and assets.
	r.Get("/healthz", handler.HandleHealth(s.sessions))
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web.Static())))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Sessions(s.tokens, s.sessions, s.logger))
		r.Use(middleware.Logger(s.logger))

		r.Get("/", pages.HandleRoot)
		r.Post("/view/{name}", pages.HandleView)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuthenticated)

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/", dashboardHandler.HandleShow)
				r.Post("/sidebar", dashboardHandler.HandleToggleSidebar)
				r.Post("/new", dashboardHandler.HandleNew)
				r.Post("/cancel", dashboardHandler.HandleCancel)
				r.Post("/save", dashboardHandler.HandleSave)
				r.Route("/snippets/{id}", func(r chi.Router) {
					r.Post("/select", dashboardHandler.HandleSelect)
					r.Post("/edit", dashboardHandler.HandleEdit)
					r.Post("/delete", dashboardHandler.HandleDelete)
					r.Post("/copy", dashboardHandler.HandleCopy)
				})
			})

			r.Route("/api", func(r chi.Router) {
				r.Get("/me", authHandler.HandleMe)
				r.Get("/snippets", snippetHandler.HandleList)
				r.Post("/snippets", snippetHandler.HandleCreate)
				r.Get("/snippets/{id}", snippetHandler.HandleGetByID)
				r.Put("/snippets/{id}", snippetHandler.HandleUpdate)
				r.Delete("/snippets/{id}", snippetHandler.HandleDelete)
				r.Get("/snippets/{id}/raw", snippetHandler.HandleRaw)
			})
		})
	})

	return nil
}

// Handler exposes the router, for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions exposes the session store.
func (s *Server) Sessions() *session.Store {
	return s.sessions
}

// Run serves HTTP and sweeps expired sessions until ctx is cancelled, then
// shuts down gracefully.
//
// Both loops run in one errgroup: if the listener fails, the group's
// context is cancelled and the janitor stops with it.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("storage", s.config.Storage),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return s.sessions.Run(gctx, s.config.SweepInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
		return nil
	})

	return g.Wait()
}
