// Package server wires folio together: storage, samples, rendering, editor
// sessions, services and handlers, and the router that exposes them.
//
// This is the composition root. Every dependency is built in New and handed
// down, so each layer only sees what it needs:
//
//	sqlite.DB → TemplateService → PageHandler, APIHandler
//	                  ↓
//	editor.Store → EditorService → EditorHandler
//
// ROUTES:
//
//	GET  /                     index of template types
//	GET  /t/{kind}             rendered template
//	GET  /t/{kind}/edit        editor form
//	POST /t/{kind}/edit        editor form submission
//	GET  /api/templates        list of template types (JSON)
//	GET  /api/templates/{kind} content record (JSON)
//	PUT  /api/templates/{kind} replace content record (JSON)
//	GET  /healthz              storage liveness
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/folio/internal/auth"
	"github.com/sakif/folio/internal/config"
	"github.com/sakif/folio/internal/defaults"
	"github.com/sakif/folio/internal/editor"
	"github.com/sakif/folio/internal/handler"
	"github.com/sakif/folio/internal/middleware"
	"github.com/sakif/folio/internal/render"
	sqliteRepo "github.com/sakif/folio/internal/repository/sqlite"
	"github.com/sakif/folio/internal/service"
)

// sessionCleanupInterval is how often idle editor sessions are swept.
const sessionCleanupInterval = time.Minute

// shutdownTimeout bounds how long in-flight requests get to finish.
const shutdownTimeout = 30 * time.Second

// Server owns the HTTP router and everything it depends on.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger

	db       *sqliteRepo.DB
	defaults *defaults.Loader
	store    *editor.Store

	templates *service.TemplateService
	editor    *service.EditorService
	engine    *render.Engine
}

// New opens the database and builds every component. The caller must call
// Close (Start does so on return).
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s, err := build(cfg, logger, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func build(cfg config.Config, logger *slog.Logger, db *sqliteRepo.DB) (*Server, error) {
	samples, err := defaults.New(cfg.DefaultsDir, logger)
	if err != nil {
		return nil, fmt.Errorf("loading samples: %w", err)
	}

	engine, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	store := editor.NewStore(cfg.Session.Max, cfg.Session.TTL)
	templates := service.NewTemplateService(db, samples, logger)
	editorSvc := service.NewEditorService(templates, store, logger)

	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		logger:    logger,
		db:        db,
		defaults:  samples,
		store:     store,
		templates: templates,
		editor:    editorSvc,
		engine:    engine,
	}
	s.setupRoutes(tokens)
	return s, nil
}

// setupRoutes registers middleware and routes.
//
// Middleware order matters: RequestID must run before Logger so the log line
// carries the ID, and Recoverer sits inside Logger so a panic is logged as 500.
func (s *Server) setupRoutes(tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	pages := handler.NewPageHandler(s.templates, s.engine, s.logger)
	editorHandler := handler.NewEditorHandler(s.editor, tokens, s.engine, s.logger)
	api := handler.NewAPIHandler(s.templates, s.logger)
	health := handler.NewHealthHandler(s.db, s.logger)

	s.router.Get("/", pages.HandleIndex)
	s.router.Get("/healthz", health.HandleHealth)

	s.router.Route("/t/{kind}", func(r chi.Router) {
		r.Get("/", pages.HandleTemplate)

		// {kind} is only known once chi has matched the route, so the cookie
		// middleware lives here rather than on the root router.
		r.Group(func(r chi.Router) {
			r.Use(auth.EditorSession(tokens, handler.KindFromRequest))
			r.Get("/edit", editorHandler.HandleEdit)
			r.Post("/edit", editorHandler.HandleSubmit)
		})
	})

	s.router.Route("/api/templates", func(r chi.Router) {
		r.Get("/", api.HandleList)
		r.Get("/{kind}", api.HandleGet)
		r.Put("/{kind}", api.HandlePut)
	})
}

// Handler is the root HTTP handler. Tests drive it through httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully and
// closes the database. It also runs the editor session sweeper and, when an
// override directory is configured, the sample watcher.
func (s *Server) Start(ctx context.Context) error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stopCleanup := s.store.StartCleanup(sessionCleanupInterval)
	defer stopCleanup()

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		if err := s.defaults.Watch(watchCtx); err != nil {
			s.logger.Warn("sample watcher stopped", slog.String("error", err.Error()))
		}
	}()

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		s.logger.Info("shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
