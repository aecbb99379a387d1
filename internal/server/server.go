// Package server sets up the HTTP server, router, and the dependency graph.
//
// This is the composition root: the database, the token and password
// services, the image store, the service layer, and the handlers are all
// created here and passed down explicitly. Nothing below this package
// reaches for a global.
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

	"github.com/tanvir/feedboard/internal/auth"
	"github.com/tanvir/feedboard/internal/handler"
	"github.com/tanvir/feedboard/internal/middleware"
	sqliteRepo "github.com/tanvir/feedboard/internal/repository/sqlite"
	"github.com/tanvir/feedboard/internal/service"
	"github.com/tanvir/feedboard/internal/storage"
)

// Config holds server configuration, loaded in main.go.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
	ImageDir  string
}

// Server owns the router and the resources that need closing on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB → repositories → Service → handlers → routes
//
// The service receives the repository interfaces, not the concrete DB; the
// handlers receive the service, never a repository.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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

// setupRoutes configures middleware and routes.
//
// ROUTE STRUCTURE:
//
//	POST /api          → operation invocation (all nine operations)
//	PUT  /post-image   → multipart image upload
//	GET  /images/*     → static serving of stored images
//	GET  /healthz      → liveness probe
//
// Middleware order: request ID and real IP first, panic recovery, request
// logging, CORS, then identity extraction — so every handler (and every
// operation behind the dispatch) sees the verified identity in its
// context.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	images, err := storage.NewImageStore(s.config.ImageDir)
	if err != nil {
		return fmt.Errorf("creating image store: %w", err)
	}

	svc := service.New(s.db, s.db, tokens, passwords, images, s.logger)
	apiHandler := handler.NewAPIHandler(svc, s.logger)
	uploadHandler := handler.NewUploadHandler(images, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.CORS)
	s.router.Use(auth.WithIdentity(tokens))

	fileServer := http.FileServer(http.Dir(images.Dir()))
	s.router.Handle("/images/*", http.StripPrefix("/images/", fileServer))

	s.router.Post("/api", apiHandler.HandleInvoke)
	s.router.Put("/post-image", uploadHandler.HandleUpload)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
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
			slog.String("database", s.config.DBPath),
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
