// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer; it connects handlers, middleware, and routes.
// It decides:
//   - Which URL patterns map to which handler functions
//   - What middleware runs on every request
//   - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go creates:
//
//	config.Load() → storage.Open() → repository.Store
//
// Server.New() creates:
//
//	Store → {User,Item,Relation,Report}Service → JSON handlers + PageHandler
//
// The store is passed in rather than opened here, so tests can hand the
// server an in-memory store and drive it with httptest.
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

	"github.com/sakif/itemgraph/internal/handler"
	"github.com/sakif/itemgraph/internal/middleware"
	"github.com/sakif/itemgraph/internal/repository"
	"github.com/sakif/itemgraph/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port        int
	TemplateDir string
	StaticDir   string
}

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the store it was given. When the server shuts down it
// closes the store, flushing SQLite's WAL and releasing the file lock.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	store  repository.Store
}

// New wires services and handlers around store and registers the routes.
func New(cfg Config, store repository.Store, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	if err := s.setupRoutes(); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET  /                    → redirect to /entry
//	GET  /static/*            → CSS
//	GET  /entry               → Data Entry page
//	POST /entry/items         → add item form
//	POST /entry/relations     → create relationship form
//	GET  /users               → User Management page
//	POST /users               → add user form
//	GET  /reports             → Reporting page
//	GET  /diagram             → Relationship Diagram page
//	GET  /diagram/graph.html  → standalone diagram document
//
//	GET|POST /api/users
//	GET|POST /api/items,  GET /api/items/{id}
//	GET|POST /api/relations
//	GET      /api/report
//	GET      /api/graph
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: assigns unique ID to each request (Logger reads it)
// 2. RealIP: extracts real client IP from proxy headers
// 3. Recoverer: catches panics and returns 500 instead of crashing
// 4. Logger: logs each request with timing info
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	if s.config.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(s.config.StaticDir))
		s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	// DEPENDENCY CHAIN:
	// s.store implements every repository interface; each service only
	// receives the slice of it that it needs.
	svc := handler.Services{
		Users:     service.NewUserService(s.store, s.logger),
		Items:     service.NewItemService(s.store, s.logger),
		Relations: service.NewRelationService(s.store, s.logger),
		Reports:   service.NewReportService(s.store, s.store, s.logger),
	}

	pageHandler, err := handler.NewPageHandler(s.config.TemplateDir, svc, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}
	s.router.Get("/", pageHandler.HandleIndex)
	s.router.Get("/entry", pageHandler.HandleEntry)
	s.router.Post("/entry/items", pageHandler.HandleAddItem)
	s.router.Post("/entry/relations", pageHandler.HandleAddRelation)
	s.router.Get("/users", pageHandler.HandleUsers)
	s.router.Post("/users", pageHandler.HandleAddUser)
	s.router.Get("/reports", pageHandler.HandleReports)
	s.router.Get("/diagram", pageHandler.HandleDiagram)
	s.router.Get("/diagram/graph.html", pageHandler.HandleDiagramDocument)

	userHandler := handler.NewUserHandler(svc.Users, s.logger)
	itemHandler := handler.NewItemHandler(svc.Items, s.logger)
	relationHandler := handler.NewRelationHandler(svc.Relations, s.logger)
	reportHandler := handler.NewReportHandler(svc.Reports, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/users", userHandler.HandleList)
		r.Post("/users", userHandler.HandleCreate)

		r.Get("/items", itemHandler.HandleList)
		r.Get("/items/{id}", itemHandler.HandleGetByID)
		r.Post("/items", itemHandler.HandleCreate)

		r.Get("/relations", relationHandler.HandleList)
		r.Post("/relations", relationHandler.HandleCreate)

		r.Get("/report", reportHandler.HandleReport)
		r.Get("/graph", reportHandler.HandleGraph)
	})

	return nil
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the store (flushes WAL, releases file lock)
func (s *Server) Start() error {
	defer s.store.Close()

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
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
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
