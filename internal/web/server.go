package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tunedial/station/internal/catalog"
	"github.com/tunedial/station/internal/mood"
	"github.com/tunedial/station/internal/station"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr     string
	Catalog  catalog.Provider
	Engine   *station.Engine
	Resolver *mood.Resolver
}

// Server is the HTTP server for the station API.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
	history  *HistoryStore
}

// NewServer creates a new station API server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog provider is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Engine == nil {
		cfg.Engine = station.NewEngine()
	}
	if cfg.Resolver == nil {
		cfg.Resolver = mood.NewResolver(nil, nil)
	}

	history := NewHistoryStore()
	handlers := NewHandlers(cfg.Engine, cfg.Catalog, cfg.Resolver, history)

	router := chi.NewRouter()
	s := &Server{
		router:   router,
		handlers: handlers,
		history:  history,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handlers.Health)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/station", s.handlers.GenerateStation)
		r.Post("/mood", s.handlers.MoodTags)
		r.Post("/tracks/{id}/play", s.handlers.RecordPlay)
		r.Get("/tags", s.handlers.Tags)
		r.Get("/presets", s.handlers.Presets)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("Starting station API at http://%s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
