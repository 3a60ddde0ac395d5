// Package web provides the HTTP server and API gateway for the MatchMyVibe
// backend.
package web

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ServerConfig holds server configuration. Every collaborator is injected;
// the server owns no ambient state.
type ServerConfig struct {
	Addr     string
	Resolver IdentityResolver
	Profiles ProfileStore
	Metrics  MetricStore
	Player   Player // optional
	StaticFS fs.FS
}

// Server is the HTTP server for the API gateway.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
}

// NewServer creates a new gateway server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Resolver == nil {
		return nil, fmt.Errorf("identity resolver is required")
	}
	if cfg.Profiles == nil || cfg.Metrics == nil {
		return nil, fmt.Errorf("profile and metric stores are required")
	}

	handlers := NewHandlers(cfg.Profiles, cfg.Metrics, cfg.Player, cfg.StaticFS)

	router := chi.NewRouter()

	s := &Server{
		router:   router,
		handlers: handlers,
	}

	// Configure middleware
	s.setupMiddleware()

	// Configure routes
	s.setupRoutes(cfg.Resolver, cfg.StaticFS)

	// Create HTTP server
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

// setupRoutes configures routes for the gateway.
func (s *Server) setupRoutes(resolver IdentityResolver, staticFS fs.FS) {
	// Static assets
	fileServer := http.FileServer(http.FS(staticFS))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Landing page, doubling as the OAuth redirect target
	s.router.Get("/", s.handlers.Landing)
	s.router.Get("/callback", s.handlers.Landing)

	// Authenticated API
	s.router.Route("/api", func(r chi.Router) {
		r.Use(RequireAuth(resolver))
		r.Get("/user", s.handlers.GetUser)
		r.Get("/spotify-data", s.handlers.GetSpotifyData)
		r.Get("/profile", s.handlers.GetProfile)
		r.Put("/profile", s.handlers.UpdateProfile)
		r.Put("/profile/currently-playing", s.handlers.UpdateCurrentlyPlaying)
	})
}

// Router returns the configured router, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("Starting server at http://localhost%s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	// Channel to receive shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt or error
	select {
	case err := <-errCh:
		return err
	case <-stop:
		log.Println("Shutting down server...")
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
