// Package server provides the HTTP server and routing for the engine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"fantasyedge/internal/alerts"
	"fantasyedge/internal/cache"
	"fantasyedge/internal/recommend"
)

// Config holds server configuration.
type Config struct {
	Port    int
	Log     zerolog.Logger
	Engine  *recommend.Engine
	Players recommend.PlayerProvider
	Cache   *cache.Store
	Hub     *alerts.Hub
	DevMode bool
}

// Server represents the HTTP server.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger

	engine  *recommend.Engine
	players recommend.PlayerProvider
	cache   *cache.Store
	hub     *alerts.Hub
}

// New creates the HTTP server and registers all routes.
func New(cfg Config) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		log:     cfg.Log.With().Str("component", "server").Logger(),
		engine:  cfg.Engine,
		players: cfg.Players,
		cache:   cfg.Cache,
		hub:     cfg.Hub,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
	if cfg.DevMode {
		s.router.Use(middleware.Logger)
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.setupRoutes(cfg)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes(cfg Config) {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/system/health", s.handleSystemHealth)
	s.router.Get("/api/cache/stats", s.handleCacheStats)

	s.router.Route("/api/recommendations", func(r chi.Router) {
		r.Post("/captains", s.handleCaptains)
		r.Get("/cash-cows", s.handleCashCows)
	})

	s.router.Route("/api/players/{playerID}", func(r chi.Router) {
		r.Get("/risk", s.handleRisk)
		r.Get("/projections", s.handleProjections)
	})

	s.router.Route("/api/team", func(r chi.Router) {
		r.Post("/structure", s.handleTeamStructure)
		r.Post("/upgrades", s.handleUpgrades)
	})

	s.router.Get("/api/alerts/recent", s.handleRecentAlerts)
	s.router.Method(http.MethodGet, "/ws", alerts.NewWSHandler(cfg.Hub, cfg.Log))
}

// Start begins listening. Blocks until shutdown.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
