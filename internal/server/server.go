package server

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/recipevault/backend/config"
	"github.com/pageza/recipevault/backend/internal/api"
	"github.com/pageza/recipevault/backend/internal/database"
	"github.com/pageza/recipevault/backend/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	cfg    *config.Config
}

// New builds a fully wired server: database, optional Redis, routes.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	// Apply pending schema migrations when the directory ships alongside the
	// binary; deployments that migrate separately run cmd/migrate instead.
	if _, err := os.Stat(cfg.MigrationsDir); err == nil {
		if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
			return nil, err
		}
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		// Rate limiting and lookup caching degrade gracefully without Redis.
		log.Printf("Warning: failed to connect to Redis: %v", err)
		redisClient = nil
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.ClientURL))

	api.RegisterRoutes(router, db, redisClient, cfg)

	return &Server{
		router: router,
		db:     db,
		cfg:    cfg,
	}, nil
}

// Start starts the server and blocks until it exits.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    s.cfg.ServerHost + ":" + s.cfg.ServerPort,
		Handler: s.router,
	}

	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
