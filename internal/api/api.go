// Package api wires the gin engine: middleware, authentication and routes.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/banwatch/banwatch/internal/api/auth"
	"github.com/banwatch/banwatch/internal/api/handler"
	"github.com/banwatch/banwatch/internal/config"
	"github.com/banwatch/banwatch/internal/database"
)

type Server struct {
	cfg       *config.Config
	ginEngine *gin.Engine
	db        database.Store
}

func New(cfg *config.Config, db database.Store, debug bool) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:       cfg,
		ginEngine: gin.New(),
		db:        db,
	}
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	s.ginEngine.Use(gin.Logger(), gin.Recovery())
	s.ginEngine.Use(requestID())
	s.ginEngine.Use(requestTimeout(s.cfg.RequestTimeout))
	s.ginEngine.Use(gzip.Gzip(gzip.DefaultCompression))

	h := handler.New(s.db)

	s.ginEngine.GET("/healthz", h.Healthz)

	// API routes
	api := s.ginEngine.Group("/api")
	api.Use(auth.RequireKey(s.cfg.APIKey))

	api.GET("/users", h.ListUsers)
	api.GET("/users/:username", h.GetUser)
	api.POST("/users", h.CreateUser)
	api.PUT("/users/:username", h.UpdateUser)
	api.DELETE("/users/:username", h.DeleteUser)

	api.GET("/banned", h.BannedAccounts)
	api.GET("/bannedusers", h.BannedUsers)
	api.GET("/bannedips", h.BannedIPs)
	api.GET("/stats", h.Stats)
}

// Engine exposes the underlying gin engine for tests.
func (s *Server) Engine() *gin.Engine {
	return s.ginEngine
}

// Run serves requests until the context is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
