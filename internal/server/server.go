// Package server defines the core Server struct that composes the app's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger
//   - the database connection manager
//   - http.Server
//
// It provides constructors and start/shutdown logic to run the application cleanly.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/singnet/snet-converter-services/internal/config"
	"github.com/singnet/snet-converter-services/internal/database"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself. It holds:
//   - the config
//   - the logger
//   - the database manager (connections are opened lazily)
//   - an internal *http.Server used to listen and serve requests
type Server struct {
	Config *config.Config
	Logger *zerolog.Logger

	// DB owns the named connection registry. Nothing else opens pools.
	DB *database.Manager

	httpServer *http.Server
}

// New constructs a Server. The database is not contacted here; the first
// DB.Connect (or query through DB.Querier) opens the pool.
func New(cfg *config.Config, logger *zerolog.Logger, opts ...database.Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	return &Server{
		Config: cfg,
		Logger: logger,
		DB:     database.NewManager(cfg, logger, opts...),
	}, nil
}

// ConnectDatabase opens the default connection with a timeout so startup
// fails fast when the database is down.
func (s *Server) ConnectDatabase(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, database.DatabasePingTimeout*time.Second)
	defer cancel()

	if _, err := s.DB.Connect(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return nil
}

// SetupHTTPServer configures the internal net/http server.
// Config stores timeouts as seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It requires SetupHTTPServer to be called first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server (finishing inflight requests until the
// ctx deadline) and then closes every database connection.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	return nil
}
