package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/singnet/snet-converter-services/internal/config"
	"github.com/singnet/snet-converter-services/internal/database"
	"github.com/singnet/snet-converter-services/internal/handler"
	"github.com/singnet/snet-converter-services/internal/logger"
	"github.com/singnet/snet-converter-services/internal/repository"
	"github.com/singnet/snet-converter-services/internal/router"
	"github.com/singnet/snet-converter-services/internal/server"
	"github.com/singnet/snet-converter-services/internal/service"
)

var (
	version = "dev"
	commit  = "none"
)

// DefaultContextTimeout bounds graceful shutdown.
const DefaultContextTimeout = 30 * time.Second

// CLI flags
var (
	migrateOnStart bool
	verifySchema   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "converter",
		Short:         "Token address persistence service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  serve,
	}
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "Apply pending migrations before serving")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations",
		RunE:  migrate,
	}
	migrateCmd.Flags().BoolVar(&verifySchema, "verify", false, "Check the entity schemas against the database after migrating")

	rootCmd.AddCommand(serveCmd, migrateCmd, &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("converter %s (commit: %s)\n", version, commit)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bootstrap() (*config.Config, *zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(cfg.Observability)
	return cfg, &log, nil
}

func migrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, log, cfg); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if !verifySchema {
		return nil
	}

	manager := database.NewManager(cfg, log)
	defer manager.Close()

	conn, err := manager.Connect(ctx)
	if err != nil {
		return err
	}
	if err := conn.VerifySchema(ctx); err != nil {
		return err
	}

	log.Info().Int("entities", len(conn.Entities())).Msg("database schema matches entities")
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if migrateOnStart {
		if err := database.Migrate(ctx, log, cfg); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	srv, err := server.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	if err := srv.ConnectDatabase(ctx); err != nil {
		return err
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewService(srv, repos)
	if err != nil {
		return fmt.Errorf("could not create services: %w", err)
	}

	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			_ = srv.DB.Close()
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited properly")
	return nil
}
