// Package dbtest starts a throwaway PostgreSQL container for integration
// tests and exposes it as application config.
package dbtest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/singnet/snet-converter-services/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const image = "postgres:16-alpine"

// Postgres is a running container plus the config that reaches it.
type Postgres struct {
	container *postgres.PostgresContainer
	URL       string
	Database  config.DatabaseConfig
}

// Start runs the container and waits until it accepts connections.
func Start(ctx context.Context) (*Postgres, error) {
	container, err := postgres.Run(ctx,
		image,
		postgres.WithDatabase("converter"),
		postgres.WithUsername("converter"),
		postgres.WithPassword("converter"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	parsed, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	dbCfg := config.DefaultDatabaseConfig()
	dbCfg.Host = parsed.ConnConfig.Host
	dbCfg.Port = int(parsed.ConnConfig.Port)
	dbCfg.User = parsed.ConnConfig.User
	dbCfg.Password = parsed.ConnConfig.Password
	dbCfg.Name = parsed.ConnConfig.Database
	dbCfg.MaxConns = 4

	return &Postgres{container: container, URL: connStr, Database: dbCfg}, nil
}

// Config returns a full application config pointing at the container.
func (p *Postgres) Config() *config.Config {
	observability := config.DefaultObservabilityConfig()
	observability.Environment = "test"
	observability.Logging.Level = "warn"

	return &config.Config{
		Primary:       config.Primary{Env: "test"},
		Server:        config.ServerConfig{Port: "0"},
		Database:      p.Database,
		Observability: observability,
	}
}

// Terminate stops and removes the container.
func (p *Postgres) Terminate(ctx context.Context) error {
	return p.container.Terminate(ctx)
}
