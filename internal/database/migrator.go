package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
	"github.com/singnet/snet-converter-services/internal/config"
)

// Embed all SQL files under migrations/ at compile time so the binary
// carries its own schema history.
//
//go:embed migrations/*.sql
var migrations embed.FS

// versionTable stores the applied migration version.
const versionTable = "schema_version"

// Migrate runs the embedded migrations up to the latest version.
//
// Schema changes only ever happen here, out-of-band from the Manager; a
// Connect never creates or alters tables.
//
// Behavior:
//   - Validate config and connect using pgx (single connection, not a pool)
//   - Create tern migrator and load embedded migrations
//   - Run migrations to latest
//   - Log whether it was already up-to-date or migrated
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	if err := cfg.Database.Validate(); err != nil {
		return err
	}

	conn, err := pgx.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, versionTable)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("applying database migrations: %w", err)
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}
