package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/singnet/snet-converter-services/internal/config"
	"github.com/singnet/snet-converter-services/internal/entity"
)

// Manager is the connection registry. It is created by the process entry
// point and passed to whatever needs the database; there is no global one.
type Manager struct {
	mu          sync.Mutex
	cfg         *config.Config
	log         *zerolog.Logger
	opener      Opener
	entities    []entity.Table
	connections map[string]*Connection
	closed      bool
}

// Option customises a Manager.
type Option func(*Manager)

// WithOpener replaces OpenPool. Tests use it to count opens or to fail them.
func WithOpener(opener Opener) Option {
	return func(m *Manager) {
		m.opener = opener
	}
}

// WithEntities replaces the default entity set (entity.All()).
func WithEntities(tables ...entity.Table) Option {
	return func(m *Manager) {
		m.entities = tables
	}
}

// NewManager creates an empty registry. Nothing is opened until Connect.
func NewManager(cfg *config.Config, logger *zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		cfg:         cfg,
		log:         logger,
		opener:      OpenPool,
		entities:    entity.All(),
		connections: make(map[string]*Connection),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Connect returns the default connection, opening or reopening it as needed.
//
//   - registered and live: returned unchanged
//   - registered but closed: reopened in place and returned
//   - absent: configured, opened, registered and returned
//
// The lock is held for the whole check-then-act sequence, so concurrent
// callers never open two pools for one name. Driver errors from opening
// the pool are logged and returned unmodified; nothing is retried.
func (m *Manager) Connect(ctx context.Context) (*Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrManagerClosed
	}

	if conn, ok := m.connections[DefaultConnectionName]; ok {
		if conn.IsConnected() {
			return conn, nil
		}

		if err := conn.open(ctx); err != nil {
			m.log.Error().Err(err).Str("connection", conn.name).Msg("failed to reconnect to the database")
			return nil, err
		}
		m.log.Info().Str("connection", conn.name).Msg("reconnected to the database")
		return conn, nil
	}

	poolConfig, err := m.buildPoolConfig()
	if err != nil {
		return nil, err
	}

	conn := newConnection(DefaultConnectionName, poolConfig, m.entities, m.opener, m.log)
	if err := conn.open(ctx); err != nil {
		m.log.Error().Err(err).Str("connection", conn.name).Msg("failed to connect to the database")
		return nil, err
	}
	m.connections[DefaultConnectionName] = conn

	m.log.Info().
		Str("connection", conn.name).
		Int("entities", len(m.entities)).
		Msg("connected to the database")

	return conn, nil
}

// buildPoolConfig validates the config and the entity set, then parses the
// DSN and applies pool tuning and tracing.
func (m *Manager) buildPoolConfig() (*pgxpool.Config, error) {
	dbCfg := m.cfg.Database
	if err := dbCfg.Validate(); err != nil {
		return nil, err
	}

	for _, table := range m.entities {
		if err := table.Validate(); err != nil {
			return nil, fmt.Errorf("invalid entity schema: %w", err)
		}
	}

	poolConfig, err := pgxpool.ParseConfig(dbCfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	if dbCfg.MaxConns > 0 {
		poolConfig.MaxConns = dbCfg.MaxConns
	}
	if dbCfg.MinConns > 0 {
		poolConfig.MinConns = dbCfg.MinConns
	}
	if dbCfg.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = dbCfg.ConnMaxLifetime
	}
	if dbCfg.ConnMaxIdleTime > 0 {
		poolConfig.MaxConnIdleTime = dbCfg.ConnMaxIdleTime
	}

	var threshold time.Duration
	if m.cfg.Observability != nil {
		threshold = m.cfg.Observability.Logging.SlowQueryThreshold
	}
	poolConfig.ConnConfig.Tracer = newQueryTracer(m.log, threshold)

	return poolConfig, nil
}

// Has reports whether a connection is registered under name.
func (m *Manager) Has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.connections[name]
	return ok
}

// Close closes every registered connection. Later Connect calls fail with
// ErrManagerClosed.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	for _, conn := range m.connections {
		conn.Close()
	}
	return nil
}

// Querier returns a Querier that goes through Connect on every call, so a
// connection closed between calls is reopened by the next one.
func (m *Manager) Querier() Querier {
	return managedQuerier{m: m}
}

type managedQuerier struct {
	m *Manager
}

func (q managedQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	conn, err := q.m.Connect(ctx)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return conn.Exec(ctx, sql, args...)
}

func (q managedQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	conn, err := q.m.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return conn.Query(ctx, sql, args...)
}

func (q managedQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	conn, err := q.m.Connect(ctx)
	if err != nil {
		return errRow{err: err}
	}
	return conn.QueryRow(ctx, sql, args...)
}
