// Package database owns the PostgreSQL connection lifecycle.
//
// A Manager holds at most one Connection per name. Connect returns the
// registered connection when it is live, reconnects it in place when it is
// not, and otherwise opens a new pgx pool from config and registers it.
//
// It handles:
//   - building a pgxpool config from config.DatabaseConfig
//   - wiring query logging (pgx tracelog + zerolog) and slow query warnings
//   - registering the entity schema set on every connection
//   - running embedded tern migrations (schema is never synchronised at runtime)
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/singnet/snet-converter-services/internal/entity"
)

// DefaultConnectionName is the registry key used by Connect.
const DefaultConnectionName = "default"

// DatabasePingTimeout defines the number of seconds to wait for a ping
// before considering the database "unreachable".
const DatabasePingTimeout = 10

var (
	// ErrManagerClosed is returned by Connect after Close.
	ErrManagerClosed = errors.New("database manager is closed")

	// ErrNotConnected is returned by Connection queries after Close.
	ErrNotConnected = errors.New("database connection is not connected")

	// ErrUnknownTable is returned by Table for unregistered names.
	ErrUnknownTable = errors.New("table is not registered")
)

// Querier is the query surface shared by *pgxpool.Pool, *Connection and
// the Manager's reconnecting querier. Repositories depend on it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Opener creates a live pool from a parsed config.
type Opener func(ctx context.Context, cfg *pgxpool.Config) (*pgxpool.Pool, error)

// OpenPool is the default Opener: create the pool, then ping it with a
// timeout so a dead database fails the connect instead of the first query.
func OpenPool(ctx context.Context, cfg *pgxpool.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, DatabasePingTimeout*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// Connection is a named pool plus the entity schemas registered on it.
//
// The *Connection pointer is stable for the life of the Manager: a
// reconnect swaps the pool inside it.
type Connection struct {
	name       string
	poolConfig *pgxpool.Config
	entities   []entity.Table
	opener     Opener
	log        *zerolog.Logger

	mu        sync.RWMutex
	pool      *pgxpool.Pool
	connected bool
}

func newConnection(name string, poolConfig *pgxpool.Config, entities []entity.Table, opener Opener, log *zerolog.Logger) *Connection {
	return &Connection{
		name:       name,
		poolConfig: poolConfig,
		entities:   entities,
		opener:     opener,
		log:        log,
	}
}

// Name returns the registry key.
func (c *Connection) Name() string {
	return c.name
}

// Pool returns the current pool. It is nil before the first connect.
func (c *Connection) Pool() *pgxpool.Pool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pool
}

// IsConnected reports whether the connection holds an open pool.
func (c *Connection) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected && c.pool != nil
}

// Entities returns the registered entity schemas.
func (c *Connection) Entities() []entity.Table {
	out := make([]entity.Table, len(c.entities))
	copy(out, c.entities)
	return out
}

// Table looks up a registered entity schema by table name.
func (c *Connection) Table(name string) (entity.Table, error) {
	for _, t := range c.entities {
		if t.Name == name {
			return t, nil
		}
	}
	return entity.Table{}, fmt.Errorf("%w: %s", ErrUnknownTable, name)
}

// Ping checks the pool round trip.
func (c *Connection) Ping(ctx context.Context) error {
	pool, err := c.livePool()
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

// Close closes the pool and marks the connection disconnected. The
// connection stays registered; the next Manager.Connect reopens it.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool == nil {
		return
	}

	c.log.Info().Str("connection", c.name).Msg("closing database connection pool")
	c.pool.Close()
	c.connected = false
}

// open replaces the pool with a fresh one built from a copy of the parsed
// config. Errors leave the connection disconnected.
func (c *Connection) open(ctx context.Context) error {
	pool, err := c.opener(ctx, c.poolConfig.Copy())
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool != nil && c.connected {
		c.pool.Close()
	}
	c.pool = pool
	c.connected = true
	return nil
}

func (c *Connection) livePool() (*pgxpool.Pool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.connected || c.pool == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotConnected, c.name)
	}
	return c.pool, nil
}

func (c *Connection) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	pool, err := c.livePool()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return pool.Exec(ctx, sql, args...)
}

func (c *Connection) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	pool, err := c.livePool()
	if err != nil {
		return nil, err
	}
	return pool.Query(ctx, sql, args...)
}

func (c *Connection) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	pool, err := c.livePool()
	if err != nil {
		return errRow{err: err}
	}
	return pool.QueryRow(ctx, sql, args...)
}

// errRow defers a connection error to Scan, matching pgx.Row semantics.
type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}
