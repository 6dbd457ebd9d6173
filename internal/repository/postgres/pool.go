// Package postgres contains PostgreSQL implementations of repository interfaces.
package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool is a minimal abstraction over a Postgres connection pool,
// used by repositories. It is implemented by *pgxpool.Pool and pgxmock.PgxPoolIface.
type PgxPool interface {
	// Exec executes a SQL command and returns the command tag.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	// Query executes a SELECT and returns a rows iterator.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	// QueryRow executes a query expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	// Close shuts down the pool and frees resources.
	Close()
}

// DB wraps pgxpool.Pool to satisfy repository constructors and allow testing.
// AcquireTimeout bounds each repository call via Bound.
type DB struct {
	Pool           PgxPool
	AcquireTimeout time.Duration
}

// PoolConfig bounds the shared connection pool. ConnectTimeout limits
// dialing a fresh connection; AcquireTimeout limits how long a call waits
// for a free connection (pgxpool itself has no acquire deadline, so an
// exhausted pool would otherwise queue callers until their request context
// dies). Idle connections are reaped after MaxConnIdle.
type PoolConfig struct {
	MinConns       int32
	MaxConns       int32
	ConnectTimeout time.Duration
	AcquireTimeout time.Duration
	MaxConnIdle    time.Duration
}

// New creates a bounded connection pool for the given DSN.
func New(ctx context.Context, dsn string, cfg PoolConfig) (*DB, error) {
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.ConnectTimeout > 0 {
		pc.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	if cfg.MaxConnIdle > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdle
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, err
	}
	return &DB{Pool: pool, AcquireTimeout: cfg.AcquireTimeout}, nil
}

// Bound derives a context that expires after the acquire timeout, so a
// call on an exhausted pool fails fast instead of queueing indefinitely.
// With no timeout configured the context passes through unchanged.
func (db *DB) Bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if db.AcquireTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, db.AcquireTimeout)
}

// Close closes the underlying pool.
func (db *DB) Close() { db.Pool.Close() }

// uniqueViolation reports whether err is a unique constraint violation and,
// if so, which constraint was hit.
func uniqueViolation(err error) (constraint string, ok bool) {
	var pg *pgconn.PgError
	if errors.As(err, &pg) && pg.Code == "23505" {
		return pg.ConstraintName, true
	}
	return "", false
}

// constraintColumn maps a unique constraint name like users_email_key to
// the violated column.
func constraintColumn(constraint string) string {
	switch {
	case strings.Contains(constraint, "email"):
		return "email"
	case strings.Contains(constraint, "username"):
		return "username"
	default:
		return ""
	}
}
