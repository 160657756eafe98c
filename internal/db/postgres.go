// Package db opens the backing stores the job service runs on: the
// PostgreSQL pool every catalog, search and lifecycle query goes through,
// and the Redis client used for deactivation events. Both helpers verify
// connectivity before returning so a bad URL fails at startup, not on the
// first request.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgresPool opens a pgxpool against databaseURL and pings it. The
// returned pool is shared by all services for the lifetime of the process.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return pool, nil
}
