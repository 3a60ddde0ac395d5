// Package db provides PostgreSQL database access for the MatchMyVibe backend.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Common errors.
var (
	ErrNotFound = errors.New("not found")
)

// DB wraps a PostgreSQL connection pool. It is the long-lived handle to the
// project's data plane, constructed once at startup and shared by every
// request.
type DB struct {
	pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

// Pool returns the underlying connection pool for advanced operations.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Profiles returns a ProfileRepository.
func (db *DB) Profiles() *ProfileRepository {
	return &ProfileRepository{pool: db.pool}
}

// Metrics returns a MetricRepository.
func (db *DB) Metrics() *MetricRepository {
	return &MetricRepository{pool: db.pool}
}
