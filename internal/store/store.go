// Package store provides PostgreSQL access for the music warehouse: schema
// creation, upserts for catalog rows, transactional bulk inserts for
// generated rows, and the id snapshots the event generator samples from.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Common errors.
var (
	// ErrIntegrityViolation is returned when a write breaks a foreign-key
	// or uniqueness constraint not absorbed by upsert semantics.
	ErrIntegrityViolation = errors.New("integrity violation")
)

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Open creates a connection pool and verifies connectivity.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// classify maps PostgreSQL constraint errors onto ErrIntegrityViolation and
// passes everything else through.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503", "23505": // foreign_key_violation, unique_violation
			return fmt.Errorf("%w: %s", ErrIntegrityViolation, pgErr.Message)
		}
	}
	return err
}
