// Package store provides the PostgreSQL persistence layer for
// categories, transactions, and recurring templates.
//
// The store is an explicitly passed handle, not a package-level
// singleton, so callers can be wired against fakes in tests and no
// hidden global connection state exists.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store wraps a database handle with typed query methods.
type Store struct {
	db DBTX
}

// New creates a Store over the given database handle.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.db.Exec(ctx, "SELECT 1")
	return err
}
