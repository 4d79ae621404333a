// Package database contains the database layer.
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelichko/foodgram/internal/sql"
)

// Pool begins transactions. Satisfied by *pgxpool.Pool.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Database bundles the query surface with the underlying pool so callers can
// run multi-statement operations transactionally.
type Database struct {
	Querier
	Pool Pool
}

func NewDatabase(pool *pgxpool.Pool) *Database {
	return &Database{
		Querier: New(pool),
		Pool:    pool,
	}
}

// Tx returns the query surface bound to the given transaction. A non-Queries
// Querier (a test double) is returned unchanged.
func (d *Database) Tx(tx pgx.Tx) Querier {
	if q, ok := d.Querier.(*Queries); ok {
		return q.WithTx(tx)
	}
	return d.Querier
}

// EnsureSchema applies the embedded schema when the database is empty.
func (d *Database) EnsureSchema(ctx context.Context) error {
	exists, err := d.CheckUsersTableExists(ctx)
	if err != nil {
		return fmt.Errorf("checking schema: %w", err)
	}
	if exists {
		return nil
	}

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, sql.Schema()); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return tx.Commit(ctx)
}
