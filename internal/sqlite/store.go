package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"incasso/internal/core"
)

// Store implements core.Repository on SQLite. Reads outside Atomic run on
// the pool; inside Atomic every call shares one IMMEDIATE transaction.
type Store struct {
	db *sql.DB
	tx *sql.Tx
}

func NewStore(db *sql.DB) Store {
	return Store{
		db: db,
	}
}

// querier is the intersection of *sql.DB and *sql.Tx the store needs.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s Store) q() querier {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s Store) Atomic(ctx context.Context, cb func(r core.Repository) error) error {
	if s.tx != nil {
		// Already transactional; nested Atomic joins the outer transaction.
		return cb(s)
	}

	// BEGIN IMMEDIATE (via _txlock=immediate in the DSN) serializes write
	// transactions, so duplicate-collection-date and reference-uniqueness
	// checks cannot race between SELECT and INSERT.
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelDefault,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStore := Store{tx: tx}

	if err = cb(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
