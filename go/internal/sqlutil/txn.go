package sqlutil

import (
	"context"
	"database/sql"
	"fmt"
)

// TxStarter is satisfied by *sql.DB.
type TxStarter interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Run executes fn inside a read-write transaction. bind attaches the query
// layer to the tx. If fn returns an error the tx rolls back, else it commits.
func Run[Q any](ctx context.Context, db TxStarter, bind func(*sql.Tx) Q, fn func(q Q) error) error {
	return run(ctx, db, nil, bind, fn)
}

// RunSnapshot executes fn inside a read-only repeatable-read transaction so
// every query in fn observes the same snapshot.
func RunSnapshot[Q any](ctx context.Context, db TxStarter, bind func(*sql.Tx) Q, fn func(q Q) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	return run(ctx, db, opts, bind, fn)
}

func run[Q any](ctx context.Context, db TxStarter, opts *sql.TxOptions, bind func(*sql.Tx) Q, fn func(q Q) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(bind(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
