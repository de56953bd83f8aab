package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Begin starts a transaction on a connection taken from db. The connection
// goes back to the pool on Commit or Rollback.
func Begin(ctx context.Context, db *sqlx.DB) (*sqlx.Tx, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, NewStorageError("begin transaction", err)
	}
	return tx, nil
}

func Commit(tx *sqlx.Tx) error {
	if err := tx.Commit(); err != nil {
		return NewStorageError("commit transaction", err)
	}
	return nil
}

func Rollback(tx *sqlx.Tx) error {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return NewStorageError("rollback transaction", err)
	}
	return nil
}

// WithTx runs fn inside a single transaction named op. fn's error, or a
// panic, rolls the transaction back; otherwise it is committed. Errors come
// back as *StorageError; a rollback failure is joined to the original cause.
func WithTx(ctx context.Context, db *sqlx.DB, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := Begin(ctx, db)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = Rollback(tx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := Rollback(tx); rbErr != nil {
			return &StorageError{Op: op, Code: sqlState(err), Cause: errors.Join(err, rbErr)}
		}
		return NewStorageError(op, err)
	}

	return Commit(tx)
}
