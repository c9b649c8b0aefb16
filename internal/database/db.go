package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/BradenHooton/complaintbox/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapPostgresError translates driver errors into model sentinels.
// Unrecognised errors are returned unchanged.
func MapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", models.ErrConflict, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: referenced row does not exist", models.ErrValidation)
		case "23502": // not_null_violation
			return fmt.Errorf("%w: %s is required", models.ErrValidation, pgErr.ColumnName)
		case "23514": // check_violation
			return fmt.Errorf("%w: %s", models.ErrValidation, pgErr.ConstraintName)
		}
	}

	return err
}

// WithTransaction runs fn inside a read-write transaction. The transaction
// is committed when fn returns nil and rolled back otherwise.
func (db *DB) WithTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	return db.withTx(ctx, pgx.TxOptions{}, fn)
}

// WithReadOnlySnapshot runs fn in a read-only repeatable-read transaction so
// that every query in fn sees the same snapshot.
func (db *DB) WithReadOnlySnapshot(ctx context.Context, fn func(pgx.Tx) error) error {
	return db.withTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	}, fn)
}

func (db *DB) withTx(ctx context.Context, opts pgx.TxOptions, fn func(pgx.Tx) error) (err error) {
	tx, err := db.Pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else if cerr := tx.Commit(ctx); cerr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cerr)
		}
	}()

	err = fn(tx)
	return err
}
