package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
)

// SQLSTATE codes the store reacts to.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeNumericOutOfRange    = "22003"
)

// BeginTx starts a READ COMMITTED transaction whose row lock waits are
// bounded by lockTimeout. A zero timeout leaves the server default in place.
func BeginTx(ctx context.Context, db *sql.DB, lockTimeout time.Duration) (*sql.Tx, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, Classify(fmt.Errorf("beginning transaction: %w", err))
	}

	if lockTimeout > 0 {
		timeout := fmt.Sprintf("%dms", lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, "SELECT set_config('lock_timeout', $1, true)", timeout); err != nil {
			_ = tx.Rollback()
			return nil, Classify(fmt.Errorf("setting lock timeout: %w", err))
		}
	}

	return tx, nil
}

// Classify attaches the matching apperr sentinel to driver errors that
// carry a meaning for callers. Other errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", apperr.ErrBusy, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeLockNotAvailable, codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("%w: %w", apperr.ErrBusy, err)
	case codeUniqueViolation, codeForeignKeyViolation:
		return fmt.Errorf("%w: %w", apperr.ErrConflict, err)
	case codeNumericOutOfRange:
		return fmt.Errorf("%w: %w", apperr.ErrValidation, err)
	}

	return err
}
