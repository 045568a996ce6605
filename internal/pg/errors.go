package pg

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrConcurrentModification = errors.New("concurrent modification")

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeUniqueViolation      = "23505"

	// openIntervalConstraint allows one open log row per account and log type.
	openIntervalConstraint = "account_logs_one_open_idx"
)

// TranslateError maps lock conflicts reported by Postgres to
// ErrConcurrentModification. A second open log interval counts as one: its
// writer found nothing to lock and lost the race to insert. Other errors are
// returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return fmt.Errorf("%w: %s", ErrConcurrentModification, pgErr.Message)
		case codeUniqueViolation:
			if pgErr.ConstraintName == openIntervalConstraint {
				return fmt.Errorf("%w: %s", ErrConcurrentModification, pgErr.Message)
			}
		}
	}
	return err
}
