package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes the repositories react to
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isDuplicateKey reports a unique constraint violation from any dialect
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || pgCode(err) == pgUniqueViolation
}

// isSerializationFailure reports a transaction the database aborted to keep
// serializable isolation, or a detected deadlock
func isSerializationFailure(err error) bool {
	code := pgCode(err)
	return code == pgSerializationFailure || code == pgDeadlockDetected
}

// isForeignKeyViolation reports a delete or insert that breaks a reference
func isForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) || pgCode(err) == pgForeignKeyViolation
}

// notFound maps gorm's missing-row error to the domain's
func notFound(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(resource)
	}
	return err
}

// duplicate maps unique violations to an AlreadyExists domain error
func duplicate(err error, msg string) error {
	if isDuplicateKey(err) {
		return shared.NewDuplicateError(msg)
	}
	return err
}
