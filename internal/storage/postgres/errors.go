package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ConnectionError reports that no session with the store could be
// established. It is never retried here.
type ConnectionError struct {
	Schema string
	Cause  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("unable to connect to %s: %v", e.Schema, e.Cause)
}

func (e *ConnectionError) Unwrap() error { return e.Cause }

// StorageError wraps a failed statement, commit or rollback. The enclosing
// transaction has already been rolled back when a caller sees one.
type StorageError struct {
	Op    string
	Code  string // SQLSTATE, when the driver reported one
	Cause error
}

func (e *StorageError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: storage error (sqlstate %s): %v", e.Op, e.Code, e.Cause)
	}
	return fmt.Sprintf("%s: storage error: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error { return e.Cause }

// ErrIntegrity marks a statement that touched more rows than a unique key
// allows.
var ErrIntegrity = errors.New("integrity violation")

// NewStorageError wraps cause for op, lifting the SQLSTATE out of lib/pq or
// pgx errors. An existing StorageError is returned as is.
func NewStorageError(op string, cause error) *StorageError {
	var se *StorageError
	if errors.As(cause, &se) {
		return se
	}
	return &StorageError{Op: op, Code: sqlState(cause), Cause: cause}
}

func sqlState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
