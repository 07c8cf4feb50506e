package migration

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"lite2pg/mapper"
	"lite2pg/source"
)

// TypeCoercionError reports a row value that cannot be represented in the
// column's mapped destination type. It rolls back the whole table rather
// than coercing the value to NULL.
type TypeCoercionError struct {
	Table    string
	Column   string
	Row      int64
	DestType string
	Value    any
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("type coercion failed in table %s, column %s, row %d: %T value %v cannot be represented as %s",
		e.Table, e.Column, e.Row, e.Value, e.Value, e.DestType)
}

// ConstraintViolationError reports a destination-side uniqueness, foreign
// key, or not-null violation.
type ConstraintViolationError struct {
	Table string
	Err   error
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("constraint violation in table %s: %v", e.Table, e.Err)
}

func (e *ConstraintViolationError) Unwrap() error {
	return e.Err
}

// ConnectivityError reports either database becoming unreachable
// mid-operation. It is retried a bounded number of times at batch level and
// never silently swallowed.
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("connectivity failure during %s: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// classifyPgError wraps a destination error into the taxonomy: SQLSTATE
// class 23 is a constraint violation, class 08 and network-level failures are
// connectivity problems. Anything else is returned as-is.
func classifyPgError(table, op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "23":
			return &ConstraintViolationError{Table: table, Err: err}
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08":
			return &ConnectivityError{Op: op, Err: err}
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return &ConnectivityError{Op: op, Err: err}
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return &ConnectivityError{Op: op, Err: err}
	}
	return err
}

// ErrorKind names the taxonomy bucket of a table failure for the final
// summary.
func ErrorKind(err error) string {
	var (
		schemaRead *source.SchemaReadError
		conflict   *mapper.SchemaConflictError
		coercion   *TypeCoercionError
		constraint *ConstraintViolationError
		conn       *ConnectivityError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &schemaRead):
		return "SchemaReadError"
	case errors.As(err, &conflict):
		return "SchemaConflictError"
	case errors.As(err, &coercion):
		return "TypeCoercionError"
	case errors.As(err, &constraint):
		return "ConstraintViolationError"
	case errors.As(err, &conn):
		return "ConnectivityError"
	default:
		return "Error"
	}
}
