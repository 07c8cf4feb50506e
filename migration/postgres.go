package migration

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Destination is the handle the migration needs on the target database:
// DDL execution, and transactions that accept set-based bulk inserts.
type Destination interface {
	// ExecDDL executes a DDL statement outside any data transaction
	ExecDDL(ctx context.Context, ddl string) error

	// Begin opens the transaction that will span one table's entire load
	Begin(ctx context.Context) (Tx, error)

	// Close releases the destination connection
	Close(ctx context.Context) error
}

// Tx is one table-scoped destination transaction.
type Tx interface {
	// ExecBatch runs one parameterized multi-row insert, returning the number
	// of rows written
	ExecBatch(ctx context.Context, sql string, args []any) (int64, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// PgDestination implements Destination on a single pgx connection, held for
// the lifetime of the migration.
type PgDestination struct {
	conn *pgx.Conn
}

// ConnectPg opens the destination PostgreSQL connection.
func ConnectPg(ctx context.Context, connStr string) (*PgDestination, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, &ConnectivityError{Op: "connect", Err: err}
	}
	return &PgDestination{conn: conn}, nil
}

func (d *PgDestination) ExecDDL(ctx context.Context, ddl string) error {
	if _, err := d.conn.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("DDL failed: %w", err)
	}
	return nil
}

func (d *PgDestination) Begin(ctx context.Context) (Tx, error) {
	tx, err := d.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgTx{tx: tx}, nil
}

func (d *PgDestination) Close(ctx context.Context) error {
	if d.conn != nil {
		return d.conn.Close(ctx)
	}
	return nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) ExecBatch(ctx context.Context, sql string, args []any) (int64, error) {
	tag, err := t.tx.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (t *pgTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *pgTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
