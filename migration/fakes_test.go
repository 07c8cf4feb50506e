package migration

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"lite2pg/source"
)

// fakeTx records batch executions for one table-scoped transaction and can
// be scheduled to fail per call.
type fakeTx struct {
	sqls      []string
	argCounts []int
	errs      []error
	commits   int
	rollbacks int
	commitErr error
}

func (f *fakeTx) ExecBatch(ctx context.Context, sqlText string, args []any) (int64, error) {
	f.sqls = append(f.sqls, sqlText)
	f.argCounts = append(f.argCounts, len(args))
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return 0, err
		}
	}
	return int64(len(args)), nil
}

func (f *fakeTx) Commit(ctx context.Context) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.commits++
	return nil
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	f.rollbacks++
	return nil
}

// fakeDest hands out queued transactions and records DDL.
type fakeDest struct {
	ddl     []string
	ddlErr  error
	txQueue []*fakeTx
	txs     []*fakeTx
}

func (f *fakeDest) ExecDDL(ctx context.Context, ddl string) error {
	f.ddl = append(f.ddl, ddl)
	return f.ddlErr
}

func (f *fakeDest) Begin(ctx context.Context) (Tx, error) {
	var tx *fakeTx
	if len(f.txQueue) > 0 {
		tx = f.txQueue[0]
		f.txQueue = f.txQueue[1:]
	} else {
		tx = &fakeTx{}
	}
	f.txs = append(f.txs, tx)
	return tx, nil
}

func (f *fakeDest) Close(ctx context.Context) error { return nil }

// mockRows builds a real *sql.Rows over in-memory data via sqlmock.
func mockRows(t *testing.T, cols []string, data [][]driver.Value) *sql.Rows {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rs := sqlmock.NewRows(cols)
	for _, row := range data {
		rs.AddRow(row...)
	}
	mock.ExpectQuery("SELECT").WillReturnRows(rs)

	rows, err := db.Query("SELECT *")
	require.NoError(t, err)
	return rows
}

// ordersDescriptor returns the reconciled orders(order_id INTEGER, total REAL)
// descriptor used across loader tests.
func ordersDescriptor(t *testing.T) *source.TableDescriptor {
	t.Helper()
	desc := &source.TableDescriptor{
		Name: "orders",
		Columns: []source.ColumnDescriptor{
			{SourceName: "order_id", Tag: source.TagInteger, NotNull: true, DestName: "order_id", DestType: "BIGINT"},
			{SourceName: "total", Tag: source.TagReal, DestName: "total", DestType: "DOUBLE PRECISION"},
		},
		PrimaryKeys: []string{"order_id"},
	}
	return desc
}
