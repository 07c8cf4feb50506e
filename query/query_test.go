package query

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRunner(t *testing.T) (*Runner, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRunner(db), mock
}

func TestRunCollectsResultSet(t *testing.T) {
	r, mock := newMockRunner(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"country", "total"}).
			AddRow("Germany", int64(12)).
			AddRow("Japan", nil).
			AddRow([]byte("France"), 7.5))
	mock.ExpectRollback()

	rs, err := r.Run(context.Background(), "SELECT country, total FROM sales")
	require.NoError(t, err)

	assert.Equal(t, []string{"country", "total"}, rs.Columns)
	require.Len(t, rs.Rows, 3)
	assert.Equal(t, []string{"Germany", "12"}, rs.Rows[0])
	assert.Equal(t, []string{"Japan", "NULL"}, rs.Rows[1])
	assert.Equal(t, []string{"France", "7.5"}, rs.Rows[2])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunEmptyResultSet(t *testing.T) {
	r, mock := newMockRunner(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	rs, err := r.Run(context.Background(), "SELECT id FROM empty")
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, rs.Columns)
	assert.Empty(t, rs.Rows)
}

func TestRunQueryError(t *testing.T) {
	r, mock := newMockRunner(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("relation does not exist"))
	mock.ExpectRollback()

	_, err := r.Run(context.Background(), "SELECT * FROM missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query failed")
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "NULL", formatCell(nil))
	assert.Equal(t, "hello", formatCell([]byte("hello")))
	assert.Equal(t, "42", formatCell(int64(42)))
	assert.Equal(t, "3.14", formatCell(3.14))
	assert.Equal(t, "true", formatCell(true))
}

func TestDescribeSchema(t *testing.T) {
	r, mock := newMockRunner(t)

	mock.ExpectQuery("information_schema.columns").
		WithArgs("public").
		WillReturnRows(sqlmock.NewRows(
			[]string{"table_name", "column_name", "data_type", "is_nullable"}).
			AddRow("region", "region_id", "bigint", "NO").
			AddRow("region", "region", "text", "NO").
			AddRow("country", "country_id", "bigint", "NO").
			AddRow("country", "region_id", "bigint", "YES"))

	mock.ExpectQuery("PRIMARY KEY").
		WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "column_name"}).
			AddRow("region", "region_id").
			AddRow("country", "country_id"))

	mock.ExpectQuery("FOREIGN KEY").
		WithArgs("public").
		WillReturnRows(sqlmock.NewRows(
			[]string{"table_name", "column_name", "ref_table", "ref_column"}).
			AddRow("country", "region_id", "region", "region_id"))

	tables, err := r.DescribeSchema(context.Background(), "public")
	require.NoError(t, err)
	require.Len(t, tables, 2)

	region := tables[0]
	assert.Equal(t, "region", region.Name)
	require.Len(t, region.Columns, 2)
	assert.True(t, region.Columns[0].IsPK)
	assert.Equal(t, "BIGINT", region.Columns[0].Type)
	assert.True(t, region.Columns[1].NotNull)
	assert.Empty(t, region.ForeignKeys)

	country := tables[1]
	assert.Equal(t, "country", country.Name)
	assert.False(t, country.Columns[1].NotNull)
	require.Len(t, country.ForeignKeys, 1)
	assert.Equal(t, ForeignKey{
		Column:    "region_id",
		RefTable:  "region",
		RefColumn: "region_id",
	}, country.ForeignKeys[0])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDescribeSchemaEmpty(t *testing.T) {
	r, mock := newMockRunner(t)

	empty := sqlmock.NewRows([]string{"table_name", "column_name", "data_type", "is_nullable"})
	mock.ExpectQuery("information_schema.columns").WithArgs("public").WillReturnRows(empty)
	mock.ExpectQuery("PRIMARY KEY").WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "column_name"}))
	mock.ExpectQuery("FOREIGN KEY").WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d"}))

	tables, err := r.DescribeSchema(context.Background(), "public")
	require.NoError(t, err)
	assert.Empty(t, tables)
}
