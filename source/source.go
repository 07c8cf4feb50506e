package source

import (
	"context"
	"database/sql"
)

// TypeTag is the coarse category a dynamically-typed source column falls
// into. SQLite stores per-value types; at the schema level each column is
// reduced to one of these tags based on its declared type.
type TypeTag string

const (
	TagInteger     TypeTag = "integer"
	TagReal        TypeTag = "real"
	TagText        TypeTag = "text"
	TagBlob        TypeTag = "blob"
	TagUnspecified TypeTag = "unspecified"
)

// SourceDB defines the interface for source database operations
type SourceDB interface {
	// Connect establishes a connection to the source database
	Connect(ctx context.Context, connStr string) error

	// Close closes the database connection
	Close() error

	// Ping verifies the connection to the database
	Ping(ctx context.Context) error

	// ListTables returns all user table names in catalog order
	ListTables(ctx context.Context) ([]string, error)

	// DescribeTable retrieves table structure information
	DescribeTable(ctx context.Context, tableName string) (*TableDescriptor, error)

	// TableDependencies returns all tables and their foreign key dependencies
	TableDependencies(ctx context.Context) ([]string, map[string][]string, error)

	// QueryRows streams rows for a table in a stable order
	QueryRows(ctx context.Context, tableName string, columns []string) (*sql.Rows, error)

	// CountRows returns the current row count of a table
	CountRows(ctx context.Context, tableName string) (int64, error)
}

// ColumnDescriptor describes one source column and, once resolved, its
// destination identity. SourceName and Tag are immutable after introspection;
// DestName and DestType are filled in by the reconciler and type mapper and
// frozen before any row data is written.
type ColumnDescriptor struct {
	SourceName   string
	DeclaredType string
	Tag          TypeTag
	NotNull      bool

	DestName string
	DestType string
}

// TableDescriptor holds one table's structure as read from the source
// catalog. Read-only after introspection.
type TableDescriptor struct {
	Name        string
	Columns     []ColumnDescriptor
	PrimaryKeys []string
}

// ColumnNames returns the source column names in table order.
func (t *TableDescriptor) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.SourceName
	}
	return names
}
