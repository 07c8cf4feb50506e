package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"lite2pg/source"
)

// SQLiteSource implements the SourceDB interface for SQLite database files
type SQLiteSource struct {
	db *sql.DB
}

// New creates a new SQLite source database instance
func New() *SQLiteSource {
	return &SQLiteSource{}
}

// Connect opens the SQLite database file in read-only mode. The migration
// never writes to the source, so the file is opened immutable to the writer.
func (s *SQLiteSource) Connect(ctx context.Context, connStr string) error {
	dsn := connStr
	if !strings.HasPrefix(dsn, "file:") {
		dsn = fmt.Sprintf("file:%s?mode=ro", dsn)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	s.db = db
	return nil
}

// Close closes the database connection
func (s *SQLiteSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping verifies the connection to the database
func (s *SQLiteSource) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not connected")
	}
	return s.db.PingContext(ctx)
}

// ListTables returns all user tables from sqlite_master, excluding the
// sqlite_* internal tables.
func (s *SQLiteSource) ListTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &source.SchemaReadError{Err: fmt.Errorf("failed to read sqlite_master: %w", err)}
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &source.SchemaReadError{Err: fmt.Errorf("failed to scan table name: %w", err)}
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// DescribeTable retrieves table structure from the SQLite catalog via
// PRAGMA table_info. Column order follows the declared order (cid).
func (s *SQLiteSource) DescribeTable(ctx context.Context, tableName string) (*source.TableDescriptor, error) {
	desc := &source.TableDescriptor{
		Name:    tableName,
		Columns: []source.ColumnDescriptor{},
	}

	// PRAGMA does not accept bind parameters; the identifier is quoted inline.
	query := fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdent(tableName))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &source.SchemaReadError{Table: tableName, Err: fmt.Errorf("failed to read columns: %w", err)}
	}
	defer rows.Close()

	type pkCol struct {
		name string
		rank int
	}
	var pks []pkCol

	for rows.Next() {
		var (
			cid      int
			name     string
			declType sql.NullString
			notNull  int
			dflt     sql.NullString
			pk       int
		)
		if err := rows.Scan(&cid, &name, &declType, &notNull, &dflt, &pk); err != nil {
			return nil, &source.SchemaReadError{Table: tableName, Err: fmt.Errorf("failed to scan column: %w", err)}
		}
		desc.Columns = append(desc.Columns, source.ColumnDescriptor{
			SourceName:   name,
			DeclaredType: declType.String,
			Tag:          AffinityOf(declType.String),
			NotNull:      notNull != 0,
		})
		if pk > 0 {
			pks = append(pks, pkCol{name: name, rank: pk})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &source.SchemaReadError{Table: tableName, Err: err}
	}

	// PRAGMA table_info on a missing table returns zero rows rather than an error.
	if len(desc.Columns) == 0 {
		return nil, &source.SchemaReadError{Table: tableName, Err: fmt.Errorf("table does not exist")}
	}

	for rank := 1; rank <= len(pks); rank++ {
		for _, pk := range pks {
			if pk.rank == rank {
				desc.PrimaryKeys = append(desc.PrimaryKeys, pk.name)
			}
		}
	}

	return desc, nil
}

// TableDependencies returns all tables and a graph of foreign key
// dependencies (table -> tables it references), read from
// PRAGMA foreign_key_list per table.
func (s *SQLiteSource) TableDependencies(ctx context.Context) ([]string, map[string][]string, error) {
	tables, err := s.ListTables(ctx)
	if err != nil {
		return nil, nil, err
	}

	dependencies := make(map[string][]string)
	for _, table := range tables {
		dependencies[strings.ToLower(table)] = []string{}
	}

	for _, table := range tables {
		query := fmt.Sprintf(`PRAGMA foreign_key_list(%s)`, quoteIdent(table))
		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			return nil, nil, &source.SchemaReadError{Table: table, Err: fmt.Errorf("failed to read foreign keys: %w", err)}
		}

		seen := make(map[string]bool)
		for rows.Next() {
			var (
				id, seq            int
				refTable, from     string
				to                 sql.NullString
				onUpdate, onDelete string
				match              string
			)
			if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
				rows.Close()
				return nil, nil, &source.SchemaReadError{Table: table, Err: fmt.Errorf("failed to scan foreign key: %w", err)}
			}

			depLower := strings.ToLower(table)
			refLower := strings.ToLower(refTable)

			// Skip self-references and composite-key repeats
			if depLower != refLower && !seen[refLower] {
				dependencies[depLower] = append(dependencies[depLower], refLower)
				seen[refLower] = true
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, nil, &source.SchemaReadError{Table: table, Err: err}
		}
		rows.Close()
	}

	return tables, dependencies, nil
}

// QueryRows streams all rows of a table in rowid order, which is stable for
// the duration of a read-only connection.
func (s *SQLiteSource) QueryRows(ctx context.Context, tableName string, columns []string) (*sql.Rows, error) {
	quotedColumns := make([]string, len(columns))
	for i, col := range columns {
		quotedColumns[i] = quoteIdent(col)
	}
	columnsStr := strings.Join(quotedColumns, ", ")

	query := fmt.Sprintf("SELECT %s FROM %s", columnsStr, quoteIdent(tableName))
	return s.db.QueryContext(ctx, query)
}

// CountRows returns the current row count of a table.
func (s *SQLiteSource) CountRows(ctx context.Context, tableName string) (int64, error) {
	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(tableName))
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", tableName, err)
	}
	return count, nil
}

// quoteIdent double-quotes an identifier, escaping embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
