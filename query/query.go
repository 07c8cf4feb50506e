// Package query is the chat surface's access to the destination database:
// read-only execution of generated SQL and introspection of the migrated
// (post-reconciliation) schema for the assistant's prompt.
package query

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Runner executes read-only queries against the destination.
type Runner struct {
	db *sql.DB
}

// Open connects to the destination PostgreSQL database.
func Open(connStr string) (*Runner, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open destination database: %w", err)
	}
	return &Runner{db: db}, nil
}

// NewRunner wraps an existing handle, for tests.
func NewRunner(db *sql.DB) *Runner {
	return &Runner{db: db}
}

func (r *Runner) Close() error {
	return r.db.Close()
}

func (r *Runner) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ResultSet is one query's tabular output, rendered to strings for display.
type ResultSet struct {
	Columns []string
	Rows    [][]string
}

// Run executes one query inside a read-only transaction and collects the
// full result set. Result sets are expected to fit in memory; generated
// queries carry LIMIT clauses.
func (r *Runner) Run(ctx context.Context, sqlText string) (*ResultSet, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin read-only transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	rs := &ResultSet{Columns: cols}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		out := make([]string, len(cols))
		for i, v := range vals {
			out[i] = formatCell(v)
		}
		rs.Rows = append(rs.Rows, out)
	}
	return rs, rows.Err()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
