package query

import (
	"context"
	"fmt"
	"strings"
)

// Column is one destination column as the catalog reports it.
type Column struct {
	Name    string
	Type    string
	NotNull bool
	IsPK    bool
}

// ForeignKey is one destination foreign key edge.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// Table is one migrated table's resolved destination schema.
type Table struct {
	Name        string
	Columns     []Column
	ForeignKeys []ForeignKey
}

// DescribeSchema introspects the destination catalog and returns the
// migrated tables with their post-reconciliation column names and types.
// This, not the source schema, is what the assistant's prompt is built from.
func (r *Runner) DescribeSchema(ctx context.Context, schema string) ([]Table, error) {
	colQuery := `
		SELECT c.table_name, c.column_name, c.data_type, c.is_nullable
		FROM information_schema.columns c
		JOIN information_schema.tables t
		  ON t.table_schema = c.table_schema AND t.table_name = c.table_name
		WHERE c.table_schema = $1 AND t.table_type = 'BASE TABLE'
		ORDER BY c.table_name, c.ordinal_position
	`
	rows, err := r.db.QueryContext(ctx, colQuery, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to read destination columns: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]*Table)
	var order []string
	for rows.Next() {
		var table, column, dataType, nullable string
		if err := rows.Scan(&table, &column, &dataType, &nullable); err != nil {
			return nil, fmt.Errorf("failed to scan destination column: %w", err)
		}
		t, ok := byName[table]
		if !ok {
			t = &Table{Name: table}
			byName[table] = t
			order = append(order, table)
		}
		t.Columns = append(t.Columns, Column{
			Name:    column,
			Type:    strings.ToUpper(dataType),
			NotNull: nullable == "NO",
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pkQuery := `
		SELECT tc.table_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON kcu.constraint_name = tc.constraint_name
		 AND kcu.table_schema = tc.table_schema
		WHERE tc.table_schema = $1 AND tc.constraint_type = 'PRIMARY KEY'
	`
	pkRows, err := r.db.QueryContext(ctx, pkQuery, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to read primary keys: %w", err)
	}
	defer pkRows.Close()

	for pkRows.Next() {
		var table, column string
		if err := pkRows.Scan(&table, &column); err != nil {
			return nil, fmt.Errorf("failed to scan primary key: %w", err)
		}
		if t, ok := byName[table]; ok {
			for i := range t.Columns {
				if t.Columns[i].Name == column {
					t.Columns[i].IsPK = true
				}
			}
		}
	}
	if err := pkRows.Err(); err != nil {
		return nil, err
	}

	fkQuery := `
		SELECT tc.table_name, kcu.column_name, ccu.table_name, ccu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON kcu.constraint_name = tc.constraint_name
		 AND kcu.table_schema = tc.table_schema
		JOIN information_schema.constraint_column_usage ccu
		  ON ccu.constraint_name = tc.constraint_name
		 AND ccu.table_schema = tc.table_schema
		WHERE tc.table_schema = $1 AND tc.constraint_type = 'FOREIGN KEY'
	`
	fkRows, err := r.db.QueryContext(ctx, fkQuery, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to read foreign keys: %w", err)
	}
	defer fkRows.Close()

	for fkRows.Next() {
		var table, column, refTable, refColumn string
		if err := fkRows.Scan(&table, &column, &refTable, &refColumn); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		if t, ok := byName[table]; ok {
			t.ForeignKeys = append(t.ForeignKeys, ForeignKey{
				Column: column, RefTable: refTable, RefColumn: refColumn,
			})
		}
	}
	if err := fkRows.Err(); err != nil {
		return nil, err
	}

	tables := make([]Table, 0, len(order))
	for _, name := range order {
		tables = append(tables, *byName[name])
	}
	return tables, nil
}
