package migration

import (
	"fmt"
	"strings"

	"lite2pg/mapper"
	"lite2pg/source"
)

// BuildCreateTable renders the destination DDL for a resolved descriptor.
// Every identifier is quoted, so reserved words and mixed-case source names
// carry over 1:1 without renames. The descriptor must already be reconciled;
// no row data is ever written before this DDL has been issued.
func BuildCreateTable(desc *source.TableDescriptor, schema, destTable string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s.%s (\n",
		mapper.QuoteIdent(schema), mapper.QuoteIdent(destTable))

	for i, col := range desc.Columns {
		fmt.Fprintf(&b, "  %s %s", mapper.QuoteIdent(col.DestName), col.DestType)
		if col.NotNull {
			b.WriteString(" NOT NULL")
		}
		if i < len(desc.Columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}

	if len(desc.PrimaryKeys) > 0 {
		pks := make([]string, len(desc.PrimaryKeys))
		for i, pk := range desc.PrimaryKeys {
			pks[i] = mapper.QuoteIdent(destColumnName(desc, pk))
		}
		// Rewind the trailing newline to append the PK clause
		s := strings.TrimSuffix(b.String(), "\n")
		b.Reset()
		b.WriteString(s)
		fmt.Fprintf(&b, ",\n  PRIMARY KEY (%s)\n", strings.Join(pks, ", "))
	}

	b.WriteString(")")
	return b.String()
}

// BuildDropTable renders the drop-and-recreate DDL used when the destination
// may already hold a previous run's data. CASCADE clears dependent foreign
// keys, matching create order with drop order is not required.
func BuildDropTable(schema, destTable string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s.%s CASCADE",
		mapper.QuoteIdent(schema), mapper.QuoteIdent(destTable))
}

// buildInsert renders the set-based insert statement for one batch of
// rowCount rows.
func buildInsert(desc *source.TableDescriptor, schema, destTable string, rowCount int) string {
	cols := make([]string, len(desc.Columns))
	for i, col := range desc.Columns {
		cols[i] = mapper.QuoteIdent(col.DestName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s.%s (%s) VALUES ",
		mapper.QuoteIdent(schema), mapper.QuoteIdent(destTable), strings.Join(cols, ", "))

	n := len(desc.Columns)
	for row := 0; row < rowCount; row++ {
		if row > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for col := 0; col < n; col++ {
			if col > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", row*n+col+1)
		}
		b.WriteString(")")
	}
	return b.String()
}

func destColumnName(desc *source.TableDescriptor, sourceName string) string {
	for _, col := range desc.Columns {
		if col.SourceName == sourceName {
			return col.DestName
		}
	}
	return sourceName
}
