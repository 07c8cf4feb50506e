package assist

import (
	"fmt"
	"strings"

	"lite2pg/query"
)

// RenderSchemaDoc formats the destination schema for the model prompt. The
// notes at the end mirror the mistakes the model tends to make: guessing
// column names and skipping the join path implied by the foreign keys.
func RenderSchemaDoc(tables []query.Table) string {
	var b strings.Builder
	b.WriteString("Database Schema:\n")

	for _, t := range tables {
		fmt.Fprintf(&b, "- %s(\n", t.Name)
		for i, c := range t.Columns {
			fmt.Fprintf(&b, "    %s %s", c.Name, c.Type)
			if c.IsPK {
				b.WriteString(" PRIMARY KEY")
			}
			if c.NotNull && !c.IsPK {
				b.WriteString(" NOT NULL")
			}
			if fk := fkFor(t, c.Name); fk != nil {
				fmt.Fprintf(&b, " (FK to %s.%s)", fk.RefTable, fk.RefColumn)
			}
			if i < len(t.Columns)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString("  )\n")
	}

	b.WriteString("\nIMPORTANT NOTES:\n")
	b.WriteString("- Use only the table and column names listed above, exactly as written.\n")
	b.WriteString("- Always use proper JOINs for the foreign key relationships shown.\n")
	b.WriteString("- Identifiers may be case-sensitive; quote them with double quotes if they contain uppercase letters.\n")
	return b.String()
}

func fkFor(t query.Table, column string) *query.ForeignKey {
	for i := range t.ForeignKeys {
		if t.ForeignKeys[i].Column == column {
			return &t.ForeignKeys[i]
		}
	}
	return nil
}
