package mapper

import (
	"fmt"
	"strings"

	"lite2pg/source"
)

// SchemaConflictError reports two source columns whose destination names
// collide under PostgreSQL's case-insensitive identifier folding. The
// conflict is deterministic given the schema, so it aborts the table before
// any DDL is issued rather than silently picking one column.
type SchemaConflictError struct {
	Table    string
	Column   string
	Existing string
}

func (e *SchemaConflictError) Error() string {
	return fmt.Sprintf("schema conflict in table %s: columns %q and %q fold to the same destination identifier",
		e.Table, e.Existing, e.Column)
}

// Reconcile assigns destination names and types to every column of the
// descriptor, in place. Column order is preserved and no column is ever
// dropped or reordered. Names are carried over 1:1 (via the NameMapper,
// identity by default); identifiers that collide with destination reserved
// words or that PostgreSQL would case-fold are quoted at SQL generation time
// rather than renamed.
func Reconcile(desc *source.TableDescriptor, nameMapper NameMapper) error {
	seen := make(map[string]string, len(desc.Columns))
	for i := range desc.Columns {
		col := &desc.Columns[i]
		dest := nameMapper.MapColumnName(desc.Name, col.SourceName)

		folded := strings.ToLower(dest)
		if existing, ok := seen[folded]; ok {
			return &SchemaConflictError{Table: desc.Name, Column: col.SourceName, Existing: existing}
		}
		seen[folded] = col.SourceName

		col.DestName = dest
		col.DestType = PostgresType(col.Tag)
	}
	return nil
}

// NeedsQuoting reports whether an identifier must be quoted in PostgreSQL
// DDL or queries: it is a reserved word, contains uppercase (which PostgreSQL
// would fold away), or is not a plain lower-case identifier.
func NeedsQuoting(name string) bool {
	if reservedWords[strings.ToLower(name)] {
		return true
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return true
			}
		default:
			return true
		}
	}
	return name == ""
}

// QuoteIdent double-quotes an identifier for PostgreSQL, escaping embedded
// quotes. Quoting every identifier keeps reserved words and mixed-case names
// mapped 1:1 without renames.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// reservedWords is the set of PostgreSQL reserved keywords that cannot be
// used as bare column identifiers.
var reservedWords = map[string]bool{
	"all": true, "analyse": true, "analyze": true, "and": true, "any": true,
	"array": true, "as": true, "asc": true, "asymmetric": true, "both": true,
	"case": true, "cast": true, "check": true, "collate": true, "column": true,
	"constraint": true, "create": true, "current_catalog": true,
	"current_date": true, "current_role": true, "current_time": true,
	"current_timestamp": true, "current_user": true, "default": true,
	"deferrable": true, "desc": true, "distinct": true, "do": true,
	"else": true, "end": true, "except": true, "false": true, "fetch": true,
	"for": true, "foreign": true, "from": true, "grant": true, "group": true,
	"having": true, "in": true, "initially": true, "intersect": true,
	"into": true, "lateral": true, "leading": true, "limit": true,
	"localtime": true, "localtimestamp": true, "not": true, "null": true,
	"offset": true, "on": true, "only": true, "or": true, "order": true,
	"placing": true, "primary": true, "references": true, "returning": true,
	"select": true, "session_user": true, "some": true, "symmetric": true,
	"table": true, "then": true, "to": true, "trailing": true, "true": true,
	"union": true, "unique": true, "user": true, "using": true,
	"variadic": true, "when": true, "where": true, "window": true,
	"with": true,
}
