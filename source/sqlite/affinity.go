package sqlite

import (
	"strings"

	"lite2pg/source"
)

// AffinityOf reduces a SQLite declared column type to its type affinity,
// following the declared-type rules from the SQLite datatype documentation:
// "INT" anywhere wins, then "CHAR"/"CLOB"/"TEXT", then "BLOB", then
// "REAL"/"FLOA"/"DOUB". A column with no declared type or an unrecognized
// one is tagged unspecified; SQLite would give those BLOB respectively
// NUMERIC affinity, but at the schema level both carry no usable type
// information for the destination.
func AffinityOf(declaredType string) source.TypeTag {
	decl := strings.ToUpper(strings.TrimSpace(declaredType))
	switch {
	case decl == "":
		return source.TagUnspecified
	case strings.Contains(decl, "INT"):
		return source.TagInteger
	case strings.Contains(decl, "CHAR"), strings.Contains(decl, "CLOB"), strings.Contains(decl, "TEXT"):
		return source.TagText
	case strings.Contains(decl, "BLOB"):
		return source.TagBlob
	case strings.Contains(decl, "REAL"), strings.Contains(decl, "FLOA"), strings.Contains(decl, "DOUB"):
		return source.TagReal
	default:
		return source.TagUnspecified
	}
}
