package mapper

import (
	"lite2pg/source"
)

// PostgresType maps a source type tag to its PostgreSQL column type. The
// mapping is a fixed precedence table; the same tag always yields the same
// type and no row values are ever sampled. Values that cannot be represented
// in the mapped type surface later as a row-level coercion error during the
// data copy, never as a silent NULL.
func PostgresType(tag source.TypeTag) string {
	switch tag {
	case source.TagInteger:
		return "BIGINT"
	case source.TagReal:
		return "DOUBLE PRECISION"
	case source.TagBlob:
		return "BYTEA"
	case source.TagText, source.TagUnspecified:
		return "TEXT"
	default:
		return "TEXT"
	}
}
