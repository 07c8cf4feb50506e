package mapper

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// NameMapper maps source table and column names to their destination names.
// The default mapper is the identity: destination identifiers stay 1:1 with
// the source, and anything unsafe for PostgreSQL is quoted rather than
// renamed. Renaming (e.g. folding CamelCase SQLite schemas to snake_case) is
// strictly opt-in.
type NameMapper interface {
	// MapTableName maps a source table name to its destination table name
	MapTableName(sourceTableName string) string

	// MapColumnName maps a source column name to its destination column name
	MapColumnName(tableName string, sourceColumnName string) string
}

// IdentityMapper keeps all names unchanged.
type IdentityMapper struct{}

// NewIdentityMapper creates the default, no-rename mapper
func NewIdentityMapper() *IdentityMapper {
	return &IdentityMapper{}
}

func (m *IdentityMapper) MapTableName(sourceTableName string) string {
	return sourceTableName
}

func (m *IdentityMapper) MapColumnName(tableName string, sourceColumnName string) string {
	return sourceColumnName
}

// TransformMapper applies one transformer function to every table and column
// name, with per-name overrides taking precedence.
type TransformMapper struct {
	// TableOverrides maps source table names to explicit destination names
	TableOverrides map[string]string

	// ColumnOverrides maps table names to per-column explicit destination names
	ColumnOverrides map[string]map[string]string

	// Transform is applied to any name without an override
	Transform func(string) string
}

// NewTransformMapper creates a mapper around the given transformer.
func NewTransformMapper(transform func(string) string) *TransformMapper {
	return &TransformMapper{
		TableOverrides:  make(map[string]string),
		ColumnOverrides: make(map[string]map[string]string),
		Transform:       transform,
	}
}

func (m *TransformMapper) MapTableName(sourceTableName string) string {
	if mapped, ok := m.TableOverrides[sourceTableName]; ok {
		return mapped
	}
	if m.Transform != nil {
		return m.Transform(sourceTableName)
	}
	return sourceTableName
}

func (m *TransformMapper) MapColumnName(tableName string, sourceColumnName string) string {
	if cols, ok := m.ColumnOverrides[tableName]; ok {
		if mapped, ok := cols[sourceColumnName]; ok {
			return mapped
		}
	}
	if m.Transform != nil {
		return m.Transform(sourceColumnName)
	}
	return sourceColumnName
}

// AddTableOverride pins a destination name for one table.
func (m *TransformMapper) AddTableOverride(sourceTable, destTable string) {
	m.TableOverrides[sourceTable] = destTable
}

// AddColumnOverride pins a destination name for one column of one table.
func (m *TransformMapper) AddColumnOverride(tableName, sourceColumn, destColumn string) {
	if m.ColumnOverrides[tableName] == nil {
		m.ColumnOverrides[tableName] = make(map[string]string)
	}
	m.ColumnOverrides[tableName][sourceColumn] = destColumn
}

// ForStyle returns the transformer for a configured naming style, or nil for
// the identity styles.
func ForStyle(style string) func(string) string {
	switch strings.ToLower(style) {
	case "snake":
		return strcase.ToSnake
	case "lower":
		return strings.ToLower
	case "camel":
		return strcase.ToLowerCamel
	default:
		return nil
	}
}
