package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lite2pg/source"
)

func TestAffinityOf(t *testing.T) {
	tests := []struct {
		declared string
		want     source.TypeTag
	}{
		{"INTEGER", source.TagInteger},
		{"INT", source.TagInteger},
		{"BIGINT", source.TagInteger},
		{"UNSIGNED BIG INT", source.TagInteger},
		{"TINYINT", source.TagInteger},
		{"TEXT", source.TagText},
		{"VARCHAR(255)", source.TagText},
		{"NCHAR(55)", source.TagText},
		{"CLOB", source.TagText},
		{"BLOB", source.TagBlob},
		{"REAL", source.TagReal},
		{"DOUBLE", source.TagReal},
		{"FLOAT", source.TagReal},
		{"NUMERIC", source.TagUnspecified},
		{"DECIMAL(10,5)", source.TagUnspecified},
		{"BOOLEAN", source.TagUnspecified},
		{"DATE", source.TagUnspecified},
		{"TIMESTAMP", source.TagUnspecified},
		{"", source.TagUnspecified},
		// "CHARINT" matches INT before CHAR, per the affinity precedence
		{"CHARINT", source.TagInteger},
		// "FLOATING POINT" contains "INT" and so gets integer affinity
		{"FLOATING POINT", source.TagInteger},
	}
	for _, tt := range tests {
		name := tt.declared
		if name == "" {
			name = "(empty)"
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, AffinityOf(tt.declared))
		})
	}
}

func TestAffinityOfCaseInsensitive(t *testing.T) {
	assert.Equal(t, source.TagInteger, AffinityOf("integer"))
	assert.Equal(t, source.TagText, AffinityOf("varchar(10)"))
	assert.Equal(t, source.TagReal, AffinityOf("double precision"))
}
