package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lite2pg/source"
)

func TestPostgresType(t *testing.T) {
	tests := []struct {
		tag  source.TypeTag
		want string
	}{
		{source.TagInteger, "BIGINT"},
		{source.TagReal, "DOUBLE PRECISION"},
		{source.TagText, "TEXT"},
		{source.TagUnspecified, "TEXT"},
		{source.TagBlob, "BYTEA"},
	}
	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			assert.Equal(t, tt.want, PostgresType(tt.tag))
		})
	}
}

// The mapping must be a pure function of the tag: no heuristics, no state.
func TestPostgresTypeDeterministic(t *testing.T) {
	tags := []source.TypeTag{
		source.TagInteger, source.TagReal, source.TagText,
		source.TagBlob, source.TagUnspecified,
	}
	for _, tag := range tags {
		first := PostgresType(tag)
		for i := 0; i < 100; i++ {
			assert.Equal(t, first, PostgresType(tag))
		}
	}
}
