package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lite2pg/source"
)

func descriptor(table string, cols ...string) *source.TableDescriptor {
	desc := &source.TableDescriptor{Name: table}
	for _, c := range cols {
		desc.Columns = append(desc.Columns, source.ColumnDescriptor{
			SourceName: c,
			Tag:        source.TagText,
		})
	}
	return desc
}

func TestReconcileAssignsNamesAndTypes(t *testing.T) {
	desc := &source.TableDescriptor{
		Name: "orders",
		Columns: []source.ColumnDescriptor{
			{SourceName: "order_id", Tag: source.TagInteger},
			{SourceName: "total", Tag: source.TagReal},
			{SourceName: "note", Tag: source.TagText},
		},
	}

	require.NoError(t, Reconcile(desc, NewIdentityMapper()))

	assert.Equal(t, "order_id", desc.Columns[0].DestName)
	assert.Equal(t, "BIGINT", desc.Columns[0].DestType)
	assert.Equal(t, "DOUBLE PRECISION", desc.Columns[1].DestType)
	assert.Equal(t, "TEXT", desc.Columns[2].DestType)
}

func TestReconcilePreservesOrder(t *testing.T) {
	desc := descriptor("t", "c", "b", "a")
	require.NoError(t, Reconcile(desc, NewIdentityMapper()))

	var got []string
	for _, col := range desc.Columns {
		got = append(got, col.DestName)
	}
	assert.Equal(t, []string{"c", "b", "a"}, got)
}

// customers(id INTEGER, Name TEXT, name TEXT): "Name" and "name" fold to the
// same PostgreSQL identifier, which must fail rather than silently pick one.
func TestReconcileCaseInsensitiveCollision(t *testing.T) {
	desc := descriptor("customers", "id", "Name", "name")

	err := Reconcile(desc, NewIdentityMapper())
	require.Error(t, err)

	var conflict *SchemaConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "customers", conflict.Table)
	assert.Equal(t, "name", conflict.Column)
	assert.Equal(t, "Name", conflict.Existing)
}

// A collision introduced by the name mapper itself is caught the same way.
func TestReconcileCollisionFromTransform(t *testing.T) {
	desc := descriptor("t", "OrderID", "order_id")

	err := Reconcile(desc, NewTransformMapper(ForStyle("snake")))

	var conflict *SchemaConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestReconcileReservedWordKeptNotRenamed(t *testing.T) {
	desc := descriptor("t", "user", "order", "limit")
	require.NoError(t, Reconcile(desc, NewIdentityMapper()))

	// Reserved words stay 1:1 with the source name; quoting handles safety.
	assert.Equal(t, "user", desc.Columns[0].DestName)
	assert.Equal(t, "order", desc.Columns[1].DestName)
	assert.Equal(t, "limit", desc.Columns[2].DestName)
	for _, col := range desc.Columns {
		assert.True(t, NeedsQuoting(col.DestName), col.DestName)
	}
}

func TestNeedsQuoting(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"order_id", false},
		{"total", false},
		{"x2", false},
		{"user", true},
		{"select", true},
		{"OrderID", true},
		{"2fast", true},
		{"with space", true},
		{"", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NeedsQuoting(tt.name), tt.name)
	}
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"user"`, QuoteIdent("user"))
	assert.Equal(t, `"a""b"`, QuoteIdent(`a"b`))
}
