package migration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lite2pg/source"
)

func TestTopologicalSortParentsFirst(t *testing.T) {
	tables := []string{"OrderItem", "Product", "Order", "Customer"}
	deps := map[string][]string{
		"orderitem": {"order", "product"},
		"order":     {"customer"},
		"product":   {},
		"customer":  {},
	}

	ordered, err := topologicalSort(tables, deps)
	require.NoError(t, err)
	require.Len(t, ordered, 4)

	pos := make(map[string]int)
	for i, tbl := range ordered {
		pos[tbl] = i
	}
	assert.Less(t, pos["Customer"], pos["Order"])
	assert.Less(t, pos["Order"], pos["OrderItem"])
	assert.Less(t, pos["Product"], pos["OrderItem"])
}

func TestTopologicalSortPreservesOriginalCasing(t *testing.T) {
	tables := []string{"Country", "Region"}
	deps := map[string][]string{"country": {"region"}}

	ordered, err := topologicalSort(tables, deps)
	require.NoError(t, err)
	assert.Equal(t, []string{"Region", "Country"}, ordered)
}

func TestTopologicalSortCycle(t *testing.T) {
	tables := []string{"a", "b"}
	deps := map[string][]string{"a": {"b"}, "b": {"a"}}

	_, err := topologicalSort(tables, deps)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular dependency")
}

func TestOrderTablesCycleFallsBackToCatalogOrder(t *testing.T) {
	src := salesSource(t)
	src.deps = map[string][]string{"country": {"region"}, "region": {"country"}}

	ordered, err := orderTables(context.Background(), src, true, nil)
	require.NoError(t, err)
	assert.Equal(t, src.tables, ordered)
}

func TestOrderTablesFilterIsCaseInsensitive(t *testing.T) {
	src := salesSource(t)

	ordered, err := orderTables(context.Background(), src, false, []string{"region"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Region"}, ordered)
}

func TestOrderTablesNoSelection(t *testing.T) {
	src := salesSource(t)

	_, err := orderTables(context.Background(), src, false, nil)
	require.Error(t, err)
}

func TestOrderTablesUnknownTable(t *testing.T) {
	src := salesSource(t)

	_, err := orderTables(context.Background(), src, false, []string{"Missing"})
	require.Error(t, err)

	var schemaErr *source.SchemaReadError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "Missing", schemaErr.Table)
}
