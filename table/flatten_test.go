package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/graph"
)

func TestFlattenNarrowsArrayColumnToElementType(t *testing.T) {
	b := graph.NewBuilder()
	tab, err := FromColumns(b, []string{"tags"}, []column.Properties{{Type: dtype.Array(dtype.String)}})
	require.NoError(t, err)

	tagsID, _ := tab.ColumnID("tags")
	out, err := tab.Flatten(tagsID)
	require.NoError(t, err)

	field, ok := out.Schema().Field("tags")
	require.True(t, ok)
	require.True(t, dtype.Equal(dtype.String, field.Type))
	require.False(t, tab.Builder().Solver().QueryAreEqual(out.Universe(), tab.Universe()))
}

func TestFlattenRejectsNonArrayColumn(t *testing.T) {
	tab := newPeopleTable(t)
	ageID, _ := tab.ColumnID("age")
	_, err := tab.Flatten(ageID)
	require.Error(t, err)
}

func TestFlattenRejectsUnknownColumn(t *testing.T) {
	tab := newPeopleTable(t)
	_, err := tab.Flatten(999999)
	require.Error(t, err)
}
