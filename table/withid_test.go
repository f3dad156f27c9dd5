package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/graph"
)

func TestWithIDRequiresPointerColumn(t *testing.T) {
	tab := newPeopleTable(t)
	ageID, _ := tab.ColumnID("age")
	_, err := tab.WithID(ageID)
	require.Error(t, err)
}

func TestWithIDReindexesOntoFreshUniverse(t *testing.T) {
	b := graph.NewBuilder()
	tab, err := FromColumns(b, []string{"parent"}, []column.Properties{{Type: dtype.Pointer}})
	require.NoError(t, err)

	parentID, _ := tab.ColumnID("parent")
	out, err := tab.WithID(parentID)
	require.NoError(t, err)
	require.False(t, tab.Builder().Solver().QueryAreEqual(out.Universe(), tab.Universe()))
	require.Equal(t, tab.ColumnNames(), out.ColumnNames())
}

func TestWithIDFromRejectsEmptyExprs(t *testing.T) {
	tab := newPeopleTable(t)
	_, err := tab.WithIDFrom()
	require.Error(t, err)
}

func TestWithIDFromBuildsNewIdentity(t *testing.T) {
	tab := newPeopleTable(t)
	out, err := tab.WithIDFrom(tab.ColumnRef("name"), tab.ColumnRef("age"))
	require.NoError(t, err)
	require.Equal(t, tab.ColumnNames(), out.ColumnNames())
	require.False(t, tab.Builder().Solver().QueryAreEqual(out.Universe(), tab.Universe()))
}
