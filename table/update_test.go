package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/expr"
)

func TestUpdateCellsRejectsForeignColumnName(t *testing.T) {
	tab := newPeopleTable(t)
	other, err := tab.Rename(map[string]string{"age": "years"})
	require.NoError(t, err)

	_, err = tab.UpdateCells(other)
	require.Error(t, err)
}

func TestUpdateCellsAcceptsKnownSubsetUniverse(t *testing.T) {
	tab := newPeopleTable(t)
	cond := expr.Binary{Op: expr.OpGt, Left: tab.ColumnRef("age"), Right: expr.Const{Value: int64(18), Type: dtype.Int}}
	adults, err := tab.Filter(cond)
	require.NoError(t, err)

	out, err := tab.UpdateCells(adults)
	require.NoError(t, err)
	require.True(t, tab.Builder().Solver().QueryAreEqual(out.Universe(), tab.Universe()))
}

func TestUpdateRowsRequiresSameColumnSet(t *testing.T) {
	tab := newPeopleTable(t)

	other, err := tab.Without("age")
	require.NoError(t, err)

	_, err = tab.UpdateRows(other)
	require.Error(t, err)
}

func TestUpdateRowsShortcutsWhenSelfIsSubsetOfOther(t *testing.T) {
	tab := newPeopleTable(t)
	cond := expr.Binary{Op: expr.OpGt, Left: tab.ColumnRef("age"), Right: expr.Const{Value: int64(18), Type: dtype.Int}}
	adults, err := tab.Filter(cond)
	require.NoError(t, err)

	out, err := adults.UpdateRows(tab)
	require.NoError(t, err)
	require.Equal(t, tab.TableID(), out.TableID())
}
