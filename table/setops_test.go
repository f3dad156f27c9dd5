package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pathwaydb/flowcore/column"
	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/expr"
)

func TestDifferenceComputesSolverDifference(t *testing.T) {
	tab := newPeopleTable(t)
	cond := expr.Binary{Op: expr.OpGt, Left: tab.ColumnRef("age"), Right: expr.Const{Value: int64(18), Type: dtype.Int}}
	adults, err := tab.Filter(cond)
	require.NoError(t, err)

	out, err := tab.Difference(adults)
	require.NoError(t, err)

	solver := tab.Builder().Solver()
	require.True(t, solver.QueryIsSubset(out.Universe(), tab.Universe()))
	require.True(t, solver.QueryAreDisjoint(out.Universe(), adults.Universe()))
}

func TestIntersectShortcutsToRestrictWhenSubset(t *testing.T) {
	tab := newPeopleTable(t)
	cond := expr.Binary{Op: expr.OpGt, Left: tab.ColumnRef("age"), Right: expr.Const{Value: int64(18), Type: dtype.Int}}
	adults, err := tab.Filter(cond)
	require.NoError(t, err)

	out, err := tab.Intersect(adults)
	require.NoError(t, err)
	require.True(t, tab.Builder().Solver().QueryAreEqual(out.Universe(), adults.Universe()))

	col, ok := out.Column("age")
	require.True(t, ok)
	require.Equal(t, column.CtxRestrict, col.(column.WithExpression).Context.Kind())
}
