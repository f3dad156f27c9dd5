package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/expr"
)

func TestConcatRequiresDisjointUniverses(t *testing.T) {
	tab := newPeopleTable(t)
	cond := expr.Binary{Op: expr.OpGt, Left: tab.ColumnRef("age"), Right: expr.Const{Value: int64(18), Type: dtype.Int}}
	adults, err := tab.Filter(cond)
	require.NoError(t, err)

	// adults.U is a known subset of tab.U, not provably disjoint from it.
	_, err = tab.Concat(adults)
	require.Error(t, err)
}

func TestConcatOfIndependentTablesSucceeds(t *testing.T) {
	tab := newPeopleTable(t)
	other := newPeopleTableOn(t, tab.Builder())
	require.NoError(t, tab.Builder().Solver().PromiseArePairwiseDisjoint(tab.Universe(), other.Universe()))

	out, err := tab.Concat(other)
	require.NoError(t, err)
	require.ElementsMatch(t, tab.ColumnNames(), out.ColumnNames())
}

func TestConcatRejectsMismatchedSchemas(t *testing.T) {
	tab := newPeopleTable(t)
	other, err := tab.Without("age")
	require.NoError(t, err)

	_, err = tab.Concat(other)
	require.Error(t, err)
}

func TestConcatReindexProducesDisjointResult(t *testing.T) {
	tab := newPeopleTable(t)
	cond := expr.Binary{Op: expr.OpGt, Left: tab.ColumnRef("age"), Right: expr.Const{Value: int64(18), Type: dtype.Int}}
	adults, err := tab.Filter(cond)
	require.NoError(t, err)

	out, err := tab.ConcatReindex(adults)
	require.NoError(t, err)
	require.ElementsMatch(t, tab.ColumnNames(), out.ColumnNames())
}
