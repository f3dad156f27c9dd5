package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pathwaydb/flowcore/expr"
)

func TestGroupByRejectsEmptyColumns(t *testing.T) {
	tab := newPeopleTable(t)
	_, err := tab.GroupBy()
	require.Error(t, err)
}

func TestGroupByRejectsUnknownColumn(t *testing.T) {
	tab := newPeopleTable(t)
	_, err := tab.GroupBy(999999)
	require.Error(t, err)
}

func TestReduceRejectsEmptyAssignments(t *testing.T) {
	tab := newPeopleTable(t)
	nameID, _ := tab.ColumnID("name")
	g, err := tab.GroupBy(nameID)
	require.NoError(t, err)

	_, err = g.Reduce(nil)
	require.Error(t, err)
}

func TestReduceAllowsGroupColumnPassthrough(t *testing.T) {
	tab := newPeopleTable(t)
	nameID, _ := tab.ColumnID("name")
	g, err := tab.GroupBy(nameID)
	require.NoError(t, err)

	out, err := g.Reduce([]Assignment{
		{Name: "name", Expr: tab.ColumnRef("name")},
		{Name: "total", Expr: expr.Reducer{Op: expr.ReducerCount, Operand: tab.ColumnRef("age")}},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"name", "total"}, out.ColumnNames())
}

func TestReduceRejectsPlainRowwiseExpression(t *testing.T) {
	tab := newPeopleTable(t)
	nameID, _ := tab.ColumnID("name")
	g, err := tab.GroupBy(nameID)
	require.NoError(t, err)

	_, err = g.Reduce([]Assignment{
		{Name: "age", Expr: tab.ColumnRef("age")},
	})
	require.Error(t, err)
}
