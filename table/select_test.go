package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pathwaydb/flowcore/dtype"
	"github.com/pathwaydb/flowcore/expr"
)

func TestSelectPassthroughKeepsColumnID(t *testing.T) {
	tab := newPeopleTable(t)
	ageID, _ := tab.ColumnID("age")

	out, err := tab.Select([]Assignment{
		{Name: "age", Expr: tab.ColumnRef("age")},
	})
	require.NoError(t, err)

	outID, ok := out.ColumnID("age")
	require.True(t, ok)
	require.Equal(t, ageID, outID, "a bare ColumnRef passthrough must not mint a new column id")
}

func TestSelectComputedColumnMintsFreshID(t *testing.T) {
	tab := newPeopleTable(t)
	ageID, _ := tab.ColumnID("age")

	out, err := tab.Select([]Assignment{
		{Name: "age_plus_one", Expr: expr.Binary{Op: expr.OpAdd, Left: tab.ColumnRef("age"), Right: expr.Const{Value: int64(1), Type: dtype.Int}}},
	})
	require.NoError(t, err)

	newID, ok := out.ColumnID("age_plus_one")
	require.True(t, ok)
	require.NotEqual(t, ageID, newID)
}

func TestSelectRejectsEmptyAssignments(t *testing.T) {
	tab := newPeopleTable(t)
	_, err := tab.Select(nil)
	require.Error(t, err)
}

func TestSelectRejectsForeignTableColumns(t *testing.T) {
	tab := newPeopleTable(t)
	other := newPeopleTableOn(t, tab.Builder())

	_, err := tab.Select([]Assignment{{Name: "name", Expr: other.ColumnRef("name")}})
	require.Error(t, err)
}
